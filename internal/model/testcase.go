package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type tells whether a test case exercises the happy path or a failure path.
type Type string

const (
	Positive Type = "Positive"
	Negative Type = "Negative"
)

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool { return t == Positive || t == Negative }

// Toggle flips Positive and Negative. Unknown values become Positive.
func (t Type) Toggle() Type {
	if t == Positive {
		return Negative
	}
	return Positive
}

// TestCase is one generated or manually authored case.
type TestCase struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Type           Type   `json:"type"`
	Steps          Steps  `json:"steps"`
	ExpectedResult string `json:"expected_result"`
}

// Clone returns a copy that does not share the steps slice.
func (tc TestCase) Clone() TestCase {
	out := tc
	if tc.Steps != nil {
		out.Steps = append(Steps(nil), tc.Steps...)
	}
	return out
}

// Steps is the ordered list of step descriptions.
// The generator sometimes answers with a single string instead of an array.
type Steps []string

func (s *Steps) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return fmt.Errorf("steps: %w", err)
		}
		*s = Steps{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("steps: %w", err)
	}
	*s = many
	return nil
}
