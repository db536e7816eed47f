package clipboard

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/casegen/internal/model"
)

func twoCases() []model.TestCase {
	return []model.TestCase{
		{
			ID: "TC-001", Title: "Valid login", Type: model.Positive,
			Steps:          model.Steps{"Open login page", "Submit valid\ncredentials"},
			ExpectedResult: "User lands on\r\nthe dashboard",
		},
		{
			ID: "TC-002", Title: "Invalid\temail", Type: model.Negative,
			Steps:          model.Steps{"Open login page", "Type bad email"},
			ExpectedResult: "Validation error\rshown",
		},
	}
}

func TestFormatShape(t *testing.T) {
	out := Format(twoCases())

	require.True(t, strings.HasSuffix(out, "\n"))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	for _, ln := range lines {
		assert.Len(t, strings.Split(ln, "\t"), 6, "line %q", ln)
		assert.NotContains(t, ln, "\r")
	}
}

func TestFormatRow(t *testing.T) {
	out := Format(twoCases())
	lines := strings.Split(out, "\n")

	assert.Equal(t,
		"TC-001\tPositive\tValid login\tValid login\t1. Open login page | 2. Submit valid credentials\tUser lands on the dashboard",
		lines[1])
	assert.Equal(t,
		"TC-002\tNegative\tInvalid email\tInvalid email\t1. Open login page | 2. Type bad email\tValidation error shown",
		lines[2])
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, Header+"\n", Format(nil))
}

func TestCopy(t *testing.T) {
	old := writeAll
	defer func() { writeAll = old }()

	var got string
	calls := 0
	writeAll = func(s string) error {
		calls++
		got = s
		return nil
	}

	wrote, err := Copy(nil, nil)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Equal(t, 0, calls)

	wrote, err = Copy(nil, twoCases())
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Format(twoCases()), got)

	writeAll = func(string) error { return errors.New("no xclip") }
	_, err = Copy(nil, twoCases())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write clipboard")
}

func TestCopyWithWriter(t *testing.T) {
	old := writeAll
	defer func() { writeAll = old }()
	writeAll = func(string) error {
		t.Fatal("system clipboard used")
		return nil
	}

	var got string
	wrote, err := Copy(func(s string) error { got = s; return nil }, twoCases())
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, Format(twoCases()), got)
}

func TestFormatStepsSentAsString(t *testing.T) {
	var tc model.TestCase
	require.NoError(t, json.Unmarshal([]byte(`{"id":"TC-001","title":"T","type":"Positive",
		"steps":"Open page\nSubmit","expected_result":"ok"}`), &tc))

	lines := strings.Split(strings.TrimSuffix(Format([]model.TestCase{tc}), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "TC-001\tPositive\tT\tT\t1. Open page Submit\tok", lines[1])
}
