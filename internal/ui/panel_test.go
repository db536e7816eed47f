package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/casegen/internal/model"
)

func useMono(t *testing.T) {
	t.Helper()
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })
}

func TestRatio(t *testing.T) {
	useMono(t)
	assert.Equal(t, "#####.....", Ratio(1, 2, 10))
	assert.Equal(t, "..........", Ratio(0, 0, 10))
	assert.Equal(t, "#####", Ratio(9, 3, 2))
}

func TestOKFail(t *testing.T) {
	useMono(t)
	var buf bytes.Buffer
	OK(&buf, "exported")
	Fail(&buf, "nope")
	assert.Equal(t, "ok exported\nx nope\n", buf.String())
}

func TestSetThemeFallsBack(t *testing.T) {
	SetTheme("solarized")
	assert.Equal(t, "classic", Current().Name)
	SetTheme("NEON")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("classic")
}

func TestCardContent(t *testing.T) {
	useMono(t)
	tc := model.TestCase{
		ID: "TC-007", Title: "Reset password", Type: model.Negative,
		Steps:          model.Steps{"Open reset\npage", "Submit unknown email"},
		ExpectedResult: "Generic confirmation shown",
	}
	out := Card(tc, 60)

	assert.Contains(t, out, "TC-007")
	assert.Contains(t, out, "NEGATIVE")
	assert.Contains(t, out, "1. Open reset page")
	assert.Contains(t, out, "2. Submit unknown email")
	assert.Contains(t, out, "Generic confirmation shown")
	for _, ln := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(ln), 60)
	}
}

func TestCardsEmptyState(t *testing.T) {
	useMono(t)
	assert.Contains(t, Cards(nil, 80), "Ready to Generate")
}

func TestCardsSummary(t *testing.T) {
	useMono(t)
	out := Cards([]model.TestCase{
		{ID: "TC-001", Type: model.Positive},
		{ID: "TC-002", Type: model.Negative},
		{ID: "TC-003", Type: model.Negative},
	}, 60)
	assert.Contains(t, out, "Generated 3 Test Cases")
	assert.Contains(t, out, "+ 1")
	assert.Contains(t, out, "- 2")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "1. a | 2. b", StepsLine([]string{"a", "b"}))
}
