package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/Makepad-fr/casegen/internal/clipboard"
	"github.com/Makepad-fr/casegen/internal/model"
)

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// TermWidth is the stdout width, 80 when it is not a terminal.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Truncate shortens s to width terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Ratio renders a bar showing part out of total.
func Ratio(part, total, width int) string {
	t := Current()
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(part) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
}

// Panel draws a framed box using the current theme.
func Panel(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// TypeBadge renders the Positive/Negative pill.
func TypeBadge(ty model.Type) string {
	t := Current()
	label := strings.ToUpper(string(ty))
	switch ty {
	case model.Positive:
		return t.Positive.Render(label)
	case model.Negative:
		return t.Negative.Render(label)
	}
	return t.Muted.Render(label)
}

// Summary is the results header: count, per-type split, and the ratio bar.
func Summary(positive, negative, total int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s",
		t.Title.Render(fmt.Sprintf("Generated %d Test Cases", total)),
		t.Success.Render(t.SymPositive), positive,
		t.Error.Render(t.SymNegative), negative,
		t.Muted.Render(Ratio(positive, positive+negative, 20)),
	)
}

// Card renders one test case for plain terminal output.
func Card(tc model.TestCase, width int) string {
	t := Current()
	if width < 30 {
		width = 30
	}
	inner := width - 4

	badge := TypeBadge(tc.Type)
	id := t.IDBadge.Render(tc.ID)
	room := inner - lipgloss.Width(id) - lipgloss.Width(badge) - 2
	title := Truncate(OneLine(tc.Title), room)
	gap := room - lipgloss.Width(title)
	if gap < 0 {
		gap = 0
	}
	head := id + " " + t.Title.Render(title) + strings.Repeat(" ", gap+1) + badge

	lines := []string{head, "", t.Muted.Render("STEPS")}
	if len(tc.Steps) == 0 {
		lines = append(lines, t.Muted.Render("  (none)"))
	}
	for i, s := range tc.Steps {
		lines = append(lines, Truncate(fmt.Sprintf("  %d. %s", i+1, OneLine(s)), inner))
	}
	lines = append(lines, "", t.Muted.Render("EXPECTED RESULT"))
	lines = append(lines, Truncate("  "+OneLine(tc.ExpectedResult), inner))

	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// Cards renders the summary header followed by every card.
func Cards(cs []model.TestCase, width int) string {
	t := Current()
	if len(cs) == 0 {
		return Panel(t.Title.Render("Ready to Generate") + "\n" +
			t.Muted.Render("Enter a user story to generate test cases."))
	}
	var p, n int
	for _, tc := range cs {
		switch tc.Type {
		case model.Positive:
			p++
		case model.Negative:
			n++
		}
	}
	out := []string{Summary(p, n, len(cs)), ""}
	for _, tc := range cs {
		out = append(out, Card(tc, width))
	}
	return strings.Join(out, "\n")
}

// StepsLine flattens steps the same way the clipboard table does.
func StepsLine(steps []string) string { return clipboard.FlattenSteps(steps) }

// OneLine collapses all whitespace runs, newlines included, to single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
