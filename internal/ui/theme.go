package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Selected lipgloss.Style
	Positive, Negative, IDBadge                    lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	SymOK, SymFail, SymPositive, SymNegative string
	BarFull, BarEmpty                        string
}

var current = build("classic")

// SetTheme switches the active theme. Unknown names fall back to classic.
func SetTheme(name string) { current = build(name) }

// Current exposes what renderers need.
func Current() Theme { return current }

func build(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:        "neon",
			Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("48")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true),
			Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
			Positive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("48")).Padding(0, 1),
			Negative:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("197")).Padding(0, 1),
			IDBadge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("99"),
			SymOK:       "✔", SymFail: "✖", SymPositive: "◆", SymNegative: "◇",
			BarFull: "█", BarEmpty: "░",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain, Success: plain, Error: plain,
			Selected: plain.Reverse(true),
			Positive: plain, Negative: plain, IDBadge: plain,
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},
			SymOK:       "ok", SymFail: "x", SymPositive: "+", SymNegative: "-",
			BarFull: "#", BarEmpty: ".",
		}
	default:
		return Theme{
			Name:        "classic",
			Title:       lipgloss.NewStyle().Bold(true),
			Muted:       lipgloss.NewStyle().Faint(true),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
			Positive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#006644")).Background(lipgloss.Color("#E3FCEF")).Padding(0, 1),
			Negative:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BF2600")).Background(lipgloss.Color("#FFEBE6")).Padding(0, 1),
			IDBadge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#42526E")).Background(lipgloss.Color("#EBECF0")).Padding(0, 1),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			SymOK:       "✔", SymFail: "✖", SymPositive: "+", SymNegative: "−",
			BarFull: "█", BarEmpty: "░",
		}
	}
}
