package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/casegen/internal/model"
	"github.com/Makepad-fr/casegen/internal/ui"
)

// cardItem adapts a test case to bubbles/list.Item
type cardItem struct {
	tc model.TestCase
}

func (i cardItem) Title() string       { return i.tc.Title }
func (i cardItem) Description() string { return ui.StepsLine(i.tc.Steps) }
func (i cardItem) FilterValue() string { return i.tc.ID + " " + i.tc.Title }

// cardDelegate draws each case as a three line card.
type cardDelegate struct{}

func (d cardDelegate) Height() int                               { return 3 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	if !ok {
		return
	}
	t := ui.Current()
	width := m.Width() - 2
	if width < 20 {
		width = 20
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("▌") + " "
	}

	id := t.IDBadge.Render(it.tc.ID)
	badge := ui.TypeBadge(it.tc.Type)
	room := width - lipgloss.Width(id) - lipgloss.Width(badge) - 2
	title := ui.Truncate(ui.OneLine(it.tc.Title), room)
	if index == m.Index() {
		title = t.Title.Render(title)
	}
	head := fmt.Sprintf("%s %s %s", id, title, badge)

	steps := ui.Truncate("Steps: "+it.Description(), width)
	expected := ui.Truncate("Expected: "+ui.OneLine(it.tc.ExpectedResult), width)

	fmt.Fprintf(w, "%s%s\n  %s\n  %s",
		prefix, head,
		t.Muted.Render(steps),
		t.Muted.Render(expected))
}
