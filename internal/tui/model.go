// Package tui is the interactive test case view: a form on the left, the
// generated cards on the right.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/casegen/internal/api"
	"github.com/Makepad-fr/casegen/internal/model"
	"github.com/Makepad-fr/casegen/internal/ui"
	"github.com/Makepad-fr/casegen/internal/view"
)

type focus int

const (
	focusStory focus = iota
	focusCriteria
	focusResults
)

type mode int

const (
	modeBrowse mode = iota
	modeEditTitle
	modeEditSteps
	modeEditExpected
	modeExport
)

const (
	formWidth = 44
	minWidth  = 80
	minHeight = 20
)

type generatedMsg struct {
	cases []model.TestCase
	err   error
}

type exportedMsg struct{ err error }

type copiedResetMsg struct{ seq int }

// Model is the Bubble Tea model. The view state it points at is only ever
// touched from Update.
type Model struct {
	ctx     context.Context
	state   *view.State
	backend view.Backend

	keys keyMap
	help help.Model
	spin spinner.Model

	story    textarea.Model
	criteria textarea.Model
	list     list.Model

	// Inline edit
	editor  textarea.Model  // steps, expected result
	line    textinput.Model // title
	editID  string
	editErr string

	// Export form
	project     textinput.Model
	parent      textinput.Model
	exportField int

	// Undo support (single-level)
	undo *deletedCase

	focus  focus
	mode   mode
	width  int
	height int
}

type deletedCase struct {
	index int
	tc    model.TestCase
}

// New builds the model around s. Calls go to b.
func New(ctx context.Context, s *view.State, b view.Backend) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	t := ui.Current()

	story := textarea.New()
	story.Placeholder = "As a user, I want to..."
	story.ShowLineNumbers = false
	story.CharLimit = 0
	story.SetValue(s.UserStory)

	criteria := textarea.New()
	criteria.Placeholder = "- Must verify email format..."
	criteria.ShowLineNumbers = false
	criteria.CharLimit = 0
	criteria.SetValue(s.AcceptanceCriteria)

	l := list.New(nil, cardDelegate{}, 0, 0)
	l.Title = "Test Cases"
	l.Styles.Title = t.Title
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("test case", "test cases")
	l.FilterInput.Prompt = "/ "
	l.DisableQuitKeybindings()
	// d and u belong to delete/undo
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0

	line := textinput.New()
	line.Prompt = "> "
	line.CharLimit = 0

	project := textinput.New()
	project.Prompt = "Project Key: "
	project.Placeholder = view.DefaultProjectKey
	project.SetValue(s.ProjectKey)

	parent := textinput.New()
	parent.Prompt = "Parent Key:  "
	parent.Placeholder = "e.g. AT-123 (optional)"
	parent.SetValue(s.ParentKey)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(t.Accent))

	m := Model{
		ctx:      ctx,
		state:    s,
		backend:  b,
		keys:     defaultKeys(),
		help:     help.New(),
		spin:     sp,
		story:    story,
		criteria: criteria,
		list:     l,
		editor:   editor,
		line:     line,
		project:  project,
		parent:   parent,
	}
	m.story.Focus()
	m.resize(100, 32)
	m.syncList()
	return m
}

func (m Model) Init() tea.Cmd { return textarea.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case generatedMsg:
		m.state.FinishGenerate(msg.cases, msg.err)
		cmd := m.syncList()
		m.list.Select(0)
		if msg.err == nil && m.state.Len() > 0 {
			m.setFocus(focusResults)
		}
		return m, cmd

	case exportedMsg:
		m.state.FinishExport(msg.err)
		return m, nil

	case copiedResetMsg:
		m.state.ResetCopied(msg.seq)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEditTitle:
			return m.updateLineEdit(msg)
		case modeEditSteps, modeEditExpected:
			return m.updateAreaEdit(msg)
		case modeExport:
			return m.updateExport(msg)
		}
		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Generate):
			return m.startGenerate()
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % 3)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + 2) % 3)
		}
		if m.focus == focusResults {
			return m.updateResults(msg)
		}
	}

	return m.updateFocused(msg)
}

func (m Model) busy() bool { return m.state.Generating() || m.state.Exporting() }

// updateFocused forwards anything else (typing, cursor blink) to the widget
// that owns the keyboard.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeEditTitle:
		m.line, cmd = m.line.Update(msg)
		return m, cmd
	case modeEditSteps, modeEditExpected:
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	case modeExport:
		if m.exportField == 0 {
			m.project, cmd = m.project.Update(msg)
		} else {
			m.parent, cmd = m.parent.Update(msg)
		}
		return m, cmd
	}
	switch m.focus {
	case focusStory:
		m.story, cmd = m.story.Update(msg)
	case focusCriteria:
		m.criteria, cmd = m.criteria.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.story.Blur()
	m.criteria.Blur()
	switch f {
	case focusStory:
		return m.story.Focus()
	case focusCriteria:
		return m.criteria.Focus()
	}
	return nil
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	m.state.UserStory = m.story.Value()
	m.state.AcceptanceCriteria = m.criteria.Value()
	req, err := m.state.BeginGenerate()
	if err != nil {
		return m, nil
	}
	m.undo = nil
	cmd := m.syncList()
	return m, tea.Batch(cmd, m.spin.Tick, generateCmd(m.ctx, m.backend, req))
}

func generateCmd(ctx context.Context, b view.Backend, req api.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		cs, err := b.Generate(ctx, req)
		return generatedMsg{cases: cs, err: err}
	}
}

func exportCmd(ctx context.Context, b view.Backend, req api.ExportRequest) tea.Cmd {
	return func() tea.Msg {
		return exportedMsg{err: b.Export(ctx, req)}
	}
}

func copiedResetCmd(seq int) tea.Cmd {
	return tea.Tick(view.CopiedFor, func(time.Time) tea.Msg { return copiedResetMsg{seq: seq} })
}

// selected returns the current state of the case under the cursor.
func (m Model) selected() (model.TestCase, bool) {
	it, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return model.TestCase{}, false
	}
	return m.state.Get(it.tc.ID)
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.list.FilterState() == list.FilterApplied {
			break
		}
		return m, m.setFocus(focusStory)

	case key.Matches(msg, m.keys.Add):
		m.undo = nil
		m.state.Add()
		cmd := m.syncList()
		m.list.Select(len(m.list.Items()) - 1)
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		tc, ok := m.selected()
		if !ok {
			return m, nil
		}
		idx := indexOf(m.state.Cases(), tc.ID)
		if m.state.Delete(tc.ID) {
			m.undo = &deletedCase{index: idx, tc: tc}
		}
		return m, m.syncList()

	case key.Matches(msg, m.keys.Undo):
		if m.undo == nil {
			return m, nil
		}
		m.state.Restore(m.undo.index, m.undo.tc)
		m.undo = nil
		return m, m.syncList()

	case key.Matches(msg, m.keys.Toggle):
		if tc, ok := m.selected(); ok {
			m.state.ToggleType(tc.ID)
			return m, m.syncList()
		}
		return m, nil

	case key.Matches(msg, m.keys.Title):
		tc, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode, m.editID, m.editErr = modeEditTitle, tc.ID, ""
		m.line.SetValue(tc.Title)
		m.line.CursorEnd()
		return m, m.line.Focus()

	case key.Matches(msg, m.keys.Steps), key.Matches(msg, m.keys.Expected):
		tc, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editID, m.editErr = tc.ID, ""
		if key.Matches(msg, m.keys.Steps) {
			m.mode = modeEditSteps
			m.editor.Placeholder = "One step per line"
			m.editor.SetValue(strings.Join(tc.Steps, "\n"))
		} else {
			m.mode = modeEditExpected
			m.editor.Placeholder = "Expected result..."
			m.editor.SetValue(tc.ExpectedResult)
		}
		return m, m.editor.Focus()

	case key.Matches(msg, m.keys.Copy):
		seq, err := m.state.Copy()
		if err != nil || !m.state.Copied() {
			return m, nil
		}
		return m, copiedResetCmd(seq)

	case key.Matches(msg, m.keys.Export):
		if m.state.Len() == 0 || m.state.Exporting() {
			return m, nil
		}
		m.mode = modeExport
		m.exportField = 0
		m.project.SetValue(m.state.ProjectKey)
		m.parent.SetValue(m.state.ParentKey)
		m.parent.Blur()
		return m, m.project.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateLineEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		title := strings.TrimSpace(m.line.Value())
		if title == "" {
			m.editErr = "Title cannot be empty"
			return m, nil
		}
		m.state.SetTitle(m.editID, title)
		return m, m.closeEditor()
	case key.Matches(msg, m.keys.Back):
		return m, m.closeEditor()
	}
	var cmd tea.Cmd
	m.line, cmd = m.line.Update(msg)
	return m, cmd
}

func (m Model) updateAreaEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if m.mode == modeEditSteps {
			m.state.SetStepsText(m.editID, m.editor.Value())
		} else {
			m.state.SetExpectedResult(m.editID, m.editor.Value())
		}
		return m, m.closeEditor()
	case key.Matches(msg, m.keys.Back):
		return m, m.closeEditor()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) closeEditor() tea.Cmd {
	m.mode = modeBrowse
	m.editID, m.editErr = "", ""
	m.line.Blur()
	m.line.SetValue("")
	m.editor.Blur()
	m.editor.SetValue("")
	return m.syncList()
}

func (m Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		m.exportField = 1 - m.exportField
		if m.exportField == 0 {
			m.parent.Blur()
			return m, m.project.Focus()
		}
		m.project.Blur()
		return m, m.parent.Focus()

	case key.Matches(msg, m.keys.Back):
		m.keepExportKeys()
		m.mode = modeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.keepExportKeys()
		m.mode = modeBrowse
		req, err := m.state.BeginExport()
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(m.spin.Tick, exportCmd(m.ctx, m.backend, req))
	}

	var cmd tea.Cmd
	if m.exportField == 0 {
		m.project, cmd = m.project.Update(msg)
	} else {
		m.parent, cmd = m.parent.Update(msg)
	}
	return m, cmd
}

func (m *Model) keepExportKeys() {
	m.state.ProjectKey = strings.TrimSpace(m.project.Value())
	m.state.ParentKey = strings.TrimSpace(m.parent.Value())
	m.project.Blur()
	m.parent.Blur()
}

// syncList rebuilds the list items from the view state, keeping the cursor in range.
func (m *Model) syncList() tea.Cmd {
	cs := m.state.Cases()
	items := make([]list.Item, 0, len(cs))
	for _, tc := range cs {
		items = append(items, cardItem{tc: tc})
	}
	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	switch {
	case len(items) == 0:
		m.list.Select(0)
	case idx >= len(items):
		m.list.Select(len(items) - 1)
	}
	p, n := m.state.Stats()
	m.list.Title = fmt.Sprintf("Generated %d Test Cases  + %d  − %d", m.state.Len(), p, n)
	return cmd
}

func indexOf(cs []model.TestCase, id string) int {
	for i, tc := range cs {
		if tc.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) resize(w, h int) {
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}
	m.width, m.height = w, h

	inner := formWidth - 4
	m.story.SetWidth(inner)
	m.story.SetHeight(8)
	m.criteria.SetWidth(inner)
	m.criteria.SetHeight(5)

	right := w - formWidth - 6
	m.editor.SetWidth(right - 4)
	m.editor.SetHeight(5)
	m.line.Width = right - 8
	m.help.Width = w - 2

	listHeight := h - 6
	if m.mode != modeBrowse {
		listHeight -= 9
	}
	if listHeight < 4 {
		listHeight = 4
	}
	m.list.SetSize(right, listHeight)
}

func (m Model) View() string {
	t := ui.Current()
	m.resize(m.width, m.height)

	left := m.formView()
	right := m.resultsView()

	leftBox := lipgloss.NewStyle().Width(formWidth).Render(left)
	rightBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.BorderColor).
		PaddingLeft(2).
		Render(right)

	body := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	return ui.Panel(body + "\n" + m.help.ShortHelpView(m.helpKeys()))
}

func (m Model) helpKeys() []key.Binding {
	switch m.mode {
	case modeEditTitle:
		return m.keys.lineEditHelp()
	case modeEditSteps, modeEditExpected:
		return m.keys.areaEditHelp()
	case modeExport:
		return m.keys.exportHelp()
	}
	if m.focus == focusResults {
		return m.keys.resultsHelp()
	}
	return m.keys.formHelp()
}

func (m Model) formView() string {
	t := ui.Current()
	label := func(s string, on bool) string {
		if on {
			return t.Accent.Render(s)
		}
		return t.Muted.Render(s)
	}

	logo := t.Positive.Render("AI")
	lines := []string{
		logo + " " + t.Title.Render("Test Case Generator"),
		"",
		label("USER STORY", m.focus == focusStory),
		m.story.View(),
		"",
		label("ACCEPTANCE CRITERIA (OPTIONAL)", m.focus == focusCriteria),
		m.criteria.View(),
		"",
	}
	if m.state.Generating() {
		lines = append(lines, m.spin.View()+" Generating...")
	} else {
		lines = append(lines, t.Selected.Render(" Generate Test Cases ")+t.Muted.Render("  ctrl+g"))
	}
	if e := m.state.Error(); e != "" {
		lines = append(lines, "", t.Error.Render(e))
	}
	if s := m.state.Success(); s != "" {
		lines = append(lines, "", t.Success.Render(s))
	}
	return strings.Join(lines, "\n")
}

func (m Model) resultsView() string {
	t := ui.Current()
	if m.state.Len() == 0 && m.mode == modeBrowse {
		if m.state.Generating() {
			return "\n" + m.spin.View() + " Generating test cases..."
		}
		return "\n\n" + t.Title.Render("✨ Ready to Generate") + "\n\n" +
			t.Muted.Render("Enter a user story on the left to generate\ncomprehensive test cases powered by AI.")
	}

	copyLabel := t.Muted.Render("[Copy Excel]")
	if m.state.Copied() {
		copyLabel = t.Success.Render("[Copied!]")
	}
	saveLabel := t.Accent.Render("[Save to Jira]")
	if m.state.Exporting() {
		saveLabel = m.spin.View() + " Saving..."
	}
	parent := m.state.ParentKey
	if parent == "" {
		parent = "-"
	}
	toolbar := fmt.Sprintf("%s  │  project %s  parent %s  %s",
		copyLabel,
		t.Title.Render(m.state.ProjectKey),
		t.Title.Render(parent),
		saveLabel)

	p, n := m.state.Stats()
	ratio := t.Muted.Render(ui.Ratio(p, p+n, 24))

	content := toolbar + "\n" + ratio + "\n" + m.list.View()
	if m.mode != modeBrowse {
		content += "\n" + m.editorView()
	}
	return content
}

func (m Model) editorView() string {
	t := ui.Current()
	var title, field string
	switch m.mode {
	case modeEditTitle:
		title, field = "Edit title of "+m.editID, m.line.View()
	case modeEditSteps:
		title, field = "Edit steps of "+m.editID+" (one per line)", m.editor.View()
	case modeEditExpected:
		title, field = "Edit expected result of "+m.editID, m.editor.View()
	case modeExport:
		title, field = "Save to Jira", m.project.View()+"\n"+m.parent.View()
	}
	if m.editErr != "" {
		title += ": " + t.Error.Render(m.editErr)
	}
	bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
	return bar.Render(title + "\n" + field)
}
