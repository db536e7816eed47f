package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Generate  key.Binding
	Next      key.Binding
	Prev      key.Binding
	Add       key.Binding
	Title     key.Binding
	Steps     key.Binding
	Expected  key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Undo      key.Binding
	Copy      key.Binding
	Export    key.Binding
	Save      key.Binding
	Submit    key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Generate:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Title:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		Steps:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "edit steps")),
		Expected:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "edit result")),
		Toggle:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy excel")),
		Export:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "save to jira")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Next, k.ForceQuit}
}

func (k keyMap) resultsHelp() []key.Binding {
	return []key.Binding{k.Add, k.Title, k.Steps, k.Expected, k.Toggle, k.Delete, k.Undo, k.Copy, k.Export, k.Next, k.Quit}
}

func (k keyMap) lineEditHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back}
}

func (k keyMap) areaEditHelp() []key.Binding {
	return []key.Binding{k.Save, k.Back}
}

func (k keyMap) exportHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Back}
}
