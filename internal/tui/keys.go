package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding of the live view.
type keyMap struct {
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	Detail  key.Binding
	Back    key.Binding
	ShowAll key.Binding
	Refresh key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Detail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	ShowAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle inactive"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

func (k keyMap) listHints() []key.Binding {
	return []key.Binding{k.Up, k.Detail, k.ShowAll, k.Refresh, k.Quit}
}

func (k keyMap) detailHints() []key.Binding {
	return []key.Binding{k.Up, k.Back, k.Quit}
}
