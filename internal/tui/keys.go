package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextChange key.Binding
	PrevChange key.Binding
	NextHunk   key.Binding
	PrevHunk   key.Binding
	NextRisky  key.Binding
	Unreviewed key.Binding
	Accept     key.Binding
	Reject     key.Binding
	Skip       key.Binding
	AcceptAll  key.Binding
	RejectAll  key.Binding
	Review     key.Binding
	Search     key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextChange: key.NewBinding(
		key.WithKeys("n", "tab"),
		key.WithHelp("n/tab", "next change"),
	),
	PrevChange: key.NewBinding(
		key.WithKeys("N", "shift+tab"),
		key.WithHelp("N/S-tab", "prev change"),
	),
	NextHunk: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next hunk"),
	),
	PrevHunk: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev hunk"),
	),
	NextRisky: key.NewBinding(
		key.WithKeys("!"),
		key.WithHelp("!", "next risky"),
	),
	Unreviewed: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "first unreviewed"),
	),
	Accept: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "accept hunk"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject hunk"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip hunk"),
	),
	AcceptAll: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "accept change"),
	),
	RejectAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "reject change"),
	),
	Review: key.NewBinding(
		key.WithKeys("r", "enter"),
		key.WithHelp("r/enter", "review mode"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search files"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save session"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
