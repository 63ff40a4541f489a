package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the Compass Check.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Next key.Binding // Finish the current step

	// State changes on the selected task
	Priority key.Binding
	Open     key.Binding
	Pending  key.Binding
	Close    key.Binding
	Kill     key.Binding

	// Classification toggles
	Urgent    key.Binding
	Important key.Binding
	Energy    key.Binding
	Effort    key.Binding

	// Task management
	New key.Binding

	// General
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "next step"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Pending: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "waiting"),
		),
		Close: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "close"),
		),
		Kill: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "graveyard"),
		),
		Urgent: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "urgent"),
		),
		Important: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "important"),
		),
		Energy: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "energy"),
		),
		Effort: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "big/small"),
		),
		New: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Priority, k.Close, k.New, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next},
		{k.Priority, k.Open, k.Pending, k.Close, k.Kill},
		{k.Urgent, k.Important, k.Energy, k.Effort},
		{k.New, k.Help, k.Quit},
	}
}

// togglePair is an exclusive pair of tags cycled by one key:
// none -> first -> second -> none.
type togglePair struct {
	first  string
	second string
}
