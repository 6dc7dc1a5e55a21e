package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down    key.Binding
	Up      key.Binding
	NextTab key.Binding
	Select  key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Settings screen
	Settings key.Binding

	// Editing
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Rename   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding

	// Active list
	Toggle   key.Binding
	Add      key.Binding
	Complete key.Binding
	Custom   key.Binding

	// Swipe
	StartSwipe key.Binding
	Accept     key.Binding
	Reject     key.Binding
	LeanLeft   key.Binding
	LeanRight  key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next section"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/space", "toggle item"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		Complete: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "complete list"),
		),
		Custom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "custom list"),
		),
		StartSwipe: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start list"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "keep"),
		),
		Reject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip"),
		),
		LeanLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "lean skip"),
		),
		LeanRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "lean keep"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Command,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.Select, k.Back, k.Quit},
		{k.Command, k.Help, k.Settings},
		{k.New, k.Custom, k.Edit, k.Rename, k.Delete, k.MoveUp, k.MoveDown},
		{k.Toggle, k.Add, k.Complete},
		{k.StartSwipe, k.Accept, k.Reject, k.LeanLeft, k.LeanRight},
	}
}
