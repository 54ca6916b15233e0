package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the picker's key bindings. Everything not bound here is typed
// into the query.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Close     key.Binding
	Finish    key.Binding
	SelectAll key.Binding
	ClearAll  key.Binding
	Refresh   key.Binding
	Remove    key.Binding
	Preview   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/ctrl+p", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓/ctrl+n", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/cancel")),
		Finish:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "done")),
		SelectAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		ClearAll:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Remove:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "remove last")),
		Preview:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "preview")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Select, k.Finish, k.Close, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Close},
		{k.Finish, k.SelectAll, k.ClearAll, k.Remove},
		{k.Refresh, k.Preview, k.Help, k.Quit},
	}
}

// forMode disables bindings that mean nothing in single mode
func (k KeyMap) forMode(multiple bool) KeyMap {
	k.Finish.SetEnabled(multiple)
	k.SelectAll.SetEnabled(multiple)
	k.Remove.SetEnabled(multiple)
	return k
}
