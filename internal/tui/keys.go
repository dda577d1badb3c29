package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the selection screen.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	Flat      key.Binding
	Confirm   key.Binding
	Quit      key.Binding
	Help      key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		Expand:    key.NewBinding(key.WithKeys("l", "right", "enter"), key.WithHelp("l/enter", "expand")),
		Collapse:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "collapse")),
		Flat:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flat/semantic")),
		Confirm:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Expand, k.Confirm, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse},
		{k.Toggle, k.ToggleAll, k.Flat},
		{k.Confirm, k.Quit, k.Help},
	}
}
