package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the composer's keybindings.
type KeyMap struct {
	// Menu navigation; only active while the mode menu is open.
	MenuUp   key.Binding
	MenuDown key.Binding

	// Scrolling the conversation
	PageUp   key.Binding
	PageDown key.Binding

	// Input actions
	Submit     key.Binding // Enter: submit, or commit the highlighted mode
	Newline    key.Binding // Alt+Enter
	RecallLast key.Binding // Up arrow on empty input
	OpenMenu   key.Binding
	ExitMode   key.Binding
	PickFile   key.Binding // file mode only
	ClearFile  key.Binding

	// Application control
	Quit       key.Binding
	ToggleHelp key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		MenuUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous mode")),
		MenuDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next mode")),

		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),

		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Newline:    key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "newline")),
		RecallLast: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑ (empty)", "recall last")),
		OpenMenu:   key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("/ or ctrl+k", "modes")),
		ExitMode:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave mode")),
		PickFile:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "attach pdf")),
		ClearFile:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "drop file")),

		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		ToggleHelp: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "toggle help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.OpenMenu, k.ExitMode, k.Quit, k.ToggleHelp}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.RecallLast},
		{k.OpenMenu, k.MenuUp, k.MenuDown, k.ExitMode},
		{k.PickFile, k.ClearFile},
		{k.PageUp, k.PageDown, k.Quit, k.ToggleHelp},
	}
}
