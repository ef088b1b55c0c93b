package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmc/slashchat/ui/keymap"
)

// Model wraps the bubbles/help model. The short help is always shown; the
// toggle switches to the full listing.
type Model struct {
	inner  help.Model
	keyMap keymap.KeyMap
}

// New creates a new help model.
func New(km keymap.KeyMap) Model {
	return Model{inner: help.New(), keyMap: km}
}

// Init does nothing.
func (m Model) Init() tea.Cmd { return nil }

// Update toggles the full listing and tracks the window width.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.ToggleHelp) {
			m.inner.ShowAll = !m.inner.ShowAll
		}
	case tea.WindowSizeMsg:
		m.inner.Width = msg.Width
	}
	return m, nil
}

// ShowAll reports whether the full listing is shown.
func (m Model) ShowAll() bool { return m.inner.ShowAll }

// View renders the help.
func (m Model) View() string {
	return m.inner.View(m.keyMap)
}

// SetWidth updates the width for the help view.
func (m *Model) SetWidth(w int) {
	m.inner.Width = w
}
