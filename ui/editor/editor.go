// Package editor wraps a bubbles textarea as the composer's input box. The
// box grows with its content up to a maximum height and recalls previous
// submissions with the up arrow on empty input.
package editor

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmc/slashchat/ui/keymap"
)

// DefaultMaxHeight is the tallest the input box grows.
const DefaultMaxHeight = 8

// Model is the Bubble Tea model for the input box.
type Model struct {
	textarea  textarea.Model
	keyMap    keymap.KeyMap
	maxHeight int

	history         []string
	historyCursor   int // -1 means not navigating
	valueBeforeHist string
}

// New creates a new editor model.
func New(km keymap.KeyMap) Model {
	ta := textarea.New()
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline = km.Newline
	ta.SetHeight(1)
	return Model{
		textarea:      ta,
		keyMap:        km,
		maxHeight:     DefaultMaxHeight,
		historyCursor: -1,
	}
}

func (m Model) Value() string             { return m.textarea.Value() }
func (m Model) Height() int               { return m.textarea.Height() }
func (m Model) Focused() bool             { return m.textarea.Focused() }
func (m *Model) Focus() tea.Cmd           { return m.textarea.Focus() }
func (m *Model) Blur()                    { m.textarea.Blur() }
func (m *Model) SetPlaceholder(s string)  { m.textarea.Placeholder = s }
func (m *Model) SetMaxHeight(h int)       { m.maxHeight = max(1, h); m.resize() }
func (m *Model) SetWidth(w int)           { m.textarea.SetWidth(w); m.resize() }
func (m *Model) SetHistory(h []string)    { m.history = h; m.historyCursor = -1 }
func (m *Model) History() []string        { return m.history }
func (m *Model) SetValue(s string)        { m.textarea.SetValue(s); m.historyCursor = -1; m.resize() }
func (m *Model) Reset()                   { m.SetValue("") }

// AddHistory records a submitted input, skipping consecutive duplicates.
func (m *Model) AddHistory(line string) {
	if line == "" {
		return
	}
	if n := len(m.history); n > 0 && m.history[n-1] == line {
		return
	}
	m.history = append(m.history, line)
	m.historyCursor = -1
}

// Update handles key input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keyMap.RecallLast) && (m.historyCursor >= 0 || m.textarea.Value() == ""):
			if m.recall(-1) {
				return m, nil
			}
		case k.Type == tea.KeyDown && m.historyCursor >= 0:
			m.recall(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.resize()
	return m, cmd
}

// recall moves through history by delta and reports whether it moved.
func (m *Model) recall(delta int) bool {
	if len(m.history) == 0 {
		return false
	}
	switch {
	case m.historyCursor < 0 && delta < 0:
		m.valueBeforeHist = m.textarea.Value()
		m.historyCursor = len(m.history) - 1
	case m.historyCursor < 0:
		return false
	default:
		m.historyCursor += delta
	}
	if m.historyCursor < 0 {
		m.historyCursor = 0
		return true
	}
	if m.historyCursor >= len(m.history) {
		m.historyCursor = -1
		m.textarea.SetValue(m.valueBeforeHist)
		m.resize()
		return true
	}
	m.textarea.SetValue(m.history[m.historyCursor])
	m.resize()
	return true
}

func (m *Model) resize() {
	h := m.textarea.LineCount()
	h = max(1, min(h, m.maxHeight))
	if h != m.textarea.Height() {
		m.textarea.SetHeight(h)
	}
}

// View renders the input box.
func (m Model) View() string { return m.textarea.View() }
