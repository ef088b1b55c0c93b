package composer

// Key is a keystroke the menu may react to.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyBackspace
)

// Trigger is the buffer content that opens the menu.
const Trigger = "/"

// MenuState is a snapshot of the mode menu.
type MenuState struct {
	Open        bool
	Highlighted int
}

// Menu is the mode-picker state machine. Its states are Closed and
// Open(highlighted); count is the number of registry entries.
type Menu struct {
	open        bool
	highlighted int
	count       int
}

// NewMenu returns a closed menu over count entries.
func NewMenu(count int) Menu {
	return Menu{count: count}
}

// State returns the current state.
func (m Menu) State() MenuState {
	if !m.open {
		return MenuState{}
	}
	return MenuState{Open: true, Highlighted: m.highlighted}
}

// IsOpen reports whether the menu is open.
func (m Menu) IsOpen() bool { return m.open }

// Highlighted returns the highlighted index; meaningful only while open.
func (m Menu) Highlighted() int { return m.highlighted }

// Observe opens the menu at index 0 when buffer is exactly the trigger and
// no mode is active. It never closes the menu.
func (m *Menu) Observe(buffer string, modeActive bool) {
	if m.open || modeActive || buffer != Trigger || m.count == 0 {
		return
	}
	m.open = true
	m.highlighted = 0
}

// Request opens the menu regardless of the buffer.
func (m *Menu) Request() {
	if m.count == 0 {
		return
	}
	m.open = true
	m.highlighted = 0
}

// Close closes the menu.
func (m *Menu) Close() {
	m.open = false
	m.highlighted = 0
}

// Key applies a keystroke. It returns whether the key was consumed and, for
// Enter, the committed index (or -1).
func (m *Menu) Key(k Key) (consumed bool, commit int) {
	if !m.open {
		return false, -1
	}
	switch k {
	case KeyDown:
		m.highlighted = (m.highlighted + 1) % m.count
		return true, -1
	case KeyUp:
		m.highlighted = (m.highlighted - 1 + m.count) % m.count
		return true, -1
	case KeyEnter:
		i := m.highlighted
		m.Close()
		return true, i
	case KeyBackspace:
		m.Close()
		return false, -1
	}
	return false, -1
}

// Select commits entry i. It returns false when the menu is closed or i is
// out of range.
func (m *Menu) Select(i int) bool {
	if !m.open || i < 0 || i >= m.count {
		return false
	}
	m.Close()
	return true
}
