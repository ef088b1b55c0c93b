// Package mode provides the catalog of conversation modes a message can be
// routed to.
package mode

// ID identifies a mode.
type ID string

// Built-in mode identifiers.
const (
	SendEmail  ID = "send-email"
	Assistance ID = "assistance"
	Commands   ID = "commands"
	File       ID = "file"
)

// DefaultPlaceholder is shown when no mode is active.
const DefaultPlaceholder = "Type / to choose a mode, or start typing..."

// Mode is a single registry entry. Modes are immutable values.
type Mode struct {
	ID          ID
	Label       string
	Icon        string
	Description string
	Placeholder string
}

// Registry is an ordered, read-only lookup table of modes.
type Registry struct {
	modes []Mode
	byID  map[ID]int
}

// NewRegistry builds a registry from modes, in order. Later entries with a
// duplicate ID are ignored.
func NewRegistry(modes ...Mode) *Registry {
	r := &Registry{byID: make(map[ID]int, len(modes))}
	for _, m := range modes {
		if _, ok := r.byID[m.ID]; ok {
			continue
		}
		r.byID[m.ID] = len(r.modes)
		r.modes = append(r.modes, m)
	}
	return r
}

var builtin = NewRegistry(
	Mode{
		ID:          SendEmail,
		Label:       "Send Email",
		Icon:        "✉",
		Description: "Draft an email from a short description",
		Placeholder: "Describe the email you want to send...",
	},
	Mode{
		ID:          Assistance,
		Label:       "Assistance",
		Icon:        "✦",
		Description: "General questions and help",
		Placeholder: "Ask anything...",
	},
	Mode{
		ID:          Commands,
		Label:       "Commands & Scripts",
		Icon:        "❯",
		Description: "Shell commands and scripts",
		Placeholder: "Describe the command or script you need...",
	},
	Mode{
		ID:          File,
		Label:       "File",
		Icon:        "▤",
		Description: "Upload a PDF and chat about it",
		Placeholder: "Attach a PDF and ask about it...",
	},
)

// Default returns the built-in registry.
func Default() *Registry { return builtin }

// Resolve returns the mode with the given id.
func (r *Registry) Resolve(id ID) (Mode, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Mode{}, false
	}
	return r.modes[i], true
}

// Len returns the number of modes.
func (r *Registry) Len() int { return len(r.modes) }

// At returns the mode at index i. It panics if i is out of range.
func (r *Registry) At(i int) Mode { return r.modes[i] }

// Modes returns a copy of the registry entries in order.
func (r *Registry) Modes() []Mode {
	out := make([]Mode, len(r.modes))
	copy(out, r.modes)
	return out
}

// Placeholder returns the placeholder for the mode with the given id, or
// DefaultPlaceholder when the id is empty or unknown.
func (r *Registry) Placeholder(id ID) string {
	if m, ok := r.Resolve(id); ok && m.Placeholder != "" {
		return m.Placeholder
	}
	return DefaultPlaceholder
}
