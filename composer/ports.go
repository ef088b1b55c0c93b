package composer

import (
	"github.com/tmc/slashchat/message"
	"github.com/tmc/slashchat/mode"
)

// MessageLog is the externally owned conversation log. Append must be safe
// to call from the goroutine running a submission.
type MessageLog interface {
	Append(message.Msg)
}

// Settler is implemented by message logs that track pending messages. When
// the log implements it, the user message of a chat submission is appended
// as pending and settled once the reply or failure arrives.
type Settler interface {
	Settle(id string) bool
}

var _ Settler = (*message.Log)(nil)

// BotSink receives the latest bot reply for chat-style modes.
type BotSink interface {
	SetLatestBotMessage(text string)
}

// LoadingSetter is told when a submission starts and ends.
type LoadingSetter interface {
	SetLoading(loading bool)
}

// ModeSetter is told whenever the active mode changes. A nil mode means no
// mode is selected.
type ModeSetter interface {
	SetActiveMode(m *mode.Mode)
}

// CredentialSupplier provides the bearer credential. It reports false when
// no credential is available.
type CredentialSupplier interface {
	Credential() (string, bool)
}

// MessageLogFunc adapts a function to MessageLog.
type MessageLogFunc func(message.Msg)

func (f MessageLogFunc) Append(m message.Msg) { f(m) }

// BotSinkFunc adapts a function to BotSink.
type BotSinkFunc func(string)

func (f BotSinkFunc) SetLatestBotMessage(text string) { f(text) }

// LoadingFunc adapts a function to LoadingSetter.
type LoadingFunc func(bool)

func (f LoadingFunc) SetLoading(loading bool) { f(loading) }

// ModeFunc adapts a function to ModeSetter.
type ModeFunc func(*mode.Mode)

func (f ModeFunc) SetActiveMode(m *mode.Mode) { f(m) }

// StaticCredential supplies a fixed credential. The empty string means none.
type StaticCredential string

func (s StaticCredential) Credential() (string, bool) { return string(s), s != "" }

// Ports groups the collaborators the composer talks to. Nil ports are
// replaced with no-ops, except Log which is required.
type Ports struct {
	Log        MessageLog
	Latest     BotSink
	Loading    LoadingSetter
	Mode       ModeSetter
	Credential CredentialSupplier
}

func (p Ports) withDefaults() Ports {
	if p.Latest == nil {
		p.Latest = BotSinkFunc(func(string) {})
	}
	if p.Loading == nil {
		p.Loading = LoadingFunc(func(bool) {})
	}
	if p.Mode == nil {
		p.Mode = ModeFunc(func(*mode.Mode) {})
	}
	if p.Credential == nil {
		p.Credential = StaticCredential("")
	}
	return p
}
