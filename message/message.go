// Package message holds the conversation records the composer appends to.
package message

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Msg represents a message in the conversation.
type Msg struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"` // user or bot
	Content string    `json:"content"`
	Pending bool      `json:"pending,omitempty"`
	Time    time.Time `json:"time"`
}

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// New returns a settled message with a fresh ID.
func New(role Role, content string) Msg {
	return Msg{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Time:    time.Now(),
	}
}

// User returns a settled user message.
func User(content string) Msg { return New(RoleUser, content) }

// Bot returns a settled bot message.
func Bot(content string) Msg { return New(RoleBot, content) }

// Log is an append-only conversation log, safe for concurrent use.
// Entries are never rewritten except for the Pending true→false transition.
type Log struct {
	mu   sync.Mutex
	msgs []Msg

	// onChange, if set, is called after every append or settle, outside the lock.
	onChange func(Msg)
}

// Append adds m to the end of the log. A zero ID or Time is filled in.
func (l *Log) Append(m Msg) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Time.IsZero() {
		m.Time = time.Now()
	}
	l.mu.Lock()
	l.msgs = append(l.msgs, m)
	hook := l.onChange
	l.mu.Unlock()
	if hook != nil {
		hook(m)
	}
}

// SetOnChange replaces the change hook. A nil fn removes it.
func (l *Log) SetOnChange(fn func(Msg)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Settle clears the Pending flag of the message with the given id.
// It reports whether a pending message was found.
func (l *Log) Settle(id string) bool {
	l.mu.Lock()
	var settled *Msg
	for i := range l.msgs {
		if l.msgs[i].ID == id && l.msgs[i].Pending {
			l.msgs[i].Pending = false
			m := l.msgs[i]
			settled = &m
			break
		}
	}
	hook := l.onChange
	l.mu.Unlock()
	if settled != nil && hook != nil {
		hook(*settled)
	}
	return settled != nil
}

// Messages returns a snapshot of the log.
func (l *Log) Messages() []Msg {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Msg, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// Latest holds the most recent bot reply published by the composer.
type Latest struct {
	mu   sync.Mutex
	text string
}

// SetLatestBotMessage records text as the latest bot message.
func (l *Latest) SetLatestBotMessage(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

// Get returns the latest bot message.
func (l *Latest) Get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}
