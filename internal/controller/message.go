package controller

import (
	"sync" // Guarding the single slot

	"wallet_console/internal/domain" // Importing domain models
)

// MessageChannel holds the single live user-facing message. Every operation
// clears the previous message as it begins; messages overwrite, they never
// queue. There is no auto-dismiss timer — the one deferred transition in the
// system (leaving the profile form after a successful update) is owned by
// the presentation layer.
type MessageChannel struct {
	mu  sync.Mutex
	cur domain.Message
}

// NewMessageChannel creates an empty channel
func NewMessageChannel() *MessageChannel {
	return &MessageChannel{cur: domain.Message{Kind: domain.MessageNone}}
}

// Success publishes a success message
func (m *MessageChannel) Success(text string) { m.set(text, domain.MessageSuccess) }

// Error publishes an error message
func (m *MessageChannel) Error(text string) { m.set(text, domain.MessageError) }

// Clear empties the slot
func (m *MessageChannel) Clear() { m.set("", domain.MessageNone) }

// Current returns the live message
func (m *MessageChannel) Current() domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

func (m *MessageChannel) set(text string, kind domain.MessageKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = domain.Message{Text: text, Kind: kind}
}
