package domain

// MessageKind classifies a user-facing message
type MessageKind string

// Message kinds
const (
	MessageNone    MessageKind = "none"    // No live message
	MessageSuccess MessageKind = "success" // Operation succeeded
	MessageError   MessageKind = "error"   // Operation failed
)

// Message is the single live notification shown to the user.
// There is exactly one at a time; a new one overwrites the previous.
type Message struct {
	Text string      // Message text
	Kind MessageKind // success, error or none
}
