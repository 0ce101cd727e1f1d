package models

import "github.com/google/uuid"

// Kind identifies who a chat bubble belongs to
type Kind string

const (
	KindUser Kind = "user"
	KindBot  Kind = "bot"
)

// Message is a single bubble in the message log
type Message struct {
	ID   string
	Text string
	Kind Kind
}

// NewMessage creates a message with a fresh ID
func NewMessage(text string, kind Kind) Message {
	return Message{
		ID:   uuid.NewString(),
		Text: text,
		Kind: kind,
	}
}

// IsUser reports whether the bubble was authored by the user
func (m Message) IsUser() bool {
	return m.Kind == KindUser
}
