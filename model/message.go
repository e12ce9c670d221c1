package model

import "time"

// Origin classifies who authored a message and drives its visual treatment
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Fixed texts shown by the chat view
const (
	PlaceholderID    = "loading-message"
	PlaceholderText  = "Thinking..."
	PlaceholderLabel = "Just now"
	FallbackText     = "Sorry, I encountered an error. Please try again later."
)

// TimeLayout formats SentAt as hours:minutes
const TimeLayout = "15:04"

// Message represents a rendered chat message. It is never mutated once rendered.
type Message struct {
	ID     string
	Text   string
	Origin Origin
	SentAt time.Time
}

// Clock returns the display label for the message timestamp
func (m Message) Clock() string {
	return m.SentAt.Format(TimeLayout)
}

func (m Message) IsUser() bool {
	return m.Origin == OriginUser
}
