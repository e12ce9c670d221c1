package model

// HealthCheckedMsg reports the result of the startup backend health probe
type HealthCheckedMsg struct {
	Err error
}

// FeedbackSentMsg reports the result of rating an assistant reply
type FeedbackSentMsg struct {
	MessageID string
	Feedback  string
	Err       error
}

// ClipboardCopiedMsg reports the result of copying the last reply
type ClipboardCopiedMsg struct {
	Err error
}

// FlashTickMsg clears the status flash it was scheduled for
type FlashTickMsg struct {
	Seq int
}

// ReplyRenderedMsg carries the markdown rendering of an assistant reply
type ReplyRenderedMsg struct {
	MessageID string
	Rendered  string
}
