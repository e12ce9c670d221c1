package session

import (
	"context"

	"medikbot/model"
)

// State is the lifecycle position of one outbound message
type State int

const (
	Composed State = iota
	Sent
	AwaitingReply
	Delivered
	Failed
)

func (s State) String() string {
	switch s {
	case Composed:
		return "composed"
	case Sent:
		return "sent"
	case AwaitingReply:
		return "awaiting_reply"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == Delivered || s == Failed
}

// Exchange is the pending request/reply cycle for one user message.
// Its state is only advanced by the Controller on the UI thread.
type Exchange struct {
	Message       model.Message
	PlaceholderID string

	state  State
	sender Sender
}

func (e *Exchange) State() State {
	return e.state
}

// Run performs the outbound call. It touches no display state and is safe to
// run off the UI thread; the returned Outcome is handed back to Resolve.
func (e *Exchange) Run(ctx context.Context) Outcome {
	reply, err := e.sender.Chat(ctx, e.Message.Text)
	return Outcome{Exchange: e, Reply: reply, Err: err}
}

// Outcome is the result-or-error of an exchange
type Outcome struct {
	Exchange *Exchange
	Reply    string
	Err      error
}
