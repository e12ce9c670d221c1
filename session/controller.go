// Package session implements the chat session controller: input capture,
// the display list and the lifecycle of each outbound message.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medikbot/model"
)

// ErrExchangePending is returned by Submit while a previous message is still
// awaiting its reply.
var ErrExchangePending = errors.New("a message is already awaiting a reply")

// Sender performs the single outbound call for a message
type Sender interface {
	Chat(ctx context.Context, message string) (string, error)
}

// InputField is the text field a submission is read from.
// *textarea.Model and *textinput.Model both satisfy it.
type InputField interface {
	Value() string
	Reset()
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator replaces the uuid generator used for message IDs
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// Controller owns one chat session. Every method must be called from the
// host's UI thread; only Exchange.Run may execute elsewhere.
type Controller struct {
	sender     Sender
	transcript *Transcript
	pending    *Exchange

	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func New(sender Sender, transcript *Transcript, opts ...Option) *Controller {
	if transcript == nil {
		transcript = NewTranscript()
	}
	c := &Controller{
		sender:     sender,
		transcript: transcript,
		logger:     zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Transcript() *Transcript {
	return c.transcript
}

// Pending returns the exchange awaiting a reply, or nil
func (c *Controller) Pending() *Exchange {
	return c.pending
}

// SubmitFrom reads and trims the field. Blank input is ignored and leaves the
// field untouched, returning a nil exchange and nil error. Otherwise the field
// is cleared before Submit runs.
func (c *Controller) SubmitFrom(field InputField) (*Exchange, error) {
	text := strings.TrimSpace(field.Value())
	if text == "" {
		return nil, nil
	}
	if c.pending != nil {
		return nil, ErrExchangePending
	}
	field.Reset()
	return c.Submit(text)
}

// Submit renders the user message and the loading placeholder and returns the
// exchange to run.
func (c *Controller) Submit(text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if c.pending != nil {
		return nil, ErrExchangePending
	}

	ex := &Exchange{
		Message: model.Message{
			ID:     c.newID(),
			Text:   text,
			Origin: model.OriginUser,
			SentAt: c.now(),
		},
		PlaceholderID: model.PlaceholderID,
		state:         Composed,
		sender:        c.sender,
	}

	c.transcript.Render(ex.Message)
	ex.state = Sent

	c.transcript.ShowPlaceholder()
	ex.state = AwaitingReply
	c.pending = ex

	c.logger.Debug("message submitted",
		zap.String("message_id", ex.Message.ID),
		zap.Int("length", len(text)))

	return ex, nil
}

// Resolve reconciles a finished exchange into the display list: the placeholder
// is removed, then the reply or the fallback apology is rendered. Outcomes for
// an exchange that is not pending are dropped and reported as false.
func (c *Controller) Resolve(o Outcome) (model.Message, bool) {
	if o.Exchange == nil || o.Exchange != c.pending {
		c.logger.Warn("dropping outcome for exchange that is not pending")
		return model.Message{}, false
	}
	ex := o.Exchange
	c.pending = nil

	c.transcript.RemovePlaceholder()

	reply := model.Message{
		ID:     c.newID(),
		Origin: model.OriginAssistant,
		SentAt: c.now(),
	}
	if o.Err != nil {
		ex.state = Failed
		reply.Text = model.FallbackText
		c.logger.Error("chat exchange failed",
			zap.String("message_id", ex.Message.ID),
			zap.Error(o.Err))
	} else {
		ex.state = Delivered
		reply.Text = o.Reply
		c.logger.Debug("reply delivered",
			zap.String("message_id", ex.Message.ID),
			zap.String("reply_id", reply.ID))
	}

	c.transcript.Render(reply)
	return reply, true
}

// Converse runs a full exchange inline, for hosts without an event loop.
// The returned error is the transport failure, if any; the fallback message
// has already been rendered in that case.
func (c *Controller) Converse(ctx context.Context, text string) (model.Message, error) {
	ex, err := c.Submit(text)
	if err != nil || ex == nil {
		return model.Message{}, err
	}
	out := ex.Run(ctx)
	reply, _ := c.Resolve(out)
	return reply, out.Err
}
