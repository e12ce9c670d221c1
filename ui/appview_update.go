package ui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"medikbot/model"
	"medikbot/session"
)

const (
	flashDuration   = 3 * time.Second
	feedbackTimeout = 10 * time.Second
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, a.resize(msg.Width, msg.Height))

	case spinner.TickMsg:
		// Let the tick chain die once the placeholder is gone
		if !a.ctrl.Transcript().HasPlaceholder() {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.refreshViewport()
		cmds = append(cmds, cmd)

	case session.Outcome:
		reply, ok := a.ctrl.Resolve(msg)
		if ok && msg.Err == nil {
			a.delivered[reply.ID] = true
			cmds = append(cmds, renderMarkdownAsync(reply.ID, reply.Text, a.markdownWidth()))
		}

	case model.ReplyRenderedMsg:
		// Markdown is usually taller than the plain body it replaces
		atBottom := a.viewport.AtBottom()
		a.rendered[msg.MessageID] = msg.Rendered
		a.refreshViewport()
		if atBottom {
			a.viewport.GotoBottom()
		}

	case model.HealthCheckedMsg:
		if msg.Err != nil {
			a.health = healthDown
			a.logger.Warn("backend health check failed", zap.Error(msg.Err))
		} else {
			a.health = healthOK
		}

	case model.FeedbackSentMsg:
		if msg.Err != nil {
			a.logger.Error("feedback failed", zap.String("message_id", msg.MessageID), zap.Error(msg.Err))
			cmds = append(cmds, a.setFlash("Could not send feedback", true))
		} else {
			cmds = append(cmds, a.setFlash("Thanks for the feedback", false))
		}

	case model.ClipboardCopiedMsg:
		if msg.Err != nil {
			a.logger.Error("clipboard copy failed", zap.Error(msg.Err))
			cmds = append(cmds, a.setFlash("Clipboard unavailable", true))
		} else {
			cmds = append(cmds, a.setFlash("Reply copied", false))
		}

	case model.FlashTickMsg:
		if msg.Seq == a.flashSeq {
			a.flash = ""
			a.flashIsErr = false
		}

	case tea.KeyMsg:
		var cmd tea.Cmd
		a, cmd = a.handleKey(msg)
		cmds = append(cmds, cmd)
	}

	a.syncViewport()
	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if a.showHelp {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help), msg.String() == "esc":
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil
	case key.Matches(msg, a.keys.Send):
		return a.submit()
	case key.Matches(msg, a.keys.ClearInput):
		a.textarea.Reset()
		return a, nil
	case key.Matches(msg, a.keys.Yank):
		return a.copyLastReply()
	case key.Matches(msg, a.keys.FeedbackUp):
		return a.sendFeedback("up")
	case key.Matches(msg, a.keys.FeedbackDown):
		return a.sendFeedback("down")
	case key.Matches(msg, a.keys.ScrollDown):
		a.viewport.SetYOffset(a.viewport.YOffset + 1)
		return a, nil
	case key.Matches(msg, a.keys.ScrollUp):
		a.viewport.SetYOffset(a.viewport.YOffset - 1)
		return a, nil
	case key.Matches(msg, a.keys.PageDown):
		a.viewport.ViewDown()
		return a, nil
	case key.Matches(msg, a.keys.PageUp):
		a.viewport.ViewUp()
		return a, nil
	case key.Matches(msg, a.keys.Top):
		a.viewport.GotoTop()
		return a, nil
	case key.Matches(msg, a.keys.Bottom):
		a.viewport.GotoBottom()
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit hands the input to the session controller and starts the exchange.
// The call runs as a command so the event loop keeps serving keystrokes.
func (a AppView) submit() (AppView, tea.Cmd) {
	ex, err := a.ctrl.SubmitFrom(&a.textarea)
	if errors.Is(err, session.ErrExchangePending) {
		return a, a.setFlash("Still waiting for the previous reply", true)
	}
	if err != nil {
		a.logger.Error("submit failed", zap.Error(err))
		return a, a.setFlash(err.Error(), true)
	}
	if ex == nil {
		return a, nil
	}

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		runExchange(ex),
	)
}

func runExchange(ex *session.Exchange) tea.Cmd {
	return func() tea.Msg {
		return ex.Run(context.Background())
	}
}

func (a AppView) copyLastReply() (AppView, tea.Cmd) {
	reply, ok := a.ctrl.Transcript().LastReply()
	if !ok {
		return a, a.setFlash("No reply to copy yet", true)
	}
	text := reply.Text
	return a, func() tea.Msg {
		return model.ClipboardCopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

func (a AppView) sendFeedback(feedback string) (AppView, tea.Cmd) {
	reply, ok := a.ctrl.Transcript().LastReply()
	if !ok || !a.delivered[reply.ID] {
		return a, a.setFlash("No reply to rate yet", true)
	}

	client := a.client
	id := reply.ID
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
		defer cancel()
		return model.FeedbackSentMsg{
			MessageID: id,
			Feedback:  feedback,
			Err:       client.Feedback(ctx, id, feedback),
		}
	}
}

func (a *AppView) setFlash(text string, isErr bool) tea.Cmd {
	a.flashSeq++
	a.flash = text
	a.flashIsErr = isErr
	seq := a.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return model.FlashTickMsg{Seq: seq}
	})
}

// resize lays out the view: title (1 line), blank (1), textarea (3), status bar (1).
// Replies are re-rendered when the width changes.
func (a *AppView) resize(width, height int) tea.Cmd {
	widthChanged := width != a.width

	a.width = width
	a.height = height

	viewportHeight := height - 6
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	a.viewport.Width = width
	a.viewport.Height = viewportHeight
	a.textarea.SetWidth(width)

	a.ready = true
	a.refreshViewport()
	a.viewport.GotoBottom()

	if !widthChanged || len(a.rendered) == 0 {
		return nil
	}

	var cmds []tea.Cmd
	for _, e := range a.ctrl.Transcript().Entries() {
		if a.delivered[e.ID] {
			cmds = append(cmds, renderMarkdownAsync(e.ID, e.Text, a.markdownWidth()))
		}
	}
	return tea.Batch(cmds...)
}

// syncViewport scrolls to the newest entry whenever the display list changed
func (a *AppView) syncViewport() {
	rev := a.ctrl.Transcript().Revision()
	if rev == a.seenRevision {
		return
	}
	a.seenRevision = rev
	a.refreshViewport()
	a.viewport.GotoBottom()
}
