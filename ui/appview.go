package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"medikbot/config"
	"medikbot/model"
	"medikbot/session"
)

const healthTimeout = 5 * time.Second

// ChatClient is the backend the chat view talks to
type ChatClient interface {
	session.Sender
	Feedback(ctx context.Context, messageID, feedback string) error
	Health(ctx context.Context) error
	BaseURL() string
}

type healthState int

const (
	healthUnknown healthState = iota
	healthOK
	healthDown
)

type AppView struct {
	cfg    *config.Config
	client ChatClient
	logger *zap.Logger
	ctrl   *session.Controller

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model
	keys           keyMap

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Transcript revision last drawn into the viewport
	seenRevision uint64

	// Markdown renderings of assistant replies, by message ID.
	// Replies that arrived from the backend are the only ones that can be rated.
	rendered  map[string]string
	delivered map[string]bool

	health healthState

	flash      string
	flashIsErr bool
	flashSeq   int

	version string
}

func NewAppView(cfg *config.Config, client ChatClient, logger *zap.Logger, version string) AppView {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask a health question and press Enter..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone sends (handled in Update)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	var kb *config.KeyBindingsConfig
	if cfg != nil {
		kb = cfg.Keybindings
	}

	ctrl := session.New(client, session.NewTranscript(), session.WithLogger(logger))

	return AppView{
		cfg:            cfg,
		client:         client,
		logger:         logger,
		ctrl:           ctrl,
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		keys:           newKeyMap(kb),
		rendered:       make(map[string]string),
		delivered:      make(map[string]bool),
		version:        version,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.checkHealth(),
	)
}

func (a AppView) checkHealth() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		return model.HealthCheckedMsg{Err: client.Health(ctx)}
	}
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading MedikBot..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		"",
		a.viewport.View(),
		a.textarea.View(),
		a.renderStatusBar(),
	)
}

// Session exposes the controller, mainly for tests and embedding hosts
func (a AppView) Session() *session.Controller {
	return a.ctrl
}
