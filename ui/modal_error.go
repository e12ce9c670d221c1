package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medikbot/config"
)

// ErrorModal is shown instead of the chat when startup fails
type ErrorModal struct {
	title   string
	message string

	// label/value rows under the message, e.g. the settings file in use
	details [][2]string
	hints   []string

	width  int
	height int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
	}
}

// NewConfigErrorModal explains a settings or endpoint problem and where each
// value can be overridden.
func NewConfigErrorModal(err error, settingsPath string) ErrorModal {
	if settingsPath == "" {
		settingsPath = config.GetSettingsFilePath()
	}
	m := NewErrorModal("Configuration Error", err.Error())
	m.details = [][2]string{
		{"Settings", settingsPath},
		{"Endpoint", "$" + config.EnvPrefix + "ENDPOINT or --endpoint"},
		{"Timeout", "$" + config.EnvPrefix + "REQUEST_TIMEOUT"},
	}
	m.hints = []string{
		"Environment variables override the settings file; flags override both.",
	}
	return m
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ErrorModal) View() string {
	if m.width == 0 {
		return m.title + ": " + m.message
	}

	boxWidth := 64
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	inner := boxWidth - 4

	var b strings.Builder
	b.WriteString(ErrorStyle.Bold(true).Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(sanitize(m.message)))
	b.WriteString("\n")

	if len(m.details) > 0 {
		b.WriteString("\n")
		for _, d := range m.details {
			label := DimStyle.Render(d[0] + ":")
			b.WriteString(label + " " + truncate(d[1], inner-lipgloss.Width(label)-1) + "\n")
		}
	}
	for _, h := range m.hints {
		b.WriteString("\n" + DimStyle.Width(inner).Render(h) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(FormatFooter("Enter", "Quit", "Esc", "Quit")))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dangerColor).
		Padding(0, 1).
		Width(boxWidth).
		Render(b.String())

	if m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
