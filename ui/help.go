package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	blue := lipgloss.NewStyle().Foreground(accentColor)

	line := func(b key.Binding) string {
		h := b.Help()
		return fmt.Sprintf("• %-13s %s", h.Key, h.Desc)
	}

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		"• Enter         Send message",
		line(a.keys.Send),
		line(a.keys.Newline),
		line(a.keys.ClearInput),
		line(a.keys.Yank),
		line(a.keys.FeedbackUp),
		line(a.keys.FeedbackDown),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navigation"),
		line(a.keys.ScrollDown),
		line(a.keys.ScrollUp),
		line(a.keys.PageDown),
		line(a.keys.PageUp),
		line(a.keys.Top),
		line(a.keys.Bottom),
	)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		line(a.keys.Help),
		line(a.keys.Quit),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		green.Render("MedikBot - Keyboard Shortcuts"),
		"",
		chatActions,
		"",
		navigation,
		"",
		global,
		"",
		DimStyle.Render("Esc closes this help"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
