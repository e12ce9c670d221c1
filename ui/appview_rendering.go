package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"medikbot/model"
	"medikbot/session"
)

const (
	userName      = "You"
	assistantName = "MedikBot"
)

var (
	// Escape sequences and C0 controls other than newline and tab
	ansiRegex    = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07`)
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f]`)
	mdLinkRegex  = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

// sanitize strips terminal control sequences from untrusted message text
func sanitize(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	return controlRegex.ReplaceAllString(s, "")
}

func (a *AppView) refreshViewport() {
	entries := a.ctrl.Transcript().Entries()
	if len(entries) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Ask MedikBot a question to get started."))
		return
	}

	var content strings.Builder
	for _, e := range entries {
		content.WriteString(a.renderEntry(e))
	}
	a.viewport.SetContent(content.String())
}

func (a AppView) renderEntry(e session.Entry) string {
	if e.Placeholder {
		timestamp := DimStyle.Render("[" + model.PlaceholderLabel + "]")
		role := AssistantStyle.Render(assistantName)
		return fmt.Sprintf("%s %s\n%s %s\n\n", timestamp, role, a.loadingSpinner.View(), DimStyle.Render(e.Text))
	}

	timestamp := DimStyle.Render("[" + e.Clock() + "]")

	if e.IsUser() {
		return formatUserMessage(timestamp, UserStyle.Render(userName), a.wrap(sanitize(e.Text), 2))
	}

	body, ok := a.rendered[e.ID]
	if !ok {
		body = a.wrap(sanitize(e.Text), 0)
	}
	return fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render(assistantName), body)
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// wrap soft-wraps plain text to the viewport, leaving room for a prefix
func (a AppView) wrap(text string, prefix int) string {
	width := a.width - prefix
	if width < 10 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func (a AppView) markdownWidth() int {
	if a.width < 24 {
		return 20
	}
	return a.width - 4
}

func preprocessLinks(content string) string {
	// [text](url) → url, so terminals can detect the link
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func renderMarkdown(content string, width int) string {
	content = preprocessLinks(sanitize(content))

	// Autolink off keeps plain URLs as plain text
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(content))

	return strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")
}

func renderMarkdownAsync(messageID, content string, width int) tea.Cmd {
	return func() tea.Msg {
		return model.ReplyRenderedMsg{
			MessageID: messageID,
			Rendered:  renderMarkdown(content, width),
		}
	}
}

func (a AppView) renderTitle() string {
	title := TitleStyle.Render(assistantName)
	if a.version != "" {
		title += DimStyle.Render(" " + a.version)
	}

	endpoint := ""
	if a.client != nil {
		endpoint = a.client.BaseURL()
	}

	var health string
	switch a.health {
	case healthOK:
		health = UserStyle.Render(" ● online")
	case healthDown:
		health = ErrorStyle.Render(" ● unreachable")
	default:
		health = DimStyle.Render(" ● checking")
	}

	room := a.width - lipgloss.Width(title) - lipgloss.Width(health) - 3
	return title + DimStyle.Render(" | "+truncate(endpoint, room)) + health
}

func (a AppView) renderStatusBar() string {
	if a.flash != "" {
		style := UserStyle
		if a.flashIsErr {
			style = WarningStyle
		}
		return style.Render(truncate(a.flash, a.width))
	}

	footer := FormatFooter(
		"Enter", "Send",
		a.keys.Newline.Help().Key, "New line",
		a.keys.Yank.Help().Key, "Copy",
		a.keys.FeedbackUp.Help().Key, "Helpful",
		a.keys.Help.Help().Key, "Help",
		a.keys.Quit.Help().Key, "Quit",
	)
	return StatusStyle.Render(footer)
}
