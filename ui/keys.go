package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"medikbot/config"
)

type keyMap struct {
	Send         key.Binding
	Newline      key.Binding
	Quit         key.Binding
	Help         key.Binding
	ClearInput   key.Binding
	Yank         key.Binding
	FeedbackUp   key.Binding
	FeedbackDown key.Binding
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	PageDown     key.Binding
	PageUp       key.Binding
	Top          key.Binding
	Bottom       key.Binding
}

func binding(kb *config.KeyBindingsConfig, action, desc string, extra ...string) key.Binding {
	keys := append([]string{kb.GetActionKey(action)}, extra...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(kb.DisplayActionKey(action), desc),
	)
}

func newKeyMap(kb *config.KeyBindingsConfig) keyMap {
	if kb == nil {
		kb = config.DefaultKeybindings()
	}
	return keyMap{
		Send:         binding(kb, "send", "Send", "enter"),
		Newline:      key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("Alt+Enter", "New line")),
		Quit:         binding(kb, "quit", "Quit", "ctrl+c"),
		Help:         binding(kb, "help", "Help"),
		ClearInput:   binding(kb, "clear_input", "Clear input"),
		Yank:         binding(kb, "yank_last_response", "Copy reply"),
		FeedbackUp:   binding(kb, "feedback_up", "Helpful"),
		FeedbackDown: binding(kb, "feedback_down", "Not helpful"),
		ScrollDown:   binding(kb, "scroll_down", "Scroll down"),
		ScrollUp:     binding(kb, "scroll_up", "Scroll up"),
		PageDown:     binding(kb, "page_down", "Page down"),
		PageUp:       binding(kb, "page_up", "Page up"),
		Top:          binding(kb, "scroll_to_top", "Jump to top"),
		Bottom:       binding(kb, "scroll_to_bottom", "Jump to bottom"),
	}
}
