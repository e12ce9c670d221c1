package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetActionKey(t *testing.T) {
	kb := DefaultKeybindings()

	tests := []struct {
		action string
		want   string
	}{
		{"send", "alt+s"},
		{"quit", "alt+q"},
		{"feedback_down", "alt+T"},
		{"page_down", "pgdown"},
		{"nope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, kb.GetActionKey(tt.action))
		})
	}
}

func TestSecondaryKeyWithoutShift(t *testing.T) {
	kb := &KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "ctrl", Secondary: "alt"}}
	assert.Equal(t, "alt+g", kb.SecondaryKey("g"))
	assert.Equal(t, "ctrl+g", kb.PrimaryKey("g"))
}

func TestDisplayActionKey(t *testing.T) {
	kb := DefaultKeybindings()
	assert.Equal(t, "Alt+Y", kb.DisplayActionKey("yank_last_response"))
	assert.Equal(t, "Alt+Shift+T", kb.DisplayActionKey("feedback_down"))
	assert.Equal(t, "Pgdown", kb.DisplayActionKey("page_down"))
	assert.Equal(t, "", kb.DisplayActionKey("nope"))
}

func TestValidateWarnsOnCtrl(t *testing.T) {
	kb := &KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "ctrl", Secondary: "ctrl+shift"}}
	ok, msg := kb.Validate()
	assert.True(t, ok)
	assert.Contains(t, msg, "Ctrl")
}
