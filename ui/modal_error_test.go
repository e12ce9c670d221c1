package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medikbot/config"
)

func TestConfigErrorModalShowsOverrides(t *testing.T) {
	m := NewConfigErrorModal(errors.New("invalid backend URL \"ftp://x\""), "/tmp/medikbot/settings.toml")
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := model.View()
	assert.Contains(t, view, "Configuration Error")
	assert.Contains(t, view, "invalid backend URL")
	assert.Contains(t, view, "/tmp/medikbot/settings.toml")
	assert.Contains(t, view, config.EnvPrefix+"ENDPOINT")
	assert.Contains(t, view, "--endpoint")
}

func TestConfigErrorModalDefaultsSettingsPath(t *testing.T) {
	m := NewConfigErrorModal(errors.New("bad"), "")
	require.Len(t, m.details, 3)
	assert.Equal(t, config.GetSettingsFilePath(), m.details[0][1])
}

func TestErrorModalQuits(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEnter}, {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := NewErrorModal("t", "m").Update(k)
		require.NotNil(t, cmd, k.String())
		assert.Equal(t, tea.Quit(), cmd(), k.String())
	}
}

func TestErrorModalBeforeSize(t *testing.T) {
	assert.Equal(t, "Oops: broken", NewErrorModal("Oops", "broken").View())
}
