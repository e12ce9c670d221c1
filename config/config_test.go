package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, extra map[string]string) map[string]string {
	t.Helper()
	env := map[string]string{"MEDIKBOT_DATA_DIR": filepath.Join(t.TempDir(), "data")}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

func TestLoadCreatesTemplateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medikbot", "settings.toml")

	cfg, err := LoadWithEnv(path, testEnv(t, nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Zero(t, cfg.RequestTimeout)
	assert.False(t, cfg.Debug)
	assert.Equal(t, path, cfg.SettingsPath)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dataInfo, err := os.Stat(cfg.DataDir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dataInfo.Mode().Perm())

	// The template must decode to the same defaults
	again, err := LoadWithEnv(path, testEnv(t, nil))
	require.NoError(t, err)
	assert.Equal(t, cfg.Endpoint, again.Endpoint)
	assert.Equal(t, "alt", again.Keybindings.Primary())
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
endpoint = "https://bot.example.com"
request_timeout = "45s"

[keybindings.modifiers]
primary = "ctrl"
secondary = "ctrl+shift"

[keybindings.actions]
quit = "ctrl+x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadWithEnv(path, testEnv(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "https://bot.example.com", cfg.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "ctrl+x", cfg.Keybindings.GetActionKey("quit"))
	assert.Equal(t, "ctrl+y", cfg.Keybindings.GetActionKey("yank_last_response"))
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`endpoint = "https://file.example.com"`), 0600))

	cfg, err := LoadWithEnv(path, testEnv(t, map[string]string{
		"MEDIKBOT_ENDPOINT":        "http://env.example.com:8080",
		"MEDIKBOT_REQUEST_TIMEOUT": "2m",
		"MEDIKBOT_DEBUG":           "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com:8080", cfg.Endpoint)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"bad toml", `endpoint = `, nil},
		{"bad timeout", `request_timeout = "soon"`, nil},
		{"negative timeout", `request_timeout = "-1s"`, nil},
		{"bad env timeout", ``, map[string]string{"MEDIKBOT_REQUEST_TIMEOUT": "x"}},
		{"unknown action", "[keybindings.actions]\nlaunch = \"alt+l\"", nil},
		{"shift modifier", "[keybindings.modifiers]\nprimary = \"shift\"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := LoadWithEnv(path, testEnv(t, tt.env))
			assert.Error(t, err)
		})
	}
}

func TestSaveFileConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	in := DefaultFileConfig()
	in.Endpoint = "http://10.0.0.2:5000"
	in.RequestTimeout = "10s"

	require.NoError(t, SaveFileConfig(in, path))

	out, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in.Endpoint, out.Endpoint)
	assert.Equal(t, in.RequestTimeout, out.RequestTimeout)
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"endpoint", "https://medikbot.example.com", false},
		{"endpoint", "ftp://medikbot.example.com", true},
		{"endpoint", "localhost:5000", true},
		{"request_timeout", "45s", false},
		{"request_timeout", "-1s", true},
		{"request_timeout", "soon", true},
		{"data_directory", "~/medikbot", false},
		{"data_directory", " ", true},
		{"model", "llama", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultFileConfig()
			err := SetValue(cfg, tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, DefaultFileConfig().Endpoint, cfg.Endpoint)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSetValueThenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, CreateDefaultSettings(path))

	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)
	require.NoError(t, SetValue(cfg, "endpoint", "http://10.0.0.9:8080"))
	require.NoError(t, SaveFileConfig(cfg, path))

	loaded, err := LoadWithEnv(path, testEnv(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.9:8080", loaded.Endpoint)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("MEDIKBOT_TEST_DIR", "/srv/bot")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/tester", ExpandPath("~"))
	assert.Equal(t, "/home/tester/.local/share/medikbot", ExpandPath("~/.local/share/medikbot"))
	assert.Equal(t, "/srv/bot/data", ExpandPath("$MEDIKBOT_TEST_DIR/data/"))
}

func TestNewDebugLogger(t *testing.T) {
	dir := t.TempDir()

	nop, closeNop, err := NewDebugLogger(dir, false)
	require.NoError(t, err)
	nop.Info("ignored")
	closeNop()
	assert.NoFileExists(t, GetDebugLogPath(dir))

	logger, closeLog, err := NewDebugLogger(dir, true)
	require.NoError(t, err)
	logger.Error("chat exchange failed")
	closeLog()

	raw, err := os.ReadFile(GetDebugLogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "chat exchange failed")
}
