package config

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Endpoint:      DefaultEndpoint,
		DataDirectory: "~/.local/share/medikbot",
		Keybindings:   *DefaultKeybindings(),
	}
}

func GenerateSettingsTemplate() string {
	return `# MedikBot Configuration
# Location: ~/.config/medikbot/settings.toml
# This file uses TOML format: https://toml.io

# Base URL of the chat backend (the client posts to <endpoint>/api/chat)
endpoint = "http://localhost:5000"

# Directory for the debug log (MEDIKBOT_DEBUG=1)
data_directory = "~/.local/share/medikbot"

# Upper bound for one request, e.g. "30s". "0s" waits until the backend answers.
request_timeout = "0s"

[keybindings.modifiers]
primary = "alt"          # Options: alt, ctrl, meta, super
secondary = "alt+shift"

# Per-action overrides, e.g.
# [keybindings.actions]
# quit = "ctrl+q"
# yank_last_response = "ctrl+y"
`
}
