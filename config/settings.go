package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFileConfig decodes settings.toml, writing the commented template first
// if the file does not exist yet.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()

	if !FileExists(path) {
		if err := CreateDefaultSettings(path); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return cfg, nil
}

func SaveFileConfig(cfg *FileConfig, path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return nil
}

func CreateDefaultSettings(path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if FileExists(path) {
		return nil
	}

	if err := os.WriteFile(path, []byte(GenerateSettingsTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// SettableKeys lists the settings.toml keys SetValue accepts
var SettableKeys = []string{"endpoint", "data_directory", "request_timeout"}

// SetValue validates and assigns one top-level setting
func SetValue(cfg *FileConfig, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "endpoint":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint must be an http(s) URL, got %q", value)
		}
		cfg.Endpoint = value
	case "data_directory":
		if value == "" {
			return fmt.Errorf("data_directory must not be empty")
		}
		cfg.DataDirectory = value
	case "request_timeout":
		if _, err := parseTimeout(value); err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		cfg.RequestTimeout = value
	default:
		return fmt.Errorf("unknown setting %q (expected one of %s)", key, strings.Join(SettableKeys, ", "))
	}
	return nil
}
