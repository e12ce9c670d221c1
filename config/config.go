package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultEndpoint = "http://localhost:5000"
	EnvPrefix       = "MEDIKBOT_"
)

// FileConfig mirrors settings.toml
type FileConfig struct {
	Endpoint       string            `toml:"endpoint"`
	DataDirectory  string            `toml:"data_directory"`
	RequestTimeout string            `toml:"request_timeout,omitempty"`
	Keybindings    KeyBindingsConfig `toml:"keybindings"`
}

// envOverrides are read with the MEDIKBOT_ prefix. Empty means unset.
type envOverrides struct {
	Endpoint       string `env:"ENDPOINT"`
	DataDirectory  string `env:"DATA_DIR"`
	RequestTimeout string `env:"REQUEST_TIMEOUT"`
	Debug          string `env:"DEBUG"`
}

type Config struct {
	Endpoint       string
	DataDirectory  string
	RequestTimeout time.Duration // zero waits for the transport indefinitely
	Debug          bool
	Keybindings    *KeyBindingsConfig

	// SettingsPath is the file the config was read from
	SettingsPath string
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Load reads settings.toml (creating it on first run) and applies environment
// overrides. An empty path uses the platform settings location.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, environ())
}

// LoadWithEnv is Load with an explicit environment, keyed without prefix
// stripping (e.g. "MEDIKBOT_ENDPOINT").
func LoadWithEnv(path string, environment map[string]string) (*Config, error) {
	if path == "" {
		path = GetSettingsFilePath()
	}

	fileCfg, err := LoadFileConfig(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Endpoint:      fileCfg.Endpoint,
		DataDirectory: fileCfg.DataDirectory,
		Keybindings:   &fileCfg.Keybindings,
		SettingsPath:  path,
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = GetDefaultDataDir()
	}
	if fileCfg.RequestTimeout != "" {
		cfg.RequestTimeout, err = parseTimeout(fileCfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request_timeout in %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(environment); err != nil {
		return nil, err
	}
	cfg.Keybindings.applyDefaults()

	if ok, msg := cfg.Keybindings.Validate(); !ok {
		return nil, fmt.Errorf("invalid keybindings: %s", msg)
	}

	if err := EnsureDataDirPermissions(cfg.DataDir()); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides(environment map[string]string) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
	}); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.DataDirectory != "" {
		c.DataDirectory = o.DataDirectory
	}
	if o.RequestTimeout != "" {
		d, err := parseTimeout(o.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid %sREQUEST_TIMEOUT: %w", EnvPrefix, err)
		}
		c.RequestTimeout = d
	}
	c.Debug = isTruthy(o.Debug)
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative: %s", s)
	}
	return d, nil
}

func isTruthy(s string) bool {
	return s == "true" || s == "1"
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
