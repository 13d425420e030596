// Package config loads installer settings from the user's config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Settings holds the recognized configuration options.
type Settings struct {
	TimeoutSeconds       int    `yaml:"timeout_seconds"`
	InstallDir           string `yaml:"install_dir"`
	AutoStartQueue       bool   `yaml:"auto_start_queue"`
	VerboseLogging       bool   `yaml:"verbose_logging"`
	NotificationsEnabled bool   `yaml:"notifications_enabled"`
	WatchDir             string `yaml:"watch_dir"`
	RunInstallScripts    bool   `yaml:"run_install_scripts"`
}

// Defaults returns the settings used when no config file exists.
func Defaults() *Settings {
	return &Settings{
		TimeoutSeconds:       300,
		InstallDir:           "~/Applications",
		NotificationsEnabled: true,
	}
}

// Dir returns the config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/lui if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "lui"), nil
}

// Load reads settings from path. A missing file yields the defaults without
// an error; a malformed file is an error (silently ignoring a typo'd config
// would be worse than failing).
func Load(path string) (*Settings, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Defaults().TimeoutSeconds
	}
	return cfg, nil
}

// LoadDefault reads settings from {Dir()}/config.yaml.
func LoadDefault() (*Settings, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save writes settings to path, creating parent directories as needed.
func Save(cfg *Settings, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Timeout returns the configured install timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ResolvedInstallDir expands ~ in the configured install directory.
func (s *Settings) ResolvedInstallDir() (string, error) {
	dir, err := homedir.Expand(s.InstallDir)
	if err != nil {
		return "", fmt.Errorf("expand install_dir %q: %w", s.InstallDir, err)
	}
	return dir, nil
}

// ResolvedWatchDir expands ~ in the configured watch directory. Empty when
// watching is not configured.
func (s *Settings) ResolvedWatchDir() (string, error) {
	if s.WatchDir == "" {
		return "", nil
	}
	dir, err := homedir.Expand(s.WatchDir)
	if err != nil {
		return "", fmt.Errorf("expand watch_dir %q: %w", s.WatchDir, err)
	}
	return dir, nil
}
