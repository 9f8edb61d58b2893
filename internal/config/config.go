// Package config handles the XDG configuration directory, the optional
// config.yaml file and TASKLIST_* environment overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the optional YAML config filename.
	ConfigFile = "config.yaml"

	// StorageFile is the default key-value storage filename.
	StorageFile = "storage.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TASKLIST_"

	// DefaultExitDelay is how long a deleted row stays on screen.
	DefaultExitDelay = 250 * time.Millisecond

	maxConfigFileSize = 1024 * 1024
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `koanf:"-"`

	// StorageFile is the storage file, relative to Dir unless absolute.
	StorageFile string `koanf:"storage_file"`

	// Debug enables debug logging.
	Debug bool `koanf:"debug"`

	// Quiet suppresses informational output.
	Quiet bool `koanf:"quiet"`

	UI UIConfig `koanf:"ui"`
}

// UIConfig holds settings for the interactive list.
type UIConfig struct {
	// Filter is the filter applied when the list opens.
	Filter string `koanf:"filter"`

	// ExitDelay is the exit transition length for deleted rows.
	// Zero removes rows immediately.
	ExitDelay time.Duration `koanf:"exit_delay"`
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
// Values from config.yaml are applied first, then TASKLIST_* variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	k := koanf.New(".")

	content, err := readConfigFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", ConfigFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Dir = dir

	if cfg.StorageFile == "" {
		cfg.StorageFile = StorageFile
	}
	if !k.Exists("ui.exit_delay") {
		cfg.UI.ExitDelay = DefaultExitDelay
	}
	if cfg.UI.ExitDelay < 0 {
		return nil, fmt.Errorf("invalid ui.exit_delay: %s", cfg.UI.ExitDelay)
	}

	return cfg, nil
}

// envKey maps TASKLIST_UI_EXIT_DELAY to ui.exit_delay and
// TASKLIST_STORAGE_FILE to storage_file.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "ui_"); ok {
		return "ui." + rest
	}
	return key
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes", info.Size())
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// StoragePath returns the path to the key-value storage file.
func (c *Config) StoragePath() string {
	if filepath.IsAbs(c.StorageFile) {
		return c.StorageFile
	}
	name := c.StorageFile
	if name == "" {
		name = StorageFile
	}
	return filepath.Join(c.Dir, name)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
