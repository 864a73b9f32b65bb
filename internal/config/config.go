package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting value is out of range.
	ErrValidationFailed = errors.New("validation failed")
)

// DefaultDebounceMs is the idle delay before analysis runs.
const DefaultDebounceMs = 120

// EditorConfig holds formatting engine settings.
type EditorConfig struct {
	// DebounceMs is the idle delay in milliseconds before a text
	// change triggers analysis.
	DebounceMs int `toml:"debounce_ms"`

	// Mode selects marker treatment ("inline" or "hidden").
	Mode string `toml:"mode"`

	// NormalizeNewlines converts CRLF to LF on load and paste.
	NormalizeNewlines bool `toml:"normalize_newlines"`
}

// ThemeConfig selects the active theme.
type ThemeConfig struct {
	// Name is a built-in theme name. Ignored when Path is set.
	Name string `toml:"name"`

	// Path points to a TOML theme file.
	Path string `toml:"path"`

	// StyleHook points to a Lua script that can adjust role styles.
	StyleHook string `toml:"style_hook"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level"`

	// Path is the log file. Empty discards log output.
	Path string `toml:"path"`
}

// Config is the full notedown configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Theme  ThemeConfig  `toml:"theme"`
	Log    LogConfig    `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			DebounceMs:        DefaultDebounceMs,
			Mode:              "inline",
			NormalizeNewlines: true,
		},
		Theme: ThemeConfig{
			Name: "Default Dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a TOML file. A missing file is not an
// error; defaults are returned. Values absent from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Editor.DebounceMs < 0 {
		return fmt.Errorf("%w: editor.debounce_ms must not be negative, got %d",
			ErrValidationFailed, c.Editor.DebounceMs)
	}
	switch c.Editor.Mode {
	case "", "inline", "inline-emphasis", "hidden", "hidden-syntax":
	default:
		return fmt.Errorf("%w: editor.mode %q is not a render mode",
			ErrValidationFailed, c.Editor.Mode)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q is not a log level",
			ErrValidationFailed, c.Log.Level)
	}
	return nil
}

// Debounce returns the configured idle delay as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Editor.DebounceMs) * time.Millisecond
}
