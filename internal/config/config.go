package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the effective chromeless configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Chrome  ChromeConfig  `yaml:"chrome"`
	Keys    KeysConfig    `yaml:"keys"`
	IPC     IPCConfig     `yaml:"ipc"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig is the initial placement and size floor of the window.
type WindowConfig struct {
	Title          string `yaml:"title"`
	X              int    `yaml:"x"`
	Y              int    `yaml:"y"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	MinWidth       int    `yaml:"min_width"`
	MinHeight      int    `yaml:"min_height"`
	StartMaximized bool   `yaml:"start_maximized"`
	// RememberGeometry restores the last session's bounds and state.
	RememberGeometry bool `yaml:"remember_geometry"`
}

// ChromeConfig controls how the frameless chrome reacts to the pointer.
type ChromeConfig struct {
	BorderMargin         int  `yaml:"border_margin"`
	TitlebarHeight       int  `yaml:"titlebar_height"`
	OnlyMoveFromTitlebar bool `yaml:"only_move_from_titlebar"`
	ResizeEnabled        bool `yaml:"resize_enabled"`
	DoubleClickMS        int  `yaml:"double_click_ms"`
	DoubleClickDistance  int  `yaml:"double_click_distance"`
}

// DoubleClickInterval returns the double-click window as a duration.
func (c ChromeConfig) DoubleClickInterval() time.Duration {
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}

// KeysConfig holds window-scoped shortcuts in xgbutil keybind syntax.
// An empty string disables the binding.
type KeysConfig struct {
	ToggleMaximize string `yaml:"toggle_maximize"`
	Minimize       string `yaml:"minimize"`
	Close          string `yaml:"close"`
}

// IPCConfig controls the control socket.
type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig selects the log level and an optional rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:            "Frameless window",
			X:                100,
			Y:                100,
			Width:            800,
			Height:           500,
			MinWidth:         600,
			MinHeight:        400,
			RememberGeometry: true,
		},
		Chrome: ChromeConfig{
			BorderMargin:        4,
			TitlebarHeight:      48,
			ResizeEnabled:       true,
			DoubleClickMS:       400,
			DoubleClickDistance: 4,
		},
		Keys: KeysConfig{
			ToggleMaximize: "Mod1-F10",
			Minimize:       "Mod1-F9",
			Close:          "Mod1-F4",
		},
		IPC: IPCConfig{Enabled: true},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	if strings.TrimSpace(c.Window.Title) == "" {
		fail("window.title", "title must not be empty")
	}
	if c.Window.MinWidth <= 0 {
		fail("window.min_width", "min_width must be > 0")
	}
	if c.Window.MinHeight <= 0 {
		fail("window.min_height", "min_height must be > 0")
	}
	if c.Window.Width < c.Window.MinWidth {
		fail("window.width", "width must be >= min_width (%d)", c.Window.MinWidth)
	}
	if c.Window.Height < c.Window.MinHeight {
		fail("window.height", "height must be >= min_height (%d)", c.Window.MinHeight)
	}

	if c.Chrome.BorderMargin < 1 {
		fail("chrome.border_margin", "border_margin must be >= 1")
	}
	if c.Chrome.TitlebarHeight <= 0 {
		fail("chrome.titlebar_height", "titlebar_height must be > 0")
	} else if c.Window.MinHeight > 0 && c.Chrome.TitlebarHeight >= c.Window.MinHeight {
		fail("chrome.titlebar_height", "titlebar_height must be < min_height (%d)", c.Window.MinHeight)
	}
	if c.Chrome.DoubleClickMS < 100 || c.Chrome.DoubleClickMS > 2000 {
		fail("chrome.double_click_ms", "double_click_ms must be between 100 and 2000")
	}
	if c.Chrome.DoubleClickDistance < 0 {
		fail("chrome.double_click_distance", "double_click_distance must be >= 0")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		fail("logging.level", "level must be one of: debug, info, warn, error")
	}
	if c.Logging.MaxSizeMB < 0 {
		fail("logging.max_size_mb", "max_size_mb must be >= 0")
	}
	if c.Logging.MaxBackups < 0 {
		fail("logging.max_backups", "max_backups must be >= 0")
	}
	if c.Logging.MaxAgeDays < 0 {
		fail("logging.max_age_days", "max_age_days must be >= 0")
	}

	return errors.Join(errs...)
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
