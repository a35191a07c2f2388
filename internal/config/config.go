// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/notification"
)

// Default configuration values.
const (
	DefaultTransition = 300 * time.Millisecond
	DefaultWidth      = 350
	DefaultVolume     = 80
	DefaultStylesheet = "default"
)

// Config represents the toastui configuration.
// Loaded from ~/.config/toastui/config.toml (or config.yaml).
type Config struct {
	Notification NotificationConfig `toml:"notification" yaml:"notification"`
	Display      DisplayConfig      `toml:"display" yaml:"display"`
	Theme        ThemeConfig        `toml:"theme" yaml:"theme"`
	Audio        AudioConfig        `toml:"audio" yaml:"audio"`
	TUI          TUIConfig          `toml:"tui" yaml:"tui"`
}

// NotificationConfig holds the widget options.
type NotificationConfig struct {
	Message        string   `toml:"message" yaml:"message"`
	Timeout        Duration `toml:"timeout" yaml:"timeout"` // "0" disables auto-hide
	Theme          string   `toml:"theme" yaml:"theme"`     // primary, danger, ...; empty for none
	DismissControl bool     `toml:"dismiss_control" yaml:"dismiss_control"`
}

// DisplayConfig contains popup placement for the GTK host.
type DisplayConfig struct {
	Position   string   `toml:"position" yaml:"position"`     // "top-right", "top-left", etc.
	OffsetX    int      `toml:"offset_x" yaml:"offset_x"`     // Pixels from screen edge
	OffsetY    int      `toml:"offset_y" yaml:"offset_y"`     // Pixels from screen edge
	Width      int      `toml:"width" yaml:"width"`           // Popup width in pixels
	Monitor    int      `toml:"monitor" yaml:"monitor"`       // 0 = default, 1+ = specific monitor
	Opacity    float64  `toml:"opacity" yaml:"opacity"`       // 0.0-1.0
	Transition Duration `toml:"transition" yaml:"transition"` // Length of the show/hide animation
}

// ThemeConfig contains stylesheet settings.
type ThemeConfig struct {
	Stylesheet  string `toml:"stylesheet" yaml:"stylesheet"`     // Stylesheet name without .css extension
	ColorScheme string `toml:"color_scheme" yaml:"color_scheme"` // "system", "light", or "dark"
}

// AudioConfig contains the show sound.
type AudioConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Volume  int    `toml:"volume" yaml:"volume"` // 0-100
	Sound   string `toml:"sound" yaml:"sound"`   // Path to a wav/ogg/mp3 file
}

// TUIConfig holds terminal host settings.
type TUIConfig struct {
	ShowHelp     bool     `toml:"show_help" yaml:"show_help"`
	ExitOnHidden bool     `toml:"exit_on_hidden" yaml:"exit_on_hidden"`
	Transition   Duration `toml:"transition" yaml:"transition"`

	// ClipboardCommand receives the message on stdin; auto-detected if empty.
	ClipboardCommand string `toml:"clipboard_command" yaml:"clipboard_command"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Notification: NotificationConfig{
			Theme:          notification.DefaultTheme,
			DismissControl: true,
		},
		Display: DisplayConfig{
			Position:   string(PositionTopRight),
			OffsetX:    10,
			OffsetY:    10,
			Width:      DefaultWidth,
			Opacity:    1.0,
			Transition: Duration(DefaultTransition),
		},
		Theme: ThemeConfig{
			Stylesheet:  DefaultStylesheet,
			ColorScheme: string(ColorSchemeSystem),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
		TUI: TUIConfig{
			ShowHelp:   true,
			Transition: Duration(DefaultTransition),
		},
	}
}

// Dir returns the toastui config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastui")
}

// ConfigPath returns the path to the config file. A config.yaml is used
// when present and no config.toml exists.
func ConfigPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		for _, alt := range []string{"config.yaml", "config.yml"} {
			if _, err := os.Stat(filepath.Join(dir, alt)); err == nil {
				return filepath.Join(dir, alt)
			}
		}
	}
	return path
}

// StylesheetDir returns the directory searched for user stylesheets.
func StylesheetDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path, as YAML when the
// extension asks for it. Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = toml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}
	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}
	if c.Display.Opacity < 0 || c.Display.Opacity > 1 {
		return fmt.Errorf("opacity must be between 0.0 and 1.0, got %g", c.Display.Opacity)
	}
	if c.Display.Transition < 0 || c.TUI.Transition < 0 {
		return errors.New("transition must not be negative")
	}
	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	return nil
}

// NotificationOptions converts the [notification] section into widget options.
func (c *Config) NotificationOptions() []notification.Option {
	return []notification.Option{
		notification.WithMessage(c.Notification.Message),
		notification.WithTimeout(c.Notification.Timeout.Duration()),
		notification.WithTheme(c.Notification.Theme),
		notification.WithDismissControl(c.Notification.DismissControl),
	}
}

// SoundPath returns the configured sound with ~ expanded, or "" when audio is off.
func (c *Config) SoundPath() string {
	if !c.Audio.Enabled {
		return ""
	}
	return expandPath(c.Audio.Sound)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
