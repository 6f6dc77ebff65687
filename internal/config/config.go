package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the effective configuration of the window manager.
type Config struct {
	Display                   string    `yaml:"display,omitempty"`
	TitlebarHeight            int       `yaml:"titlebar_height"`
	BorderWidth               int       `yaml:"border_width"`
	Colors                    Colors    `yaml:"colors"`
	BackgroundImage           string    `yaml:"background_image,omitempty"`
	EnableTitlebarCloseButton bool      `yaml:"enable_titlebar_close_button"`
	ShowTitle                 bool      `yaml:"show_title"`
	DragRequiresModifier      bool      `yaml:"drag_requires_modifier"`
	DragModifier              string    `yaml:"drag_modifier"`
	EnableResize              bool      `yaml:"enable_resize"`
	GracefulCloseEnabled      bool      `yaml:"graceful_close_enabled"`
	CloseKey                  string    `yaml:"close_key"`
	CycleKey                  string    `yaml:"cycle_key"`
	MinWidth                  int       `yaml:"min_width"`
	MinHeight                 int       `yaml:"min_height"`
	WatchConfig               bool      `yaml:"watch_config"`
	Log                       LogConfig `yaml:"log"`
}

// Colors are "#rrggbb" strings.
type Colors struct {
	Border      string `yaml:"border"`
	Frame       string `yaml:"frame"`
	Titlebar    string `yaml:"titlebar"`
	CloseButton string `yaml:"close_button"`
	CloseGlyph  string `yaml:"close_glyph"`
	TitleText   string `yaml:"title_text"`
	Background  string `yaml:"background"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		TitlebarHeight: 20,
		BorderWidth:    1,
		Colors: Colors{
			Border:      "#ff0000",
			Frame:       "#3b414a",
			Titlebar:    "#646375",
			CloseButton: "#ff0000",
			CloseGlyph:  "#ffffff",
			TitleText:   "#ffffff",
			Background:  "#435975",
		},
		EnableTitlebarCloseButton: true,
		ShowTitle:                 true,
		DragRequiresModifier:      false,
		DragModifier:              "Mod1",
		EnableResize:              true,
		GracefulCloseEnabled:      true,
		CloseKey:                  "Mod1-F4",
		CycleKey:                  "Mod1-Tab",
		MinWidth:                  60,
		MinHeight:                 40,
		WatchConfig:               true,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  2,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// modifierNames are the key modifier names accepted for drag_modifier.
var modifierNames = map[string]uint16{
	"shift":   1 << 0,
	"lock":    1 << 1,
	"control": 1 << 2,
	"mod1":    1 << 3,
	"mod2":    1 << 4,
	"mod3":    1 << 5,
	"mod4":    1 << 6,
	"mod5":    1 << 7,
}

// ParseModifiers parses a "-"-separated modifier list such as "Mod4-Shift"
// into an X11 modifier mask. The empty string is no modifier.
func ParseModifiers(s string) (uint16, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	var mask uint16
	for _, part := range strings.Split(s, "-") {
		bit, ok := modifierNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mask |= bit
	}
	return mask, nil
}

// ParseColor parses "#rrggbb" (or "rrggbb") into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	return uint32(v), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// LogDir returns the directory for log files, defaulting to
// $XDG_STATE_HOME/framewm.
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return ExpandHome(c.Log.Dir)
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "framewm")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		// Last resort fallback - use current directory
		home = "."
	}
	return filepath.Join(home, ".local", "state", "framewm")
}

func (c *Config) Validate() error {
	if c.TitlebarHeight < 8 || c.TitlebarHeight > 128 {
		return &ValidationError{Path: "titlebar_height", Err: fmt.Errorf("titlebar_height must be between 8 and 128")}
	}
	if c.BorderWidth < 0 || c.BorderWidth > 32 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be between 0 and 32")}
	}

	colors := []struct {
		path  string
		value string
	}{
		{"colors.border", c.Colors.Border},
		{"colors.frame", c.Colors.Frame},
		{"colors.titlebar", c.Colors.Titlebar},
		{"colors.close_button", c.Colors.CloseButton},
		{"colors.close_glyph", c.Colors.CloseGlyph},
		{"colors.title_text", c.Colors.TitleText},
		{"colors.background", c.Colors.Background},
	}
	for _, col := range colors {
		if _, err := ParseColor(col.value); err != nil {
			return &ValidationError{Path: col.path, Err: err}
		}
	}

	mods, err := ParseModifiers(c.DragModifier)
	if err != nil {
		return &ValidationError{Path: "drag_modifier", Err: err}
	}
	if c.DragRequiresModifier && mods == 0 {
		return &ValidationError{Path: "drag_modifier", Err: fmt.Errorf("drag_modifier is required when drag_requires_modifier is set")}
	}

	if c.MinWidth < 1 {
		return &ValidationError{Path: "min_width", Err: fmt.Errorf("min_width must be >= 1")}
	}
	if c.MinHeight < 1 {
		return &ValidationError{Path: "min_height", Err: fmt.Errorf("min_height must be >= 1")}
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("log.level must be one of: trace, debug, info, warning, error")}
	}
	if c.Log.MaxSizeMB < 1 {
		return &ValidationError{Path: "log.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 1")}
	}
	if c.Log.MaxBackups < 0 {
		return &ValidationError{Path: "log.max_backups", Err: fmt.Errorf("max_backups must be >= 0")}
	}
	if c.Log.MaxAgeDays < 0 {
		return &ValidationError{Path: "log.max_age_days", Err: fmt.Errorf("max_age_days must be >= 0")}
	}
	return nil
}
