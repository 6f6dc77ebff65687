package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawColors struct {
	Border      *string `yaml:"border"`
	Frame       *string `yaml:"frame"`
	Titlebar    *string `yaml:"titlebar"`
	CloseButton *string `yaml:"close_button"`
	CloseGlyph  *string `yaml:"close_glyph"`
	TitleText   *string `yaml:"title_text"`
	Background  *string `yaml:"background"`
}

type RawLogConfig struct {
	Level      *string `yaml:"level"`
	Dir        *string `yaml:"dir"`
	MaxSizeMB  *int    `yaml:"max_size_mb"`
	MaxBackups *int    `yaml:"max_backups"`
	MaxAgeDays *int    `yaml:"max_age_days"`
	Compress   *bool   `yaml:"compress"`
}

// RawConfig is one file as written. Nil fields were not set.
type RawConfig struct {
	Include                   IncludeList   `yaml:"include"`
	Display                   *string       `yaml:"display"`
	TitlebarHeight            *int          `yaml:"titlebar_height"`
	BorderWidth               *int          `yaml:"border_width"`
	Colors                    *RawColors    `yaml:"colors"`
	BackgroundImage           *string       `yaml:"background_image"`
	EnableTitlebarCloseButton *bool         `yaml:"enable_titlebar_close_button"`
	ShowTitle                 *bool         `yaml:"show_title"`
	DragRequiresModifier      *bool         `yaml:"drag_requires_modifier"`
	DragModifier              *string       `yaml:"drag_modifier"`
	EnableResize              *bool         `yaml:"enable_resize"`
	GracefulCloseEnabled      *bool         `yaml:"graceful_close_enabled"`
	CloseKey                  *string       `yaml:"close_key"`
	CycleKey                  *string       `yaml:"cycle_key"`
	MinWidth                  *int          `yaml:"min_width"`
	MinHeight                 *int          `yaml:"min_height"`
	WatchConfig               *bool         `yaml:"watch_config"`
	Log                       *RawLogConfig `yaml:"log"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	setString(&out.Display, overlay.Display)
	setInt(&out.TitlebarHeight, overlay.TitlebarHeight)
	setInt(&out.BorderWidth, overlay.BorderWidth)
	if overlay.Colors != nil {
		if out.Colors == nil {
			out.Colors = &RawColors{}
		}
		merged := mergeRawColors(*out.Colors, *overlay.Colors)
		out.Colors = &merged
	}
	setString(&out.BackgroundImage, overlay.BackgroundImage)
	setBool(&out.EnableTitlebarCloseButton, overlay.EnableTitlebarCloseButton)
	setBool(&out.ShowTitle, overlay.ShowTitle)
	setBool(&out.DragRequiresModifier, overlay.DragRequiresModifier)
	setString(&out.DragModifier, overlay.DragModifier)
	setBool(&out.EnableResize, overlay.EnableResize)
	setBool(&out.GracefulCloseEnabled, overlay.GracefulCloseEnabled)
	setString(&out.CloseKey, overlay.CloseKey)
	setString(&out.CycleKey, overlay.CycleKey)
	setInt(&out.MinWidth, overlay.MinWidth)
	setInt(&out.MinHeight, overlay.MinHeight)
	setBool(&out.WatchConfig, overlay.WatchConfig)

	if overlay.Log != nil {
		if out.Log == nil {
			out.Log = &RawLogConfig{}
		}
		merged := mergeRawLog(*out.Log, *overlay.Log)
		out.Log = &merged
	}

	return out
}

func mergeRawColors(base RawColors, overlay RawColors) RawColors {
	out := base
	setString(&out.Border, overlay.Border)
	setString(&out.Frame, overlay.Frame)
	setString(&out.Titlebar, overlay.Titlebar)
	setString(&out.CloseButton, overlay.CloseButton)
	setString(&out.CloseGlyph, overlay.CloseGlyph)
	setString(&out.TitleText, overlay.TitleText)
	setString(&out.Background, overlay.Background)
	return out
}

func mergeRawLog(base RawLogConfig, overlay RawLogConfig) RawLogConfig {
	out := base
	setString(&out.Level, overlay.Level)
	setString(&out.Dir, overlay.Dir)
	setInt(&out.MaxSizeMB, overlay.MaxSizeMB)
	setInt(&out.MaxBackups, overlay.MaxBackups)
	setInt(&out.MaxAgeDays, overlay.MaxAgeDays)
	setBool(&out.Compress, overlay.Compress)
	return out
}

func setString(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}

func setInt(dst **int, v *int) {
	if v != nil {
		*dst = v
	}
}

func setBool(dst **bool, v *bool) {
	if v != nil {
		*dst = v
	}
}
