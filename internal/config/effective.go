package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	applyString(&cfg.Display, raw.Display)
	applyInt(&cfg.TitlebarHeight, raw.TitlebarHeight)
	applyInt(&cfg.BorderWidth, raw.BorderWidth)
	if raw.Colors != nil {
		applyString(&cfg.Colors.Border, raw.Colors.Border)
		applyString(&cfg.Colors.Frame, raw.Colors.Frame)
		applyString(&cfg.Colors.Titlebar, raw.Colors.Titlebar)
		applyString(&cfg.Colors.CloseButton, raw.Colors.CloseButton)
		applyString(&cfg.Colors.CloseGlyph, raw.Colors.CloseGlyph)
		applyString(&cfg.Colors.TitleText, raw.Colors.TitleText)
		applyString(&cfg.Colors.Background, raw.Colors.Background)
	}
	applyString(&cfg.BackgroundImage, raw.BackgroundImage)
	applyBool(&cfg.EnableTitlebarCloseButton, raw.EnableTitlebarCloseButton)
	applyBool(&cfg.ShowTitle, raw.ShowTitle)
	applyBool(&cfg.DragRequiresModifier, raw.DragRequiresModifier)
	applyString(&cfg.DragModifier, raw.DragModifier)
	applyBool(&cfg.EnableResize, raw.EnableResize)
	applyBool(&cfg.GracefulCloseEnabled, raw.GracefulCloseEnabled)
	applyString(&cfg.CloseKey, raw.CloseKey)
	applyString(&cfg.CycleKey, raw.CycleKey)
	applyInt(&cfg.MinWidth, raw.MinWidth)
	applyInt(&cfg.MinHeight, raw.MinHeight)
	applyBool(&cfg.WatchConfig, raw.WatchConfig)

	if raw.Log != nil {
		applyString(&cfg.Log.Level, raw.Log.Level)
		applyString(&cfg.Log.Dir, raw.Log.Dir)
		applyInt(&cfg.Log.MaxSizeMB, raw.Log.MaxSizeMB)
		applyInt(&cfg.Log.MaxBackups, raw.Log.MaxBackups)
		applyInt(&cfg.Log.MaxAgeDays, raw.Log.MaxAgeDays)
		applyBool(&cfg.Log.Compress, raw.Log.Compress)
	}

	if cfg.BackgroundImage != "" {
		cfg.BackgroundImage = ExpandHome(cfg.BackgroundImage)
	}
	return cfg
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func applyInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
