package main

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/wm"
)

// managerOptions converts a validated config into window manager options.
func managerOptions(cfg *config.Config) (wm.Options, error) {
	opts := wm.DefaultOptions()
	opts.TitlebarHeight = cfg.TitlebarHeight
	opts.BorderWidth = cfg.BorderWidth
	opts.EnableTitlebarCloseButton = cfg.EnableTitlebarCloseButton
	opts.ShowTitle = cfg.ShowTitle
	opts.DragRequiresModifier = cfg.DragRequiresModifier
	opts.EnableResize = cfg.EnableResize
	opts.GracefulCloseEnabled = cfg.GracefulCloseEnabled
	opts.CloseKey = cfg.CloseKey
	opts.CycleKey = cfg.CycleKey
	opts.MinSize = geom.Size{Width: cfg.MinWidth, Height: cfg.MinHeight}

	mods, err := config.ParseModifiers(cfg.DragModifier)
	if err != nil {
		return wm.Options{}, fmt.Errorf("drag_modifier: %w", err)
	}
	opts.DragModifier = wm.ModMask(mods)

	colors := []struct {
		key string
		src string
		dst *uint32
	}{
		{"colors.border", cfg.Colors.Border, &opts.Colors.Border},
		{"colors.frame", cfg.Colors.Frame, &opts.Colors.Frame},
		{"colors.titlebar", cfg.Colors.Titlebar, &opts.Colors.Titlebar},
		{"colors.close_button", cfg.Colors.CloseButton, &opts.Colors.CloseButton},
		{"colors.close_glyph", cfg.Colors.CloseGlyph, &opts.Colors.CloseGlyph},
		{"colors.title_text", cfg.Colors.TitleText, &opts.Colors.TitleText},
	}
	for _, c := range colors {
		v, err := config.ParseColor(c.src)
		if err != nil {
			return wm.Options{}, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.dst = v
	}
	return opts, nil
}
