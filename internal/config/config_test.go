package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.TitlebarHeight != 20 || cfg.BorderWidth != 1 {
		t.Fatalf("unexpected decoration defaults: %+v", cfg)
	}
	if !cfg.EnableTitlebarCloseButton || cfg.DragRequiresModifier || !cfg.GracefulCloseEnabled {
		t.Fatalf("unexpected interaction defaults: %+v", cfg)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CloseKey != "Mod1-F4" {
		t.Fatalf("expected default close_key, got %q", res.Config.CloseKey)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TitlebarHeight != 20 {
		t.Fatalf("expected titlebar_height 20, got %d", res.Config.TitlebarHeight)
	}
}

func TestLoadFromPath_OverridesAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"titlebar_height: 24",
		"drag_requires_modifier: true",
		"drag_modifier: Mod4",
		"colors:",
		"  titlebar: \"#112233\"",
		"log:",
		"  level: debug",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.TitlebarHeight != 24 || !cfg.DragRequiresModifier || cfg.DragModifier != "Mod4" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Colors.Titlebar != "#112233" {
		t.Fatalf("expected titlebar color override, got %q", cfg.Colors.Titlebar)
	}
	if cfg.Colors.Frame != "#3b414a" {
		t.Fatalf("expected untouched colors to keep defaults, got %q", cfg.Colors.Frame)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxBackups != 3 {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}

	val, src, err := Explain(res, "colors.titlebar")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "#112233" {
		t.Fatalf("explain value = %v", val)
	}
	if src.Kind != SourceFile || src.Line != 5 {
		t.Fatalf("expected file source at line 5, got %+v", src)
	}

	val, src, err = Explain(res, "border_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 1 || src.Kind != SourceDefault {
		t.Fatalf("expected default border_width, got %v from %+v", val, src)
	}

	if _, _, err := Explain(res, "colors.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "border_width: 1\ncolors:\n  frame: blue\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "colors.frame" {
		t.Fatalf("expected path colors.frame, got %q", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "titlebar_height: 18\nborder_width: 3\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "titlebar_height: 22\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"titlebar_height: 26",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TitlebarHeight != 26 {
		t.Fatalf("expected titlebar_height to be 26, got %d", res.Config.TitlebarHeight)
	}
	if res.Config.BorderWidth != 3 {
		t.Fatalf("expected border_width from include, got %d", res.Config.BorderWidth)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"titlebar too small", func(c *Config) { c.TitlebarHeight = 2 }, "titlebar_height"},
		{"negative border", func(c *Config) { c.BorderWidth = -1 }, "border_width"},
		{"bad color", func(c *Config) { c.Colors.CloseGlyph = "#12345" }, "colors.close_glyph"},
		{"bad modifier", func(c *Config) { c.DragModifier = "Hyper" }, "drag_modifier"},
		{"modifier required", func(c *Config) { c.DragRequiresModifier = true; c.DragModifier = "" }, "drag_modifier"},
		{"min width", func(c *Config) { c.MinWidth = 0 }, "min_width"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log size", func(c *Config) { c.Log.MaxSizeMB = 0 }, "log.max_size_mb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#ff0000", 0xff0000, false},
		{"435975", 0x435975, false},
		{" #FFFFFF ", 0xffffff, false},
		{"#fff", 0, true},
		{"#gg0000", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"", 0, false},
		{"Mod1", 1 << 3, false},
		{"mod4-Shift", 1<<6 | 1, false},
		{"Control", 1 << 2, false},
		{"Super", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseModifiers(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseModifiers(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseModifiers(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestLogDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	cfg := DefaultConfig()
	if got := cfg.LogDir(); got != "/var/state/framewm" {
		t.Fatalf("LogDir() = %q", got)
	}
	cfg.Log.Dir = "/tmp/wm-logs"
	if got := cfg.LogDir(); got != "/tmp/wm-logs" {
		t.Fatalf("LogDir() = %q", got)
	}
}

func TestDefaultConfigPath_UsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg-test")
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	if got != "/etc/xdg-test/framewm/config.yaml" {
		t.Fatalf("DefaultConfigPath() = %q", got)
	}
}

func TestWatch_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "titlebar_height: 20\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 8)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- Watch(ctx, path, logger, func() { changes <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		writeFile(t, path, "titlebar_height: 22\n")
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected a change notification")
	}

	select {
	case <-changes:
		t.Fatalf("expected writes to be coalesced into one notification")
	case <-time.After(600 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Watch did not stop after cancel")
	}
}
