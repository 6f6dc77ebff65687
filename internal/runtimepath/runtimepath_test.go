package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/framewm-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv("DISPLAY", ":7")

	tests := []struct {
		display string
		want    string
	}{
		{":1", "framewm-1.sock"},
		{":1.0", "framewm-1.sock"},
		{"remote:12.1", "framewm-12.sock"},
		{"", "framewm-7.sock"},
	}
	for _, tt := range tests {
		got, err := SocketPath(tt.display)
		if err != nil {
			t.Fatalf("SocketPath(%q) error: %v", tt.display, err)
		}
		if want := filepath.Join(td, tt.want); got != want {
			t.Fatalf("SocketPath(%q) = %q, want %q", tt.display, got, want)
		}
	}
}

func TestSocketNameWithoutDisplayNumber(t *testing.T) {
	for _, display := range []string{"", "garbage", "host:"} {
		if got := socketName(display); got != "framewm.sock" {
			t.Fatalf("socketName(%q) = %q, want framewm.sock", display, got)
		}
	}
}
