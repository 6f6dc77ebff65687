package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the runtime directory holding the control socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/framewm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/framewm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket path for the given X display.
// An empty display falls back to $DISPLAY.
func SocketPath(display string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	return filepath.Join(runtimeDir, socketName(display)), nil
}

// socketName keys the socket on the display number so window managers on
// nested servers do not collide: ":1.0" and "host:1" both give framewm-1.sock.
func socketName(display string) string {
	i := strings.LastIndex(display, ":")
	if i < 0 {
		return "framewm.sock"
	}
	num := display[i+1:]
	if dot := strings.IndexByte(num, '.'); dot >= 0 {
		num = num[:dot]
	}
	if num == "" || strings.ContainsAny(num, "/\\") {
		return "framewm.sock"
	}
	return "framewm-" + num + ".sock"
}
