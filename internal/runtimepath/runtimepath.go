// Package runtimepath locates the control socket shared by "chromeless run"
// and its clients (status, action, tui, mcp).
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the runtime directory used for the control socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/chromeless-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/chromeless-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketEnv overrides the socket path, letting several windows run side by
// side with clients pointed at one of them.
const SocketEnv = "CHROMELESS_SOCKET"

// SocketPath returns the window's IPC socket path: $CHROMELESS_SOCKET when
// set, else chromeless.sock in Dir.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		if !filepath.IsAbs(p) {
			return "", fmt.Errorf("%s must be an absolute path, got %q", SocketEnv, p)
		}
		return p, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "chromeless.sock"), nil
}
