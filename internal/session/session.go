// Package session persists the window's geometry between runs.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/chromeless/internal/config"
	"github.com/1broseidon/chromeless/internal/platform"
	"github.com/1broseidon/chromeless/internal/shell"
)

// Session is the geometry and state the window had when it last closed.
type Session struct {
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	State   string    `json:"state"`
	SavedAt time.Time `json:"saved_at"`
}

// Path returns the session file location.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "chromeless", "session.json"), nil
}

// FromSnapshot records the normal-state bounds and the state to reopen in.
// A minimized window reopens in the state it would restore to.
func FromSnapshot(snap shell.Snapshot, now time.Time) *Session {
	b := snap.NormalBounds
	if b.Empty() {
		b = snap.Bounds
	}
	state := snap.State
	if state == platform.StateMinimized {
		state = snap.RestoreTarget
	}
	return &Session{
		X:       b.X,
		Y:       b.Y,
		Width:   b.Width,
		Height:  b.Height,
		State:   state.String(),
		SavedAt: now.UTC(),
	}
}

// Bounds returns the saved normal-state rectangle.
func (s *Session) Bounds() platform.Rect {
	return platform.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Apply overrides the window placement in w. Sizes below the configured
// minimum are raised to it. A saved maximized state turns StartMaximized on
// but never off.
func (s *Session) Apply(w *config.WindowConfig) {
	w.X = s.X
	w.Y = s.Y
	w.Width = max(s.Width, w.MinWidth)
	w.Height = max(s.Height, w.MinHeight)
	w.StartMaximized = w.StartMaximized || s.State == platform.StateMaximized.String()
}

// Write stores s at path.
func Write(path string, s *Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid session geometry %dx%d", s.Width, s.Height)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Read loads the session at path. A missing file returns nil, nil.
func Read(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("session %s has invalid geometry %dx%d", path, s.Width, s.Height)
	}
	return &s, nil
}
