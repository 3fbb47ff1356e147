package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/chromeless/internal/frameless"
	"github.com/1broseidon/chromeless/internal/platform"
)

// ErrResizeDisabled is returned for maximize actions on a window that
// cannot be resized.
var ErrResizeDisabled = errors.New("window is not resizable")

// Snapshot is a copy of the window's interaction state that may be read
// from any goroutine.
type Snapshot struct {
	State         platform.WindowState
	RestoreTarget platform.WindowState
	Bounds        platform.Rect
	// NormalBounds is the last geometry seen in the normal state.
	NormalBounds  platform.Rect
	Hover         frameless.Region
	Dragging      bool
	ResizeEnabled bool
}

// Shell is the application window: the frameless controller configured
// with the titlebar controls, wired to the min/max/close buttons, and
// swapping the maximize glyph on state changes.
//
// Shell is the host's event handler. Its methods run on the UI thread,
// except Snapshot.
type Shell struct {
	*frameless.Controller

	window platform.Window
	chrome platform.Chrome
	logger *slog.Logger

	mu   sync.RWMutex
	snap Snapshot
	// prevNormal is NormalBounds before its latest update, kept so a
	// maximize whose geometry arrived ahead of the state change can be
	// undone.
	prevNormal platform.Rect
}

var _ platform.EventHandler = (*Shell)(nil)

// DefaultConfig is the shell's interaction policy: the whole window is a
// drag handle and resizing is on.
func DefaultConfig() frameless.Config {
	cfg := frameless.DefaultConfig()
	cfg.OnlyMoveFromTitlebar = false
	return cfg
}

// New builds a shell around window. The titlebar background, icon and
// title act as the titlebar; the action buttons do not, so double-clicking
// a button never toggles maximize.
func New(window platform.Window, chrome platform.Chrome, cfg frameless.Config, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg.TitlebarControls = nil
	for _, ctl := range []platform.Control{chrome.Titlebar, chrome.Icon, chrome.Title} {
		if ctl != nil {
			cfg.TitlebarControls = append(cfg.TitlebarControls, ctl.ID())
		}
	}

	s := &Shell{
		Controller: frameless.New(window, cfg, logger),
		window:     window,
		chrome:     chrome,
		logger:     logger,
	}

	s.bind(chrome.Minimize, ActionMinimize)
	s.bind(chrome.Maximize, ActionToggleMaximize)
	s.bind(chrome.Close, ActionClose)

	s.SetResizeEnabled(cfg.ResizeEnabled)
	s.updateGlyph(window.State())
	return s
}

func (s *Shell) bind(b platform.Button, a Action) {
	if b == nil {
		return
	}
	b.OnClick(func() {
		if err := s.Perform(a); err != nil {
			s.logger.Warn("button action failed", "action", a.String(), "error", err)
		}
	})
}

// SetResizeEnabled toggles resizing and shows or hides the maximize button.
func (s *Shell) SetResizeEnabled(enabled bool) {
	s.Controller.SetResizeEnabled(enabled)
	if b := s.chrome.Maximize; b != nil {
		if err := b.SetVisible(enabled); err != nil {
			s.logger.Debug("maximize button visibility not applied", "error", err)
		}
	}
	s.refresh()
}

// Perform runs an action on the window.
func (s *Shell) Perform(a Action) error {
	switch a {
	case ActionMinimize:
		s.Minimize()
	case ActionMaximize:
		if !s.ResizeEnabled() {
			return ErrResizeDisabled
		}
		s.Maximize()
	case ActionRestore:
		s.Restore()
	case ActionToggleMaximize:
		if !s.ResizeEnabled() {
			return ErrResizeDisabled
		}
		s.ToggleMaximize()
	case ActionClose:
		s.logger.Info("closing window")
		if err := s.window.Close(); err != nil {
			return fmt.Errorf("close failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown action %d", uint32(a))
	}
	s.refresh()
	return nil
}

// Snapshot returns the state recorded after the last handled event.
func (s *Shell) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Shell) HandlePress(button platform.MouseButton, p platform.Point) {
	s.Controller.HandlePress(button, p)
	s.refresh()
}

func (s *Shell) HandleMove(p platform.Point) {
	s.Controller.HandleMove(p)
	s.refresh()
}

func (s *Shell) HandleRelease(button platform.MouseButton, p platform.Point) {
	s.Controller.HandleRelease(button, p)
	s.refresh()
}

func (s *Shell) HandleDoubleClick(button platform.MouseButton, p platform.Point) {
	s.Controller.HandleDoubleClick(button, p)
	s.refresh()
}

func (s *Shell) HandleGeometryChanged(r platform.Rect) {
	s.Controller.HandleGeometryChanged(r)
	s.refresh()
}

func (s *Shell) HandleFocusLost() {
	s.Controller.HandleFocusLost()
	s.refresh()
}

// HandleStateChanged swaps the maximize glyph between maximize and restore.
func (s *Shell) HandleStateChanged(st platform.WindowState) {
	s.Controller.HandleStateChanged(st)
	s.updateGlyph(st)
	if st == platform.StateMaximized {
		s.dropMaximizedNormal(s.window.Bounds())
	}
	s.refresh()
}

// dropMaximizedNormal rolls NormalBounds back when window managers send the
// maximized geometry before _NET_WM_STATE, which recorded the maximized
// rectangle as normal geometry.
func (s *Shell) dropMaximizedNormal(maximized platform.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.NormalBounds == maximized && !s.prevNormal.Empty() {
		s.snap.NormalBounds = s.prevNormal
	}
}

func (s *Shell) updateGlyph(st platform.WindowState) {
	b := s.chrome.Maximize
	if b == nil {
		return
	}
	// a minimized window keeps the glyph of the state it returns to
	if st == platform.StateMinimized {
		st = s.RestoreTarget()
	}
	g := platform.GlyphMaximize
	if st == platform.StateMaximized {
		g = platform.GlyphRestore
	}
	if err := b.SetGlyph(g); err != nil {
		s.logger.Debug("glyph update failed", "glyph", g.String(), "error", err)
	}
}

func (s *Shell) refresh() {
	snap := Snapshot{
		State:         s.window.State(),
		RestoreTarget: s.RestoreTarget(),
		Bounds:        s.window.Bounds(),
		Hover:         s.Hover(),
		Dragging:      s.Dragging(),
		ResizeEnabled: s.ResizeEnabled(),
	}
	s.mu.Lock()
	snap.NormalBounds = s.snap.NormalBounds
	if snap.State == platform.StateNormal && !snap.Bounds.Empty() && snap.Bounds != snap.NormalBounds {
		s.prevNormal = snap.NormalBounds
		snap.NormalBounds = snap.Bounds
	}
	s.snap = snap
	s.mu.Unlock()
}
