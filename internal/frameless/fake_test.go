package frameless

import (
	"fmt"

	"github.com/1broseidon/chromeless/internal/platform"
)

type fakeControl struct {
	id             platform.ControlID
	children       []platform.Control
	trackingCalls  int
	trackingErr    error
	trackingActive bool
}

func (c *fakeControl) ID() platform.ControlID       { return c.id }
func (c *fakeControl) Children() []platform.Control { return c.children }

func (c *fakeControl) SetMouseTracking(enabled bool) error {
	c.trackingCalls++
	if c.trackingErr != nil {
		return c.trackingErr
	}
	c.trackingActive = enabled
	return nil
}

// placed is a control occupying a global rect inside the fake window.
type placed struct {
	rect    platform.Rect
	control platform.Control
}

// fakeWindow records every mutation the controller issues. State requests
// are applied immediately unless deferState is set.
type fakeWindow struct {
	fakeControl

	bounds    platform.Rect
	minSize   platform.Size
	state     platform.WindowState
	normal    platform.Rect
	maximized platform.Rect

	deferState   bool
	pendingState *platform.WindowState

	layout []placed

	cursor        platform.CursorShape
	cursorCalls   int
	boundsWrites  []platform.Rect
	moves         []platform.Point
	stateRequests []platform.WindowState
	closed        bool
}

func newFakeWindow(bounds platform.Rect, minSize platform.Size) *fakeWindow {
	return &fakeWindow{
		fakeControl: fakeControl{id: 1},
		bounds:      bounds,
		minSize:     minSize,
		state:       platform.StateNormal,
		normal:      bounds,
		maximized:   platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	}
}

// place registers ctl at r, as a child of the window. Later placements win
// in ControlAt, so nested controls must be placed after their parents.
func (w *fakeWindow) place(ctl *fakeControl, r platform.Rect) {
	w.layout = append(w.layout, placed{rect: r, control: ctl})
}

func (w *fakeWindow) Bounds() platform.Rect      { return w.bounds }
func (w *fakeWindow) MinimumSize() platform.Size { return w.minSize }
func (w *fakeWindow) State() platform.WindowState {
	return w.state
}

func (w *fakeWindow) SetBounds(r platform.Rect) error {
	if r.Empty() {
		return fmt.Errorf("empty geometry %+v", r)
	}
	w.boundsWrites = append(w.boundsWrites, r)
	w.bounds = r
	return nil
}

func (w *fakeWindow) Move(p platform.Point) error {
	w.moves = append(w.moves, p)
	w.bounds.X = p.X
	w.bounds.Y = p.Y
	return nil
}

func (w *fakeWindow) SetState(s platform.WindowState) error {
	w.stateRequests = append(w.stateRequests, s)
	if w.deferState {
		w.pendingState = &s
		return nil
	}
	w.applyState(s)
	return nil
}

func (w *fakeWindow) applyState(s platform.WindowState) {
	if w.state == platform.StateNormal && s != platform.StateNormal {
		w.normal = w.bounds
	}
	w.state = s
	switch s {
	case platform.StateNormal:
		w.bounds = w.normal
	case platform.StateMaximized:
		w.bounds = w.maximized
	}
}

func (w *fakeWindow) SetCursor(shape platform.CursorShape) error {
	w.cursorCalls++
	w.cursor = shape
	return nil
}

func (w *fakeWindow) ControlAt(p platform.Point) (platform.Control, bool) {
	for i := len(w.layout) - 1; i >= 0; i-- {
		if w.layout[i].rect.Contains(p) {
			return w.layout[i].control, true
		}
	}
	if w.bounds.Contains(p) {
		return w, true
	}
	return nil, false
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) lastMove() (platform.Point, bool) {
	if len(w.moves) == 0 {
		return platform.Point{}, false
	}
	return w.moves[len(w.moves)-1], true
}

// syncWindow delivers deferred state changes through the handler when Sync
// is called, like a toolkit draining its event queue.
type syncWindow struct {
	*fakeWindow
	handler   platform.EventHandler
	syncCalls int
}

func (w *syncWindow) Sync() error {
	w.syncCalls++
	if w.pendingState == nil {
		return nil
	}
	s := *w.pendingState
	w.pendingState = nil
	w.applyState(s)
	w.handler.HandleStateChanged(s)
	w.handler.HandleGeometryChanged(w.bounds)
	return nil
}

var (
	_ platform.Window = (*fakeWindow)(nil)
	_ platform.Syncer = (*syncWindow)(nil)
)
