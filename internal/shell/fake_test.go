package shell

import (
	"github.com/1broseidon/chromeless/internal/platform"
)

type fakeControl struct {
	id       platform.ControlID
	children []platform.Control
	tracking bool
}

func (c *fakeControl) ID() platform.ControlID       { return c.id }
func (c *fakeControl) Children() []platform.Control { return c.children }
func (c *fakeControl) SetMouseTracking(enabled bool) error {
	c.tracking = enabled
	return nil
}

type fakeButton struct {
	fakeControl
	glyph   platform.Glyph
	visible bool
	onClick func()
}

func (b *fakeButton) OnClick(fn func()) { b.onClick = fn }
func (b *fakeButton) SetGlyph(g platform.Glyph) error {
	b.glyph = g
	return nil
}
func (b *fakeButton) SetVisible(v bool) error {
	b.visible = v
	return nil
}

func (b *fakeButton) click() {
	if b.visible && b.onClick != nil {
		b.onClick()
	}
}

type area struct {
	rect    platform.Rect
	control platform.Control
}

// fakeWindow applies state requests immediately and keeps window-relative
// control areas, so they follow the window when it moves.
type fakeWindow struct {
	fakeControl
	bounds    platform.Rect
	normal    platform.Rect
	state     platform.WindowState
	areas     []area
	moves     int
	requests  []platform.WindowState
	closed    bool
	lastShape platform.CursorShape
}

func (w *fakeWindow) Bounds() platform.Rect      { return w.bounds }
func (w *fakeWindow) MinimumSize() platform.Size { return platform.Size{Width: 600, Height: 400} }
func (w *fakeWindow) SetBounds(r platform.Rect) error {
	w.bounds = r
	return nil
}
func (w *fakeWindow) Move(p platform.Point) error {
	w.moves++
	w.bounds.X, w.bounds.Y = p.X, p.Y
	return nil
}
func (w *fakeWindow) State() platform.WindowState { return w.state }
func (w *fakeWindow) SetState(s platform.WindowState) error {
	w.requests = append(w.requests, s)
	if w.state == platform.StateNormal {
		w.normal = w.bounds
	}
	w.state = s
	switch s {
	case platform.StateMaximized:
		w.bounds = platform.Rect{Width: 1920, Height: 1080}
	case platform.StateNormal:
		w.bounds = w.normal
	}
	return nil
}
func (w *fakeWindow) SetCursor(shape platform.CursorShape) error {
	w.lastShape = shape
	return nil
}
func (w *fakeWindow) ControlAt(p platform.Point) (platform.Control, bool) {
	local := p.Sub(w.bounds.TopLeft())
	for i := len(w.areas) - 1; i >= 0; i-- {
		if w.areas[i].rect.Contains(local) {
			return w.areas[i].control, true
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

type testShell struct {
	window   *fakeWindow
	chrome   platform.Chrome
	titlebar *fakeControl
	icon     *fakeControl
	title    *fakeControl
	content  *fakeControl
	minimize *fakeButton
	maximize *fakeButton
	close    *fakeButton
}

// newTestShell lays out an 800x500 window at (100,100): 48px titlebar with
// icon, title and three buttons, content below.
func newTestShell() *testShell {
	ts := &testShell{
		titlebar: &fakeControl{id: 10},
		icon:     &fakeControl{id: 11},
		title:    &fakeControl{id: 12},
		content:  &fakeControl{id: 20},
		minimize: &fakeButton{fakeControl: fakeControl{id: 13}, visible: true},
		maximize: &fakeButton{fakeControl: fakeControl{id: 14}, visible: true},
		close:    &fakeButton{fakeControl: fakeControl{id: 15}, visible: true},
	}
	ts.titlebar.children = []platform.Control{ts.icon, ts.title, ts.minimize, ts.maximize, ts.close}

	bounds := platform.Rect{X: 100, Y: 100, Width: 800, Height: 500}
	ts.window = &fakeWindow{
		fakeControl: fakeControl{id: 1, children: []platform.Control{ts.titlebar, ts.content}},
		bounds:      bounds,
		normal:      bounds,
		areas: []area{
			{platform.Rect{Width: 800, Height: 48}, ts.titlebar},
			{platform.Rect{X: 8, Y: 14, Width: 20, Height: 20}, ts.icon},
			{platform.Rect{X: 36, Y: 8, Width: 640, Height: 32}, ts.title},
			{platform.Rect{X: 684, Y: 8, Width: 36, Height: 32}, ts.minimize},
			{platform.Rect{X: 720, Y: 8, Width: 36, Height: 32}, ts.maximize},
			{platform.Rect{X: 756, Y: 8, Width: 36, Height: 32}, ts.close},
			{platform.Rect{Y: 48, Width: 800, Height: 452}, ts.content},
		},
	}
	ts.chrome = platform.Chrome{
		Titlebar: ts.titlebar,
		Icon:     ts.icon,
		Title:    ts.title,
		Content:  ts.content,
		Minimize: ts.minimize,
		Maximize: ts.maximize,
		Close:    ts.close,
	}
	return ts
}

// global converts a window-relative point to screen coordinates.
func (ts *testShell) global(x, y int) platform.Point {
	return platform.Point{X: ts.window.bounds.X + x, Y: ts.window.bounds.Y + y}
}

var _ platform.Window = (*fakeWindow)(nil)
