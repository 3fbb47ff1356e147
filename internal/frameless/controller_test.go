package frameless

import (
	"errors"
	"math"
	"testing"

	"github.com/1broseidon/chromeless/internal/platform"
)

const (
	titlebarID platform.ControlID = 10
	titleID    platform.ControlID = 11
	buttonID   platform.ControlID = 12
	contentID  platform.ControlID = 20
)

// newTestWindow builds a 600x400 window at (100,100) with a 48px titlebar
// holding a title label and a button, above a content area.
func newTestWindow() (*fakeWindow, *fakeControl, *fakeControl, *fakeControl, *fakeControl) {
	w := newFakeWindow(platform.Rect{X: 100, Y: 100, Width: 600, Height: 400}, platform.Size{Width: 600, Height: 400})

	titlebar := &fakeControl{id: titlebarID}
	title := &fakeControl{id: titleID}
	button := &fakeControl{id: buttonID}
	content := &fakeControl{id: contentID}
	titlebar.children = []platform.Control{title, button}
	w.children = []platform.Control{titlebar, content}

	w.place(titlebar, platform.Rect{X: 100, Y: 100, Width: 600, Height: 48})
	w.place(title, platform.Rect{X: 136, Y: 108, Width: 300, Height: 32})
	w.place(button, platform.Rect{X: 656, Y: 108, Width: 36, Height: 32})
	w.place(content, platform.Rect{X: 100, Y: 148, Width: 600, Height: 352})
	return w, titlebar, title, button, content
}

func newTestController(w platform.Window, only bool) *Controller {
	return New(w, Config{
		TitlebarControls:     []platform.ControlID{titlebarID, titleID},
		OnlyMoveFromTitlebar: only,
		ResizeEnabled:        true,
		BorderMargin:         4,
	}, nil)
}

func TestHoverUpdatesCursor(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandleMove(platform.Point{X: 101, Y: 300})
	if c.Hover() != RegionLeft || w.cursor != platform.CursorSizeHorizontal {
		t.Fatalf("hover=%v cursor=%v, want left/horizontal", c.Hover(), w.cursor)
	}

	c.HandleMove(platform.Point{X: 102, Y: 301})
	if w.cursorCalls != 1 {
		t.Fatalf("cursor set %d times, want 1 for an unchanged region", w.cursorCalls)
	}

	c.HandleMove(platform.Point{X: 400, Y: 300})
	if c.Hover() != RegionCenter || w.cursor != platform.CursorArrow {
		t.Fatalf("hover=%v cursor=%v, want center/arrow", c.Hover(), w.cursor)
	}
}

func TestHoverIgnoredWhileMaximizedOrNotResizable(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	w.applyState(platform.StateMaximized)
	c.HandleMove(platform.Point{X: 0, Y: 500})
	if w.cursorCalls != 0 || c.Hover() != RegionCenter {
		t.Fatalf("maximized window re-evaluated cursor: calls=%d hover=%v", w.cursorCalls, c.Hover())
	}

	w.applyState(platform.StateNormal)
	c.SetResizeEnabled(false)
	c.HandleMove(platform.Point{X: 101, Y: 300})
	if c.Hover() != RegionCenter || w.cursor != platform.CursorArrow {
		t.Fatalf("resize disabled: hover=%v cursor=%v", c.Hover(), w.cursor)
	}
}

func TestNonLeftPressIgnored(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandlePress(platform.ButtonRight, platform.Point{X: 300, Y: 120})
	if c.Dragging() {
		t.Fatalf("right press started a drag")
	}
	c.HandleMove(platform.Point{X: 350, Y: 150})
	if len(w.moves) != 0 || len(w.boundsWrites) != 0 {
		t.Fatalf("unexpected geometry writes: moves=%v bounds=%v", w.moves, w.boundsWrites)
	}
}

func TestReleaseAnyButtonEndsDrag(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 300, Y: 120})
	c.HandleRelease(platform.ButtonRight, platform.Point{X: 300, Y: 120})
	if c.Dragging() {
		t.Fatalf("drag still active after release")
	}
	c.HandleMove(platform.Point{X: 400, Y: 200})
	if len(w.moves) != 0 {
		t.Fatalf("window moved after release: %v", w.moves)
	}
}

func TestFocusLossEndsDrag(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 300, Y: 120})
	c.HandleFocusLost()
	c.HandleMove(platform.Point{X: 400, Y: 200})
	if len(w.moves) != 0 {
		t.Fatalf("window moved after focus loss: %v", w.moves)
	}
}

func TestTitlebarDragIsPureTranslation(t *testing.T) {
	tests := []struct {
		name  string
		press platform.Point
		moves []platform.Point
	}{
		{"title label", platform.Point{X: 200, Y: 120}, []platform.Point{{X: 210, Y: 125}, {X: 180, Y: 90}, {X: -40, Y: 700}}},
		{"titlebar background", platform.Point{X: 500, Y: 124}, []platform.Point{{X: 501, Y: 124}, {X: 900, Y: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _, _, _ := newTestWindow()
			c := newTestController(w, true)
			origin := w.bounds.TopLeft()

			c.HandlePress(platform.ButtonLeft, tt.press)
			for _, p := range tt.moves {
				c.HandleMove(p)
				want := origin.Add(p.Sub(tt.press))
				if got := w.bounds.TopLeft(); got != want {
					t.Fatalf("after move to %+v origin=%+v, want %+v", p, got, want)
				}
			}
			if w.bounds.Width != 600 || w.bounds.Height != 400 {
				t.Fatalf("drag changed size: %+v", w.bounds)
			}
		})
	}
}

func TestButtonInTitlebarIsNotADragHandle(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 670, Y: 120})
	c.HandleMove(platform.Point{X: 600, Y: 200})
	if len(w.moves) != 0 {
		t.Fatalf("dragging a titlebar button moved the window: %v", w.moves)
	}
}

func TestContentDragGating(t *testing.T) {
	press := platform.Point{X: 400, Y: 300}
	to := platform.Point{X: 450, Y: 320}

	tests := []struct {
		name      string
		only      bool
		maximized bool
		wantMove  bool
	}{
		{"only titlebar", true, false, false},
		{"whole window", false, false, true},
		{"whole window but maximized", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _, _, _ := newTestWindow()
			c := newTestController(w, tt.only)
			if tt.maximized {
				w.applyState(platform.StateMaximized)
			}

			c.HandlePress(platform.ButtonLeft, press)
			c.HandleMove(to)

			moved := len(w.moves) > 0
			if moved != tt.wantMove {
				t.Fatalf("moved=%v want %v (moves=%v)", moved, tt.wantMove, w.moves)
			}
			if len(w.stateRequests) != 0 {
				t.Fatalf("content drag requested state change: %v", w.stateRequests)
			}
		})
	}
}

func TestLeftEdgeStopsAtMinimumWidth(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 100, Y: 300})
	if c.Hover() != RegionLeft {
		t.Fatalf("press region = %v, want left", c.Hover())
	}

	// 700 - 650 = 50 is not above the 600px minimum: the left edge stays.
	c.HandleMove(platform.Point{X: 650, Y: 300})
	if len(w.boundsWrites) != 0 {
		t.Fatalf("left edge moved past minimum: %v", w.boundsWrites)
	}
	if w.bounds.Width < 600 {
		t.Fatalf("width %d below minimum", w.bounds.Width)
	}

	c.HandleMove(platform.Point{X: 40, Y: 300})
	want := platform.Rect{X: 40, Y: 100, Width: 660, Height: 400}
	if w.bounds != want {
		t.Fatalf("bounds = %+v, want %+v", w.bounds, want)
	}
}

func TestResizeEdges(t *testing.T) {
	start := platform.Rect{X: 100, Y: 100, Width: 600, Height: 400}

	tests := []struct {
		name  string
		press platform.Point
		to    platform.Point
		want  platform.Rect
	}{
		{"top grows", platform.Point{X: 400, Y: 101}, platform.Point{X: 400, Y: 50}, platform.Rect{X: 100, Y: 50, Width: 600, Height: 450}},
		{"bottom grows", platform.Point{X: 400, Y: 498}, platform.Point{X: 400, Y: 600}, platform.Rect{X: 100, Y: 100, Width: 600, Height: 500}},
		{"right grows", platform.Point{X: 698, Y: 300}, platform.Point{X: 800, Y: 300}, platform.Rect{X: 100, Y: 100, Width: 700, Height: 400}},
		{"bottom-right grows", platform.Point{X: 699, Y: 499}, platform.Point{X: 900, Y: 700}, platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}},
		{"top-left grows", platform.Point{X: 100, Y: 100}, platform.Point{X: 50, Y: 60}, platform.Rect{X: 50, Y: 60, Width: 650, Height: 440}},
		{"top-right grows", platform.Point{X: 699, Y: 100}, platform.Point{X: 750, Y: 80}, platform.Rect{X: 100, Y: 80, Width: 650, Height: 420}},
		{"bottom-left grows", platform.Point{X: 100, Y: 499}, platform.Point{X: 80, Y: 520}, platform.Rect{X: 80, Y: 100, Width: 620, Height: 420}},
		{"right clamps to minimum", platform.Point{X: 698, Y: 300}, platform.Point{X: 150, Y: 300}, platform.Rect{X: 100, Y: 100, Width: 600, Height: 400}},
		{"bottom clamps above top", platform.Point{X: 400, Y: 498}, platform.Point{X: 400, Y: 0}, platform.Rect{X: 100, Y: 100, Width: 600, Height: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _, _, _ := newTestWindow()
			w.minSize = platform.Size{Width: 600, Height: 400}
			w.bounds = start
			c := newTestController(w, true)

			c.HandlePress(platform.ButtonLeft, tt.press)
			c.HandleMove(tt.to)
			if w.bounds != tt.want {
				t.Fatalf("bounds = %+v, want %+v (region %v)", w.bounds, tt.want, c.Hover())
			}
			if len(w.moves) != 0 {
				t.Fatalf("resize issued moves: %v", w.moves)
			}
		})
	}
}

func TestNearEdgeResizeNeverDropsBelowMinimum(t *testing.T) {
	presses := map[Region]platform.Point{
		RegionTop:         {X: 300, Y: 101},
		RegionLeft:        {X: 101, Y: 300},
		RegionTopLeft:     {X: 101, Y: 101},
		RegionTopRight:    {X: 898, Y: 101},
		RegionBottomLeft:  {X: 101, Y: 698},
		RegionBottomRight: {X: 898, Y: 698},
	}

	for region, press := range presses {
		t.Run(region.String(), func(t *testing.T) {
			w, _, _, _, _ := newTestWindow()
			w.bounds = platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}
			w.minSize = platform.Size{Width: 300, Height: 200}
			c := newTestController(w, true)

			c.HandlePress(platform.ButtonLeft, press)
			if c.Hover() != region {
				t.Fatalf("press region = %v, want %v", c.Hover(), region)
			}
			// sweep the pointer far across and past the window
			for step := 0; step <= 60; step++ {
				p := platform.Point{X: press.X + (step-20)*25, Y: press.Y + (step-20)*25}
				c.HandleMove(p)
				if w.bounds.Width < w.minSize.Width || w.bounds.Height < w.minSize.Height {
					t.Fatalf("step %d pointer %+v: bounds %+v below minimum %+v", step, p, w.bounds, w.minSize)
				}
			}
		})
	}
}

func TestResizeRejectedWhenDisabledAfterPress(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 698, Y: 300})
	c.SetResizeEnabled(false)
	c.HandleMove(platform.Point{X: 900, Y: 300})
	if len(w.boundsWrites) != 0 || len(w.moves) != 0 {
		t.Fatalf("geometry changed with resizing disabled: bounds=%v moves=%v", w.boundsWrites, w.moves)
	}
}

func assertFraction(t *testing.T, pointerX int, bounds platform.Rect, want float64) {
	t.Helper()
	got := float64(pointerX-bounds.X) / float64(bounds.Width)
	if math.Abs(got-want) > 1/float64(bounds.Width) {
		t.Fatalf("pointer fraction after restore = %.4f, want %.4f (bounds %+v)", got, want, bounds)
	}
}

func TestDragRestorePreservesPointerFraction(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)
	w.applyState(platform.StateMaximized)
	c.HandleStateChanged(platform.StateMaximized)
	w.place(&fakeControl{id: titlebarID}, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 48})

	press := platform.Point{X: 1440, Y: 20}
	c.HandlePress(platform.ButtonLeft, press)
	c.HandleMove(platform.Point{X: 1442, Y: 22})

	if len(w.stateRequests) != 1 || w.stateRequests[0] != platform.StateNormal {
		t.Fatalf("state requests = %v, want [normal]", w.stateRequests)
	}
	if w.bounds.Width != 600 {
		t.Fatalf("restored width = %d, want 600", w.bounds.Width)
	}
	if w.bounds.Y != 0 {
		t.Fatalf("restored top = %d, want 0", w.bounds.Y)
	}
	assertFraction(t, 1442, w.bounds, 1442.0/1920.0)

	// subsequent steps translate from the corrected position
	origin := w.bounds.TopLeft()
	c.HandleMove(platform.Point{X: 1452, Y: 52})
	want := origin.Add(platform.Point{X: 10, Y: 30})
	if got := w.bounds.TopLeft(); got != want {
		t.Fatalf("origin after restore drag = %+v, want %+v", got, want)
	}
}

func TestDragRestoreDeferredUntilLayoutNotification(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)
	w.applyState(platform.StateMaximized)
	c.HandleStateChanged(platform.StateMaximized)
	w.place(&fakeControl{id: titlebarID}, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 48})
	w.deferState = true

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 480, Y: 20})
	c.HandleMove(platform.Point{X: 480, Y: 22})
	if !c.RestorePending() {
		t.Fatalf("expected a pending restore correction")
	}

	// further steps only track the pointer
	c.HandleMove(platform.Point{X: 500, Y: 40})
	if len(w.moves) != 0 || len(w.stateRequests) != 1 {
		t.Fatalf("pending restore issued moves=%v states=%v", w.moves, w.stateRequests)
	}

	// host finishes the transition asynchronously
	w.applyState(*w.pendingState)
	w.pendingState = nil
	c.HandleStateChanged(platform.StateNormal)

	if c.RestorePending() {
		t.Fatalf("restore correction not applied")
	}
	last, ok := w.lastMove()
	if !ok {
		t.Fatalf("no move after restore")
	}
	if last.Y != 0 {
		t.Fatalf("restored top = %d, want 0", last.Y)
	}
	assertFraction(t, 500, w.bounds, 480.0/1920.0)
}

func TestDragRestoreCorrectionSurvivesRelease(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)
	w.applyState(platform.StateMaximized)
	c.HandleStateChanged(platform.StateMaximized)
	w.place(&fakeControl{id: titlebarID}, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 48})
	w.deferState = true

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 960, Y: 10})
	c.HandleMove(platform.Point{X: 962, Y: 12})
	c.HandleRelease(platform.ButtonLeft, platform.Point{X: 962, Y: 12})

	w.applyState(*w.pendingState)
	c.HandleGeometryChanged(w.bounds)

	if c.RestorePending() {
		t.Fatalf("restore correction not applied after release")
	}
	assertFraction(t, 962, w.bounds, 962.0/1920.0)
}

func TestDragRestoreWithSynchronousHost(t *testing.T) {
	base, _, _, _, _ := newTestWindow()
	base.applyState(platform.StateMaximized)
	base.place(&fakeControl{id: titlebarID}, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 48})
	base.deferState = true
	w := &syncWindow{fakeWindow: base}
	c := newTestController(w, true)
	w.handler = c

	c.HandlePress(platform.ButtonLeft, platform.Point{X: 1800, Y: 20})
	c.HandleMove(platform.Point{X: 1801, Y: 20})

	if w.syncCalls != 1 {
		t.Fatalf("Sync called %d times, want 1", w.syncCalls)
	}
	if c.RestorePending() {
		t.Fatalf("restore correction still pending after sync")
	}
	if c.State() != platform.StateNormal {
		t.Fatalf("controller state = %v, want normal", c.State())
	}
	assertFraction(t, 1801, base.bounds, 1801.0/1920.0)
}

func TestDoubleClickTogglesMaximize(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	label := platform.Point{X: 200, Y: 120}
	c.HandleDoubleClick(platform.ButtonLeft, label)
	if w.state != platform.StateMaximized {
		t.Fatalf("state after double-click = %v, want maximized", w.state)
	}

	// maximized layout: the label moved with the window
	w.place(&fakeControl{id: titleID}, platform.Rect{X: 36, Y: 8, Width: 300, Height: 32})
	c.HandleDoubleClick(platform.ButtonLeft, platform.Point{X: 100, Y: 20})
	if w.state != platform.StateNormal {
		t.Fatalf("state after second double-click = %v, want normal", w.state)
	}
}

func TestDoubleClickIgnored(t *testing.T) {
	tests := []struct {
		name   string
		p      platform.Point
		resize bool
	}{
		{"on button", platform.Point{X: 670, Y: 120}, true},
		{"on content", platform.Point{X: 400, Y: 300}, true},
		{"outside window", platform.Point{X: 5, Y: 5}, true},
		{"resize disabled", platform.Point{X: 200, Y: 120}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _, _, _ := newTestWindow()
			c := newTestController(w, true)
			c.SetResizeEnabled(tt.resize)

			c.HandleDoubleClick(platform.ButtonLeft, tt.p)
			if len(w.stateRequests) != 0 {
				t.Fatalf("state requests = %v, want none", w.stateRequests)
			}
		})
	}
}

func TestPaintEnablesTrackingOnce(t *testing.T) {
	w, titlebar, title, button, content := newTestWindow()
	c := newTestController(w, true)

	c.HandlePaint()
	c.HandlePaint()

	for _, ctl := range []*fakeControl{&w.fakeControl, titlebar, title, button, content} {
		if ctl.trackingCalls != 1 || !ctl.trackingActive {
			t.Fatalf("control %d: tracking calls=%d active=%v, want 1/true", ctl.id, ctl.trackingCalls, ctl.trackingActive)
		}
	}
}

func TestPaintTrackingErrorDoesNotStopTraversal(t *testing.T) {
	w, titlebar, title, _, content := newTestWindow()
	titlebar.trackingErr = errors.New("bad window")
	c := newTestController(w, true)

	c.HandlePaint()
	if !title.trackingActive || !content.trackingActive {
		t.Fatalf("traversal stopped at failing control")
	}
}

func TestMinimizeRemembersMaximized(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.ToggleMaximize()
	c.HandleStateChanged(w.state)
	c.Minimize()
	c.HandleStateChanged(w.state)
	if w.state != platform.StateMinimized {
		t.Fatalf("state = %v, want minimized", w.state)
	}

	c.Restore()
	if w.state != platform.StateMaximized {
		t.Fatalf("restore from minimized = %v, want maximized", w.state)
	}
}

func TestMinimizeFromNormalRestoresNormal(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.Minimize()
	c.HandleStateChanged(w.state)
	c.Restore()
	if w.state != platform.StateNormal {
		t.Fatalf("restore from minimized = %v, want normal", w.state)
	}
}

func TestToggleMaximizeIgnoredWhenNotResizable(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)
	c.SetResizeEnabled(false)

	c.ToggleMaximize()
	if len(w.stateRequests) != 0 {
		t.Fatalf("state requests = %v, want none", w.stateRequests)
	}
	if c.ResizeEnabled() {
		t.Fatalf("ResizeEnabled() = true after disabling")
	}
}

func TestMaximize(t *testing.T) {
	w, _, _, _, _ := newTestWindow()
	c := newTestController(w, true)

	c.Maximize()
	c.Maximize()
	if len(w.stateRequests) != 1 || w.state != platform.StateMaximized {
		t.Fatalf("requests=%v state=%v, want one maximize", w.stateRequests, w.state)
	}

	c.SetResizeEnabled(false)
	w.applyState(platform.StateNormal)
	c.Maximize()
	if len(w.stateRequests) != 1 {
		t.Fatalf("maximize with resizing disabled issued %v", w.stateRequests)
	}
}
