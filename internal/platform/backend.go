package platform

// Point is a position in global (screen) coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Rect describes a rectangular region in screen coordinates.
// Right and Bottom are exclusive.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RectFromEdges builds a rect from its four edges.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// TopLeft returns the origin of the rect.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// Empty reports whether the rect has non-positive dimensions.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies within the rect.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.Y >= r.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// WindowState is the host window's display state.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMaximized
	StateMinimized
)

// String returns the string representation of the state
func (s WindowState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// CursorShape is the pointer shape shown over the window.
type CursorShape int

const (
	CursorArrow CursorShape = iota
	CursorSizeHorizontal
	CursorSizeVertical
	// CursorSizeFDiag is the top-left/bottom-right diagonal.
	CursorSizeFDiag
	// CursorSizeBDiag is the bottom-left/top-right diagonal.
	CursorSizeBDiag
	CursorPointingHand
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// ControlID is an opaque, host-assigned control identity.
type ControlID uint32

// Control is a node in the host's tree of controls.
type Control interface {
	ID() ControlID
	Children() []Control
	SetMouseTracking(enabled bool) error
}

// Button is a clickable control carrying a glyph.
type Button interface {
	Control
	OnClick(fn func())
	SetGlyph(g Glyph) error
	SetVisible(visible bool) error
}

// Window abstracts the host operations the frameless controller needs.
type Window interface {
	Control
	// Bounds returns the outer rectangle in global coordinates.
	Bounds() Rect
	MinimumSize() Size
	SetBounds(r Rect) error
	Move(p Point) error
	State() WindowState
	// SetState requests a state transition. Hosts may apply it asynchronously
	// and report the result through EventHandler.HandleStateChanged.
	SetState(s WindowState) error
	SetCursor(shape CursorShape) error
	// ControlAt returns the deepest control under a global point.
	ControlAt(p Point) (Control, bool)
	Close() error
}

// Syncer is implemented by hosts that can synchronously deliver pending
// layout and state notifications.
type Syncer interface {
	Sync() error
}

// EventHandler receives host events on the UI thread.
type EventHandler interface {
	HandlePress(button MouseButton, p Point)
	HandleMove(p Point)
	HandleRelease(button MouseButton, p Point)
	HandleDoubleClick(button MouseButton, p Point)
	HandleStateChanged(s WindowState)
	HandleGeometryChanged(r Rect)
	HandlePaint()
	HandleFocusLost()
}
