package frameless

import (
	"log/slog"
	"math"

	"github.com/1broseidon/chromeless/internal/platform"
)

// Config is the controller's interaction policy.
type Config struct {
	// TitlebarControls are the controls that act as drag handles and accept
	// double-click-to-maximize.
	TitlebarControls []platform.ControlID
	// OnlyMoveFromTitlebar disables dragging the window from anywhere else.
	OnlyMoveFromTitlebar bool
	ResizeEnabled        bool
	// BorderMargin is the resize band width in pixels.
	BorderMargin int
}

// DefaultConfig returns the policy used when nothing else is configured:
// drag from the titlebar only, resizable, 4px margin.
func DefaultConfig() Config {
	return Config{
		OnlyMoveFromTitlebar: true,
		ResizeEnabled:        true,
		BorderMargin:         DefaultBorderMargin,
	}
}

// interaction is the per press/release cycle drag state.
type interaction struct {
	leftDown      bool
	inTitlebar    bool
	pressPos      platform.Point
	originAtPress platform.Point
}

// restoreCorrection is a pending repositioning after un-maximizing by drag.
type restoreCorrection struct {
	fraction  float64
	pointer   platform.Point
	top       int
	fromWidth int
}

// Controller interprets pointer events on a frameless window and turns them
// into move, resize and maximize/restore requests on the host window.
// All methods must be called from the host's UI thread.
type Controller struct {
	window platform.Window
	logger *slog.Logger

	titlebar             map[platform.ControlID]struct{}
	onlyMoveFromTitlebar bool
	resizeEnabled        bool
	margin               int

	drag    interaction
	hover   Region
	cursor  platform.CursorShape
	restore *restoreCorrection

	trackingInstalled bool
	states            *StateMachine
}

var _ platform.EventHandler = (*Controller)(nil)

// New creates a controller for window.
func New(window platform.Window, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	margin := cfg.BorderMargin
	if margin <= 0 {
		margin = DefaultBorderMargin
	}

	c := &Controller{
		window:               window,
		logger:               logger,
		titlebar:             make(map[platform.ControlID]struct{}),
		onlyMoveFromTitlebar: cfg.OnlyMoveFromTitlebar,
		resizeEnabled:        cfg.ResizeEnabled,
		margin:               margin,
		hover:                RegionCenter,
		cursor:               platform.CursorArrow,
		states:               NewStateMachine(window.State()),
	}
	for _, id := range cfg.TitlebarControls {
		c.titlebar[id] = struct{}{}
	}
	return c
}

// SetTitlebarControls replaces the titlebar control set.
func (c *Controller) SetTitlebarControls(controls ...platform.Control) {
	c.titlebar = make(map[platform.ControlID]struct{}, len(controls))
	for _, ctl := range controls {
		if ctl != nil {
			c.titlebar[ctl.ID()] = struct{}{}
		}
	}
}

// SetOnlyMoveFromTitlebar restricts window dragging to the titlebar controls.
func (c *Controller) SetOnlyMoveFromTitlebar(only bool) {
	c.onlyMoveFromTitlebar = only
}

// SetResizeEnabled enables or disables border resizing, double-click
// maximize and the maximize toggle.
func (c *Controller) SetResizeEnabled(enabled bool) {
	c.resizeEnabled = enabled
	if !enabled {
		c.hover = RegionCenter
		c.setCursor(platform.CursorArrow)
	}
}

// ResizeEnabled reports whether border resizing is enabled.
func (c *Controller) ResizeEnabled() bool {
	return c.resizeEnabled
}

// Hover returns the current hover region.
func (c *Controller) Hover() Region {
	return c.hover
}

// Dragging reports whether the left button is logically held.
func (c *Controller) Dragging() bool {
	return c.drag.leftDown
}

// RestorePending reports whether a drag-restore repositioning is waiting for
// the host to report the restored geometry.
func (c *Controller) RestorePending() bool {
	return c.restore != nil
}

// State returns the last window state reported by the host.
func (c *Controller) State() platform.WindowState {
	return c.states.Current()
}

// RestoreTarget returns the state a minimized window comes back to.
func (c *Controller) RestoreTarget() platform.WindowState {
	return c.states.RestoreTarget()
}

func (c *Controller) inTitlebar(p platform.Point) bool {
	ctl, ok := c.window.ControlAt(p)
	if !ok || ctl == nil {
		return false
	}
	_, member := c.titlebar[ctl.ID()]
	return member
}

func (c *Controller) canTrackBorders() bool {
	return c.resizeEnabled && c.window.State() == platform.StateNormal
}

// HandlePress starts a drag cycle on a left-button press.
func (c *Controller) HandlePress(button platform.MouseButton, p platform.Point) {
	if button != platform.ButtonLeft {
		return
	}

	c.drag = interaction{
		leftDown:      true,
		pressPos:      p,
		originAtPress: c.window.Bounds().TopLeft(),
		inTitlebar:    c.inTitlebar(p),
	}
	c.restore = nil

	if c.canTrackBorders() {
		c.hover = Classify(c.window.Bounds(), p, c.margin)
	} else {
		c.hover = RegionCenter
	}

	c.logger.Debug("press",
		"x", p.X, "y", p.Y,
		"region", c.hover.String(),
		"titlebar", c.drag.inTitlebar)
}

// HandleMove updates the hover cursor, or drives a move/resize step while
// the left button is held.
func (c *Controller) HandleMove(p platform.Point) {
	if !c.drag.leftDown {
		if c.canTrackBorders() {
			c.hover = Classify(c.window.Bounds(), p, c.margin)
			c.setCursor(c.hover.Cursor())
		}
		return
	}

	if c.hover != RegionCenter && c.resizeEnabled {
		c.resizeStep(p)
		return
	}
	if c.hover != RegionCenter {
		return
	}

	if c.restore != nil {
		c.restore.pointer = p
		c.applyRestore(false)
		return
	}

	maximized := c.window.State() == platform.StateMaximized
	switch {
	case c.drag.inTitlebar && maximized:
		c.beginRestore(p)
	case c.drag.inTitlebar:
		c.moveStep(p)
	case !c.onlyMoveFromTitlebar && !maximized:
		c.moveStep(p)
	}
}

// HandleRelease ends the drag cycle. Any button counts.
func (c *Controller) HandleRelease(_ platform.MouseButton, _ platform.Point) {
	c.endDrag()
}

// HandleFocusLost ends the drag cycle as if the button had been released.
func (c *Controller) HandleFocusLost() {
	if c.drag.leftDown {
		c.logger.Debug("drag cancelled on focus loss")
	}
	c.endDrag()
}

func (c *Controller) endDrag() {
	c.drag.leftDown = false
	c.drag.inTitlebar = false
}

// HandleDoubleClick toggles maximize when the click lands on a titlebar
// control and resizing is enabled.
func (c *Controller) HandleDoubleClick(_ platform.MouseButton, p platform.Point) {
	if !c.resizeEnabled {
		return
	}
	if !c.inTitlebar(p) {
		return
	}
	target := platform.StateMaximized
	if c.window.State() == platform.StateMaximized {
		target = platform.StateNormal
	}
	c.requestState(target)
}

// HandlePaint installs pointer tracking on the whole control tree the first
// time the window paints.
func (c *Controller) HandlePaint() {
	if c.trackingInstalled {
		return
	}
	c.trackingInstalled = true

	n, err := EnableTracking(c.window)
	if err != nil {
		c.logger.Warn("failed to enable pointer tracking", "controls", n, "error", err)
		return
	}
	c.logger.Debug("pointer tracking enabled", "controls", n)
}

// HandleStateChanged records a host state transition.
func (c *Controller) HandleStateChanged(s platform.WindowState) {
	prev := c.states.Current()
	c.states.Observe(s)
	if prev != s {
		c.logger.Debug("window state changed", "from", prev.String(), "to", s.String())
	}
	if s != platform.StateNormal {
		c.hover = RegionCenter
		c.setCursor(platform.CursorArrow)
	}
	c.applyRestore(false)
}

// HandleGeometryChanged is the host's layout-ready notification.
func (c *Controller) HandleGeometryChanged(_ platform.Rect) {
	c.applyRestore(true)
}

// Minimize minimizes the window, remembering whether it was maximized.
func (c *Controller) Minimize() {
	c.states.Observe(c.window.State())
	c.requestState(c.states.Minimize())
}

// Maximize maximizes the window. Ignored when resizing is disabled.
func (c *Controller) Maximize() {
	if !c.resizeEnabled {
		return
	}
	c.states.Observe(c.window.State())
	if c.states.Current() == platform.StateMaximized {
		return
	}
	c.requestState(platform.StateMaximized)
}

// ToggleMaximize switches between maximized and normal. Ignored when
// resizing is disabled.
func (c *Controller) ToggleMaximize() {
	if !c.resizeEnabled {
		return
	}
	c.states.Observe(c.window.State())
	c.requestState(c.states.ToggleMaximize())
}

// Restore un-minimizes to the remembered state, or un-maximizes.
func (c *Controller) Restore() {
	c.states.Observe(c.window.State())
	c.requestState(c.states.Restore())
}

func (c *Controller) requestState(s platform.WindowState) {
	if err := c.window.SetState(s); err != nil {
		c.logger.Warn("window state request failed", "state", s.String(), "error", err)
		return
	}
	c.logger.Debug("window state requested", "state", s.String())
}

func (c *Controller) setCursor(shape platform.CursorShape) {
	if shape == c.cursor {
		return
	}
	if err := c.window.SetCursor(shape); err != nil {
		c.logger.Debug("set cursor failed", "error", err)
		return
	}
	c.cursor = shape
}

// resizeStep moves the edges selected by the hover region to p. Near edges
// (top, left) only follow the pointer while the window stays above its
// minimum size, so the window is never pushed away from the pointer; far
// edges (bottom, right) are clamped to the minimum.
func (c *Controller) resizeStep(p platform.Point) {
	b := c.window.Bounds()
	minSize := c.window.MinimumSize()
	minW := max(minSize.Width, 1)
	minH := max(minSize.Height, 1)

	left, top, right, bottom := b.Left(), b.Top(), b.Right(), b.Bottom()
	moveTop, moveBottom, moveLeft, moveRight := c.hover.edges()

	if moveTop && bottom-p.Y > minH {
		top = p.Y
	}
	if moveLeft && right-p.X > minW {
		left = p.X
	}
	if moveBottom {
		bottom = top + max(p.Y-top, minH)
	}
	if moveRight {
		right = left + max(p.X-left, minW)
	}

	next := platform.RectFromEdges(left, top, right, bottom)
	if next == b {
		return
	}
	c.writeBounds(next)
}

func (c *Controller) writeBounds(r platform.Rect) {
	if r.Empty() {
		c.logger.Debug("rejected empty geometry", "width", r.Width, "height", r.Height)
		return
	}
	if err := c.window.SetBounds(r); err != nil {
		c.logger.Warn("set geometry failed", "error", err)
	}
}

func (c *Controller) moveStep(p platform.Point) {
	origin := c.drag.originAtPress.Add(p.Sub(c.drag.pressPos))
	if origin == c.window.Bounds().TopLeft() {
		return
	}
	if err := c.window.Move(origin); err != nil {
		c.logger.Warn("move failed", "error", err)
	}
}

// beginRestore un-maximizes a window being dragged by its titlebar. The
// pointer keeps its horizontal fraction over the window once the host
// reports the restored geometry.
func (c *Controller) beginRestore(p platform.Point) {
	b := c.window.Bounds()
	if b.Empty() {
		return
	}
	fraction := float64(p.X-b.X) / float64(b.Width)
	fraction = math.Min(math.Max(fraction, 0), 1)

	c.restore = &restoreCorrection{
		fraction:  fraction,
		pointer:   p,
		top:       b.Y,
		fromWidth: b.Width,
	}
	c.logger.Debug("restoring from maximized by drag", "fraction", fraction)

	if err := c.window.SetState(platform.StateNormal); err != nil {
		c.logger.Warn("restore request failed", "error", err)
		c.restore = nil
		return
	}
	if syncer, ok := c.window.(platform.Syncer); ok {
		if err := syncer.Sync(); err != nil {
			c.logger.Debug("host sync failed, waiting for layout notification", "error", err)
		}
	}
	c.applyRestore(false)
}

// applyRestore repositions the window once the host reports Normal with
// the restored size. With force the width check is skipped; it is used for
// geometry notifications, which always carry the post-restore size.
func (c *Controller) applyRestore(force bool) {
	r := c.restore
	if r == nil || c.window.State() != platform.StateNormal {
		return
	}
	b := c.window.Bounds()
	if b.Empty() {
		return
	}
	if !force && b.Width == r.fromWidth {
		return
	}
	c.restore = nil

	offset := int(math.Round(float64(b.Width) * r.fraction))
	origin := platform.Point{X: r.pointer.X - offset, Y: r.top}

	if c.drag.leftDown && c.drag.inTitlebar {
		c.drag.originAtPress = origin
		c.drag.pressPos = r.pointer
	}

	c.logger.Debug("restore repositioned", "x", origin.X, "y", origin.Y, "width", b.Width)
	if err := c.window.Move(origin); err != nil {
		c.logger.Warn("move after restore failed", "error", err)
	}
}
