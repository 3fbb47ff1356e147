package x11

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/1broseidon/chromeless/internal/frameless"
	"github.com/1broseidon/chromeless/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	topLevelEvents = xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskExposure |
		xproto.EventMaskStructureNotify |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskFocusChange

	childEvents = xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskExposure

	actionAtomName = "_CHROMELESS_ACTION"
)

// WindowOptions configures the top-level frameless window.
type WindowOptions struct {
	Title          string
	Bounds         platform.Rect
	MinSize        platform.Size
	TitlebarHeight int
	Maximized      bool

	DoubleClickInterval time.Duration
	DoubleClickDistance int
}

// Window is an undecorated top-level X11 window whose titlebar is built
// from child windows. It implements platform.Window.
//
// Everything except Post runs on the event loop goroutine.
type Window struct {
	conn   *Connection
	win    *xwindow.Window
	logger *slog.Logger
	opts   WindowOptions

	root        *control
	titlebar    *control
	icon        *control
	title       *control
	content     *control
	minimize    *control
	maximize    *control
	closeButton *control

	bounds platform.Rect
	state  platform.WindowState

	handler  platform.EventHandler
	clicks   *frameless.ClickDetector
	onAction func(code uint32)
	onClose  []func()

	protocolsAtom xproto.Atom
	deleteAtom    xproto.Atom
	actionAtom    xproto.Atom
	netStateAtom  xproto.Atom

	closed bool
}

var _ platform.Window = (*Window)(nil)

// controlFactory creates the X window backing a control. A nil window with
// a nil error yields a detached control.
type controlFactory func(parent *control, r platform.Rect, bg color.RGBA) (*xwindow.Window, error)

// NewWindow creates the frameless window and its chrome. The window is not
// mapped until Show.
func NewWindow(conn *Connection, opts WindowOptions, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := opts.Bounds
	if b.Empty() {
		return nil, fmt.Errorf("invalid window geometry %dx%d", b.Width, b.Height)
	}

	w := newWindow(opts, logger)
	w.conn = conn

	atoms := []struct {
		name string
		dst  *xproto.Atom
	}{
		{"WM_PROTOCOLS", &w.protocolsAtom},
		{"WM_DELETE_WINDOW", &w.deleteAtom},
		{"_NET_WM_STATE", &w.netStateAtom},
		{actionAtomName, &w.actionAtom},
	}
	for _, a := range atoms {
		atom, err := conn.Atom(a.name)
		if err != nil {
			return nil, err
		}
		*a.dst = atom
	}

	top, err := conn.CreateWindow(conn.Root, b.X, b.Y, b.Width, b.Height, pixel(contentColor), topLevelEvents)
	if err != nil {
		return nil, err
	}
	w.win = top
	w.root.win = top
	w.root.id = platform.ControlID(top.Id)

	setup := []func() error{
		func() error { return conn.RemoveDecorations(top.Id) },
		func() error { return conn.SetIdentity(top.Id, opts.Title, "chromeless", "Chromeless") },
		func() error { return conn.SetSizeHints(top.Id, b.X, b.Y, opts.MinSize.Width, opts.MinSize.Height) },
		func() error { return w.buildChrome(w.createXWindow) },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			top.Destroy()
			return nil, err
		}
	}

	w.connectControl(w.root)
	w.connectTopLevel()
	return w, nil
}

func newWindow(opts WindowOptions, logger *slog.Logger) *Window {
	b := opts.Bounds
	return &Window{
		logger: logger,
		opts:   opts,
		bounds: b,
		state:  platform.StateNormal,
		clicks: frameless.NewClickDetector(opts.DoubleClickInterval, opts.DoubleClickDistance),
		root: &control{
			rect:       platform.Rect{Width: b.Width, Height: b.Height},
			events:     topLevelEvents,
			visible:    true,
			background: contentColor,
		},
	}
}

// buildChrome creates the titlebar controls and the content surface.
func (w *Window) buildChrome(create controlFactory) error {
	w.root.host = w
	l := layoutChrome(w.bounds.Width, w.bounds.Height, w.opts.TitlebarHeight, true)
	nextID := platform.ControlID(w.root.id) + 1

	add := func(parent *control, r platform.Rect, bg color.RGBA, glyph platform.Glyph) (*control, error) {
		xw, err := create(parent, r, bg)
		if err != nil {
			return nil, err
		}
		c := &control{
			host:       w,
			win:        xw,
			rect:       r,
			parent:     parent,
			events:     childEvents,
			visible:    true,
			background: bg,
			glyph:      glyph,
		}
		if xw != nil {
			c.id = platform.ControlID(xw.Id)
		} else {
			c.id = nextID
			nextID++
		}
		parent.children = append(parent.children, c)
		return c, nil
	}

	var err error
	if w.titlebar, err = add(w.root, l.titlebar, titlebarColor, platform.GlyphNone); err != nil {
		return err
	}
	if w.icon, err = add(w.titlebar, l.icon, titlebarColor, platform.GlyphAppIcon); err != nil {
		return err
	}
	if w.title, err = add(w.titlebar, l.title, titlebarColor, platform.GlyphNone); err != nil {
		return err
	}
	if w.minimize, err = add(w.titlebar, l.minimize, titlebarColor, platform.GlyphMinimize); err != nil {
		return err
	}
	if w.maximize, err = add(w.titlebar, l.maximize, titlebarColor, platform.GlyphMaximize); err != nil {
		return err
	}
	if w.closeButton, err = add(w.titlebar, l.close, titlebarColor, platform.GlyphClose); err != nil {
		return err
	}
	if w.content, err = add(w.root, l.content, contentColor, platform.GlyphNone); err != nil {
		return err
	}
	return nil
}

func (w *Window) createXWindow(parent *control, r platform.Rect, bg color.RGBA) (*xwindow.Window, error) {
	xw, err := w.conn.CreateWindow(parent.win.Id,
		r.X-parent.rect.X, r.Y-parent.rect.Y, r.Width, r.Height,
		pixel(bg), childEvents)
	if err != nil {
		return nil, err
	}
	xw.Map()
	return xw, nil
}

// Chrome returns the titlebar controls for the shell to wire.
func (w *Window) Chrome() platform.Chrome {
	return platform.Chrome{
		Titlebar: w.titlebar,
		Icon:     w.icon,
		Title:    w.title,
		Content:  w.content,
		Minimize: w.minimize,
		Maximize: w.maximize,
		Close:    w.closeButton,
	}
}

// XWindow returns the top-level X window id.
func (w *Window) XWindow() xproto.Window {
	return w.win.Id
}

// SetHandler sets the receiver of pointer and window events.
func (w *Window) SetHandler(h platform.EventHandler) {
	w.handler = h
}

// OnAction registers the callback for codes sent with Post.
func (w *Window) OnAction(fn func(code uint32)) {
	w.onAction = fn
}

// OnClose registers a callback run once when the window closes.
func (w *Window) OnClose(fn func()) {
	w.onClose = append(w.onClose, fn)
}

// Post queues an action code for delivery on the event loop. Safe to call
// from any goroutine.
func (w *Window) Post(code uint32) error {
	if err := w.conn.SendToSelf(w.win.Id, w.actionAtom, code); err != nil {
		return fmt.Errorf("failed to post action %d: %w", code, err)
	}
	return nil
}

// Show maps the window, maximized if requested in the options.
func (w *Window) Show() error {
	if w.opts.Maximized {
		err := ewmh.WmStateSet(w.conn.XUtil, w.win.Id, []string{stateMaximizedVert, stateMaximizedHorz})
		if err != nil {
			w.logger.Warn("failed to set initial maximized state", "error", err)
		}
	}
	for _, c := range []*control{w.minimize, w.maximize, w.closeButton} {
		if err := w.setButtonCursor(c); err != nil {
			w.logger.Debug("button cursor not set", "error", err)
		}
	}
	w.win.Map()
	return nil
}

func (w *Window) setButtonCursor(c *control) error {
	cur, err := w.conn.Cursor(xcursor.Hand2)
	if err != nil {
		return err
	}
	return w.conn.SetCursor(c.win.Id, cur)
}

func (w *Window) connectControl(c *control) {
	if c.win == nil {
		return
	}
	xu := w.conn.XUtil
	id := c.win.Id

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		w.onPress(c, ev.Detail, platform.Point{X: int(ev.RootX), Y: int(ev.RootY)}, ev.Time)
	}).Connect(xu, id)
	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		w.onRelease(c, ev.Detail, platform.Point{X: int(ev.RootX), Y: int(ev.RootY)})
	}).Connect(xu, id)
	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		if w.handler != nil {
			w.handler.HandleMove(platform.Point{X: int(ev.RootX), Y: int(ev.RootY)})
		}
	}).Connect(xu, id)
	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		w.onExpose(c, int(ev.Count))
	}).Connect(xu, id)

	for _, child := range c.children {
		w.connectControl(child)
	}
}

func (w *Window) connectTopLevel() {
	xu := w.conn.XUtil
	id := w.win.Id

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		w.onConfigure()
	}).Connect(xu, id)
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == w.netStateAtom {
			w.refreshState()
		}
	}).Connect(xu, id)
	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		// grabs (our own shortcuts among them) and focus moving into a
		// child are not focus loss
		if ev.Mode == xproto.NotifyModeGrab || ev.Mode == xproto.NotifyModeUngrab {
			return
		}
		if ev.Detail == xproto.NotifyDetailInferior {
			return
		}
		if w.handler != nil {
			w.handler.HandleFocusLost()
		}
	}).Connect(xu, id)
	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		w.onClientMessage(ev.Type, ev.Data.Data32)
	}).Connect(xu, id)
}

func (w *Window) onPress(c *control, detail xproto.Button, p platform.Point, at xproto.Timestamp) {
	button := mouseButton(detail)
	if button == platform.ButtonNone {
		return
	}
	if c.clickable {
		c.pressed = button == platform.ButtonLeft
	}
	if w.handler == nil {
		return
	}

	if button == platform.ButtonLeft && w.clicks.Press(c.id, button, p, time.Duration(at)*time.Millisecond) {
		w.handler.HandleDoubleClick(button, p)
		return
	}
	w.handler.HandlePress(button, p)
}

func (w *Window) onRelease(c *control, detail xproto.Button, p platform.Point) {
	button := mouseButton(detail)
	if button == platform.ButtonNone {
		return
	}

	click := c.clickable && c.pressed && button == platform.ButtonLeft &&
		c.rect.Contains(p.Sub(w.bounds.TopLeft()))
	c.pressed = false

	if w.handler != nil {
		w.handler.HandleRelease(button, p)
	}
	if click && c.onClick != nil {
		c.onClick()
	}
}

func (w *Window) onExpose(c *control, remaining int) {
	if remaining != 0 {
		return
	}
	if c.glyph != platform.GlyphNone {
		c.repaint()
	}
	if w.handler != nil {
		w.handler.HandlePaint()
	}
}

func (w *Window) onConfigure() {
	x, y, width, height, err := w.conn.WindowGeometry(w.win.Id)
	if err != nil {
		w.logger.Debug("geometry query failed", "error", err)
		return
	}
	r := platform.Rect{X: x, Y: y, Width: width, Height: height}
	w.setBounds(r)
	if w.handler != nil {
		w.handler.HandleGeometryChanged(r)
	}
}

func (w *Window) onClientMessage(msgType xproto.Atom, data []uint32) {
	if len(data) == 0 {
		return
	}
	switch msgType {
	case w.protocolsAtom:
		if xproto.Atom(data[0]) == w.deleteAtom {
			w.logger.Info("close requested by window manager")
			_ = w.Close()
		}
	case w.actionAtom:
		if w.onAction != nil {
			w.onAction(data[0])
		}
	}
}

func (w *Window) refreshState() {
	maximized, hidden, err := w.conn.WindowStates(w.win.Id)
	if err != nil {
		w.logger.Debug("window state query failed", "error", err)
		return
	}
	w.applyState(stateFromFlags(maximized, hidden))
}

func (w *Window) applyState(s platform.WindowState) {
	if s == w.state {
		return
	}
	w.state = s
	if w.handler != nil {
		w.handler.HandleStateChanged(s)
	}
}

// setBounds records the window geometry and lays the chrome out again when
// the size changed.
func (w *Window) setBounds(r platform.Rect) {
	resized := r.Width != w.bounds.Width || r.Height != w.bounds.Height
	w.bounds = r
	if resized {
		w.relayout()
	}
}

func (w *Window) relayout() {
	if w.titlebar == nil {
		return
	}
	l := layoutChrome(w.bounds.Width, w.bounds.Height, w.opts.TitlebarHeight, w.maximize.visible)
	w.root.rect = platform.Rect{Width: w.bounds.Width, Height: w.bounds.Height}
	w.titlebar.setRect(l.titlebar)
	w.icon.setRect(l.icon)
	w.title.setRect(l.title)
	w.minimize.setRect(l.minimize)
	if w.maximize.visible {
		w.maximize.setRect(l.maximize)
	}
	w.closeButton.setRect(l.close)
	w.content.setRect(l.content)
}

func (w *Window) ID() platform.ControlID {
	return w.root.id
}

func (w *Window) Children() []platform.Control {
	return w.root.Children()
}

func (w *Window) SetMouseTracking(enabled bool) error {
	return w.root.SetMouseTracking(enabled)
}

func (w *Window) Bounds() platform.Rect {
	return w.bounds
}

func (w *Window) MinimumSize() platform.Size {
	return w.opts.MinSize
}

func (w *Window) SetBounds(r platform.Rect) error {
	if r.Empty() {
		return fmt.Errorf("invalid window geometry %dx%d", r.Width, r.Height)
	}
	if err := w.conn.MoveResizeWindow(w.win.Id, r.X, r.Y, r.Width, r.Height); err != nil {
		return err
	}
	w.setBounds(r)
	return nil
}

func (w *Window) Move(p platform.Point) error {
	return w.SetBounds(platform.Rect{X: p.X, Y: p.Y, Width: w.bounds.Width, Height: w.bounds.Height})
}

func (w *Window) State() platform.WindowState {
	return w.state
}

// SetState asks the window manager for a state change. The new state is
// reported later through a _NET_WM_STATE property change.
func (w *Window) SetState(s platform.WindowState) error {
	switch s {
	case platform.StateMinimized:
		return w.conn.Iconify(w.win.Id)
	case platform.StateMaximized, platform.StateNormal:
		if w.state == platform.StateMinimized {
			if err := w.conn.Activate(w.win.Id); err != nil {
				return err
			}
		}
		return w.conn.RequestMaximized(w.win.Id, s == platform.StateMaximized)
	default:
		return fmt.Errorf("unknown window state %d", s)
	}
}

func (w *Window) SetCursor(shape platform.CursorShape) error {
	cur, err := w.conn.Cursor(cursorGlyph(shape))
	if err != nil {
		return err
	}
	return w.conn.SetCursor(w.win.Id, cur)
}

// ControlAt returns the deepest control under a root-coordinate point.
func (w *Window) ControlAt(p platform.Point) (platform.Control, bool) {
	hit := w.root.hitTest(p.Sub(w.bounds.TopLeft()))
	if hit == nil {
		return nil, false
	}
	if hit == w.root {
		return w, true
	}
	return hit, true
}

// Close destroys the window and stops the event loop.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	for _, fn := range w.onClose {
		fn()
	}
	w.root.release()
	w.win.Destroy()
	w.conn.Quit()
	return nil
}

func mouseButton(detail xproto.Button) platform.MouseButton {
	switch detail {
	case xproto.ButtonIndex1:
		return platform.ButtonLeft
	case xproto.ButtonIndex2:
		return platform.ButtonMiddle
	case xproto.ButtonIndex3:
		return platform.ButtonRight
	default:
		// 4 and 5 are the scroll wheel
		return platform.ButtonNone
	}
}

func stateFromFlags(maximized, hidden bool) platform.WindowState {
	switch {
	case hidden:
		return platform.StateMinimized
	case maximized:
		return platform.StateMaximized
	default:
		return platform.StateNormal
	}
}

func cursorGlyph(shape platform.CursorShape) uint16 {
	switch shape {
	case platform.CursorSizeHorizontal:
		return xcursor.RightSide
	case platform.CursorSizeVertical:
		return xcursor.BottomSide
	case platform.CursorSizeFDiag:
		return xcursor.BottomRightCorner
	case platform.CursorSizeBDiag:
		return xcursor.BottomLeftCorner
	case platform.CursorPointingHand:
		return xcursor.Hand2
	default:
		return xcursor.LeftPtr
	}
}
