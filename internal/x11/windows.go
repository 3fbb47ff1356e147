package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateHidden        = "_NET_WM_STATE_HIDDEN"

	// source indication for EWMH client messages: normal application
	sourceApplication = 1
)

// CreateWindow creates an unmapped window under parent with a solid
// background and the given event mask.
func (c *Connection) CreateWindow(parent xproto.Window, x, y, width, height int, background uint32, events int) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(parent, x, y, max(width, 1), max(height, 1),
		xproto.CwBackPixel|xproto.CwEventMask,
		background, uint32(events))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	return win, nil
}

// RemoveDecorations asks the window manager not to draw a border or title
// bar around win.
func (c *Connection) RemoveDecorations(win xproto.Window) error {
	hints := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}
	if err := motif.WmHintsSet(c.XUtil, win, hints); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	return nil
}

// SetIdentity sets the window title, WM_CLASS and the delete-window protocol.
func (c *Connection) SetIdentity(win xproto.Window, title, instance, class string) error {
	if err := ewmh.WmNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, win, title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	if err := icccm.WmClassSet(c.XUtil, win, &icccm.WmClass{Instance: instance, Class: class}); err != nil {
		return fmt.Errorf("failed to set WM_CLASS: %w", err)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, win, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	return nil
}

// SetSizeHints publishes the initial position and the minimum size.
func (c *Connection) SetSizeHints(win xproto.Window, x, y, minWidth, minHeight int) error {
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintUSPosition | icccm.SizeHintPMinSize,
		X:         x,
		Y:         y,
		MinWidth:  uint(max(minWidth, 1)),
		MinHeight: uint(max(minHeight, 1)),
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, win, hints); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	return nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// WindowGeometry returns the window's outer rectangle in root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// WindowStates reports whether the window manager has the window maximized
// in both directions and whether it is hidden (minimized).
func (c *Connection) WindowStates(windowID xproto.Window) (maximized, hidden bool, err error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, false, err
	}

	hasMaxH := false
	hasMaxV := false
	for _, state := range states {
		switch state {
		case stateMaximizedHorz:
			hasMaxH = true
		case stateMaximizedVert:
			hasMaxV = true
		case stateHidden:
			hidden = true
		}
	}
	return hasMaxH && hasMaxV, hidden, nil
}

// RequestMaximized adds or removes both maximized states in one request.
func (c *Connection) RequestMaximized(windowID xproto.Window, maximized bool) error {
	action := ewmh.StateRemove
	if maximized {
		action = ewmh.StateAdd
	}
	err := ewmh.WmStateReqExtra(c.XUtil, windowID, action,
		stateMaximizedVert, stateMaximizedHorz, sourceApplication)
	if err != nil {
		return fmt.Errorf("failed to request maximize=%t: %w", maximized, err)
	}
	return nil
}

// Iconify asks the window manager to minimize a window via WM_CHANGE_STATE.
func (c *Connection) Iconify(windowID xproto.Window) error {
	changeState, err := c.Atom("WM_CHANGE_STATE")
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   changeState,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Activate maps and raises a window, bringing it back from minimized.
func (c *Connection) Activate(windowID xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
		return fmt.Errorf("failed to map window: %w", err)
	}
	if err := ewmh.ActiveWindowReq(c.XUtil, windowID); err != nil {
		return fmt.Errorf("failed to activate window: %w", err)
	}
	return nil
}

// SendToSelf delivers a client message of the given type to windowID. It
// is safe to call from any goroutine and wakes the event loop.
func (c *Connection) SendToSelf(windowID xproto.Window, msgType xproto.Atom, data ...uint32) error {
	payload := make([]uint32, 5)
	copy(payload, data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   msgType,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}
