package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	cursorMu sync.Mutex
	cursors  map[uint16]xproto.Cursor
}

// NewConnection establishes a connection to the X11 server
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	// Initialize keybind module (required for window shortcuts)
	keybind.Initialize(xu)

	return &Connection{
		XUtil:   xu,
		Root:    xu.RootWin(),
		cursors: make(map[uint16]xproto.Cursor),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops the event loop after the current callback returns.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.cursorMu.Lock()
	for _, cur := range c.cursors {
		xproto.FreeCursor(c.XUtil.Conn(), cur)
	}
	c.cursors = nil
	c.cursorMu.Unlock()

	c.XUtil.Conn().Close()
}

// Atom interns name.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return atom, nil
}

// Cursor returns the font cursor for an xcursor glyph, creating it on first use.
func (c *Connection) Cursor(glyph uint16) (xproto.Cursor, error) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()

	if cur, ok := c.cursors[glyph]; ok {
		return cur, nil
	}
	cur, err := xcursor.CreateCursor(c.XUtil, glyph)
	if err != nil {
		return 0, fmt.Errorf("failed to create cursor %d: %w", glyph, err)
	}
	if c.cursors == nil {
		c.cursors = make(map[uint16]xproto.Cursor)
	}
	c.cursors[glyph] = cur
	return cur, nil
}

// SetCursor sets the cursor shown while the pointer is over win.
func (c *Connection) SetCursor(win xproto.Window, cursor xproto.Cursor) error {
	return xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		win,
		xproto.CwCursor,
		[]uint32{uint32(cursor)},
	).Check()
}
