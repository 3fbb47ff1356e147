package x11

import (
	"fmt"
	"image"
	"image/color"

	"github.com/1broseidon/chromeless/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// control is one node of the window's control tree, backed by an X child
// window. Rects are in top-level window coordinates.
type control struct {
	host     *Window
	win      *xwindow.Window
	id       platform.ControlID
	rect     platform.Rect
	parent   *control
	children []*control

	events   int
	visible  bool
	tracking bool

	background color.RGBA
	glyph      platform.Glyph
	img        *xgraphics.Image

	clickable bool
	pressed   bool
	onClick   func()
}

var (
	_ platform.Control = (*control)(nil)
	_ platform.Button  = (*control)(nil)
)

func (c *control) ID() platform.ControlID {
	return c.id
}

func (c *control) Children() []platform.Control {
	out := make([]platform.Control, 0, len(c.children))
	for _, child := range c.children {
		out = append(out, child)
	}
	return out
}

// SetMouseTracking selects pointer motion on the control's window so the
// pointer is reported without a button held.
func (c *control) SetMouseTracking(enabled bool) error {
	c.tracking = enabled
	if c.win == nil {
		return nil
	}
	mask := c.events
	if enabled {
		mask |= xproto.EventMaskPointerMotion
	}
	if err := c.win.Listen(mask); err != nil {
		return fmt.Errorf("failed to select events on 0x%x: %w", c.win.Id, err)
	}
	return nil
}

func (c *control) OnClick(fn func()) {
	c.onClick = fn
	c.clickable = fn != nil
}

func (c *control) SetGlyph(g platform.Glyph) error {
	if g == c.glyph {
		return nil
	}
	c.glyph = g
	return c.paint()
}

func (c *control) SetVisible(visible bool) error {
	if c.visible == visible {
		return nil
	}
	c.visible = visible
	if c.host != nil {
		c.host.relayout()
	}
	if c.win == nil {
		return nil
	}
	if !visible {
		c.win.Unmap()
		return nil
	}
	c.win.Map()
	return c.paint()
}

// hitTest returns the deepest visible control containing p.
func (c *control) hitTest(p platform.Point) *control {
	if !c.visible || !c.rect.Contains(p) {
		return nil
	}
	for i := len(c.children) - 1; i >= 0; i-- {
		if hit := c.children[i].hitTest(p); hit != nil {
			return hit
		}
	}
	return c
}

// setRect repositions the control's window relative to its parent.
func (c *control) setRect(r platform.Rect) {
	if r == c.rect {
		return
	}
	resized := r.Width != c.rect.Width || r.Height != c.rect.Height
	c.rect = r
	if c.win == nil || c.parent == nil {
		return
	}

	x := r.X - c.parent.rect.X
	y := r.Y - c.parent.rect.Y
	c.win.MoveResize(x, y, max(r.Width, 1), max(r.Height, 1))
	if resized {
		_ = c.paint()
	}
}

// paint rasterises the control's glyph into its window.
func (c *control) paint() error {
	if c.win == nil || c.host == nil || !c.visible {
		return nil
	}
	if c.glyph == platform.GlyphNone || c.rect.Empty() {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, c.rect.Width, c.rect.Height))
	platform.DrawGlyph(img, c.glyph, glyphColor, c.background)

	ximg := xgraphics.NewConvert(c.host.conn.XUtil, img)
	if err := ximg.XSurfaceSet(c.win.Id); err != nil {
		ximg.Destroy()
		return fmt.Errorf("failed to create surface for %s glyph: %w", c.glyph, err)
	}
	ximg.XDraw()
	ximg.XPaint(c.win.Id)

	if c.img != nil {
		c.img.Destroy()
	}
	c.img = ximg
	return nil
}

func (c *control) repaint() {
	if c.img != nil && c.win != nil {
		c.img.XPaint(c.win.Id)
		return
	}
	if err := c.paint(); err != nil && c.host != nil {
		c.host.logger.Debug("glyph paint failed", "error", err)
	}
}

func (c *control) release() {
	for _, child := range c.children {
		child.release()
	}
	if c.img != nil {
		c.img.Destroy()
		c.img = nil
	}
}

const (
	iconSize      = 20
	buttonWidth   = 36
	buttonHeight  = 32
	chromePadding = 8
)

var (
	titlebarColor = color.RGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
	contentColor  = color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	glyphColor    = color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
)

// pixel packs c for a 24-bit TrueColor visual.
func pixel(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// chromeLayout is the placement of every titlebar control for one window
// size. A hidden maximize button gets an empty rect.
type chromeLayout struct {
	titlebar platform.Rect
	icon     platform.Rect
	title    platform.Rect
	minimize platform.Rect
	maximize platform.Rect
	close    platform.Rect
	content  platform.Rect
}

func layoutChrome(width, height, titlebarHeight int, maximizeVisible bool) chromeLayout {
	tb := min(titlebarHeight, height)
	l := chromeLayout{
		titlebar: platform.Rect{Width: width, Height: tb},
		content:  platform.Rect{Y: tb, Width: width, Height: max(height-tb, 0)},
		icon: platform.Rect{
			X:      chromePadding,
			Y:      (tb - iconSize) / 2,
			Width:  iconSize,
			Height: iconSize,
		},
	}

	by := (tb - buttonHeight) / 2
	x := width - chromePadding - buttonWidth
	l.close = platform.Rect{X: x, Y: by, Width: buttonWidth, Height: buttonHeight}
	if maximizeVisible {
		x -= buttonWidth
		l.maximize = platform.Rect{X: x, Y: by, Width: buttonWidth, Height: buttonHeight}
	}
	x -= buttonWidth
	l.minimize = platform.Rect{X: x, Y: by, Width: buttonWidth, Height: buttonHeight}

	titleX := l.icon.Right() + chromePadding
	l.title = platform.Rect{
		X:      titleX,
		Y:      by,
		Width:  max(x-chromePadding-titleX, 0),
		Height: buttonHeight,
	}
	return l
}
