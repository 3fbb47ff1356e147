package platform

import (
	"image"
	"image/color"
	"image/draw"
)

// Glyph is a titlebar pictogram.
type Glyph int

const (
	GlyphNone Glyph = iota
	GlyphAppIcon
	GlyphMinimize
	GlyphMaximize
	GlyphRestore
	GlyphClose
)

// String returns the string representation of the glyph
func (g Glyph) String() string {
	switch g {
	case GlyphAppIcon:
		return "app-icon"
	case GlyphMinimize:
		return "minimize"
	case GlyphMaximize:
		return "maximize"
	case GlyphRestore:
		return "restore"
	case GlyphClose:
		return "close"
	default:
		return "none"
	}
}

// DrawGlyph paints g centred in dst over a solid background.
// The pictogram occupies a 10x10 box, matching the titlebar buttons' 20px art.
func DrawGlyph(dst draw.Image, g Glyph, fg, bg color.Color) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(bg), image.Point{}, draw.Src)

	const box = 10
	ox := b.Min.X + (b.Dx()-box)/2
	oy := b.Min.Y + (b.Dy()-box)/2

	hline := func(x0, x1, y int) {
		for x := x0; x <= x1; x++ {
			dst.Set(ox+x, oy+y, fg)
		}
	}
	vline := func(x, y0, y1 int) {
		for y := y0; y <= y1; y++ {
			dst.Set(ox+x, oy+y, fg)
		}
	}
	square := func(x0, y0, x1, y1 int) {
		hline(x0, x1, y0)
		hline(x0, x1, y1)
		vline(x0, y0, y1)
		vline(x1, y0, y1)
	}

	switch g {
	case GlyphAppIcon:
		for y := 1; y < box-1; y++ {
			hline(1, box-2, y)
		}
	case GlyphMinimize:
		hline(0, box-1, box/2)
	case GlyphMaximize:
		square(0, 0, box-1, box-1)
	case GlyphRestore:
		// back window: only the parts not hidden by the front one
		hline(2, box-1, 0)
		vline(box-1, 0, box-3)
		vline(2, 0, 2)
		hline(box-3, box-1, box-3)
		square(0, 2, box-3, box-1)
	case GlyphClose:
		for i := 0; i < box; i++ {
			dst.Set(ox+i, oy+i, fg)
			dst.Set(ox+box-1-i, oy+i, fg)
		}
	}
}
