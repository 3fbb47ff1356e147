package frameless

import "github.com/1broseidon/chromeless/internal/platform"

// DefaultBorderMargin is the width of the resize band along each edge.
const DefaultBorderMargin = 4

// Region is the border zone a pointer occupies relative to the window.
type Region int

const (
	RegionTop Region = iota
	RegionBottom
	RegionLeft
	RegionRight
	RegionTopLeft
	RegionTopRight
	RegionBottomLeft
	RegionBottomRight
	RegionCenter
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionTop:
		return "top"
	case RegionBottom:
		return "bottom"
	case RegionLeft:
		return "left"
	case RegionRight:
		return "right"
	case RegionTopLeft:
		return "top-left"
	case RegionTopRight:
		return "top-right"
	case RegionBottomLeft:
		return "bottom-left"
	case RegionBottomRight:
		return "bottom-right"
	default:
		return "center"
	}
}

// Cursor returns the pointer shape shown while hovering the region.
func (r Region) Cursor() platform.CursorShape {
	switch r {
	case RegionTopLeft, RegionBottomRight:
		return platform.CursorSizeFDiag
	case RegionTopRight, RegionBottomLeft:
		return platform.CursorSizeBDiag
	case RegionLeft, RegionRight:
		return platform.CursorSizeHorizontal
	case RegionTop, RegionBottom:
		return platform.CursorSizeVertical
	default:
		return platform.CursorArrow
	}
}

// edges reports which window edges a drag in the region moves.
func (r Region) edges() (top, bottom, left, right bool) {
	switch r {
	case RegionTop:
		return true, false, false, false
	case RegionBottom:
		return false, true, false, false
	case RegionLeft:
		return false, false, true, false
	case RegionRight:
		return false, false, false, true
	case RegionTopLeft:
		return true, false, true, false
	case RegionTopRight:
		return true, false, false, true
	case RegionBottomLeft:
		return false, true, true, false
	case RegionBottomRight:
		return false, true, false, true
	}
	return false, false, false, false
}

// Classify maps a global point to one of the nine regions of bounds.
// Corners win over edges and edges over the centre. The last pixel row and
// column of the rect count as its bottom and right edges. Points outside
// bounds, or any point of an empty rect, classify as RegionCenter.
func Classify(bounds platform.Rect, p platform.Point, margin int) Region {
	if !bounds.Contains(p) || margin < 0 {
		return RegionCenter
	}

	left := bounds.Left()
	top := bounds.Top()
	right := bounds.Right() - 1
	bottom := bounds.Bottom() - 1

	nearLeft := p.X <= left+margin
	nearRight := p.X >= right-margin
	nearTop := p.Y <= top+margin
	nearBottom := p.Y >= bottom-margin

	switch {
	case nearLeft && nearTop:
		return RegionTopLeft
	case nearRight && nearBottom:
		return RegionBottomRight
	case nearLeft && nearBottom:
		return RegionBottomLeft
	case nearRight && nearTop:
		return RegionTopRight
	case nearLeft:
		return RegionLeft
	case nearRight:
		return RegionRight
	case nearTop:
		return RegionTop
	case nearBottom:
		return RegionBottom
	default:
		return RegionCenter
	}
}
