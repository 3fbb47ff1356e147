package frameless

import (
	"time"

	"github.com/1broseidon/chromeless/internal/platform"
)

const (
	DefaultDoubleClickInterval = 400 * time.Millisecond
	DefaultDoubleClickDistance = 4
)

// ClickDetector turns a stream of presses into double-clicks for hosts that
// only report presses. Timestamps are host event times, not wall clock.
type ClickDetector struct {
	Interval time.Duration
	Distance int

	lastAt      time.Duration
	lastControl platform.ControlID
	lastButton  platform.MouseButton
	lastPos     platform.Point
	armed       bool
}

// NewClickDetector creates a detector with the given thresholds. A zero
// interval or a negative distance selects the default; a zero distance
// requires both presses on the same pixel.
func NewClickDetector(interval time.Duration, distance int) *ClickDetector {
	if interval <= 0 {
		interval = DefaultDoubleClickInterval
	}
	if distance < 0 {
		distance = DefaultDoubleClickDistance
	}
	return &ClickDetector{Interval: interval, Distance: distance}
}

// Press records a press and reports whether it completes a double-click.
// A completed double-click disarms the detector so a third press starts over.
func (d *ClickDetector) Press(control platform.ControlID, button platform.MouseButton, p platform.Point, at time.Duration) bool {
	if d.isDouble(control, button, p, at) {
		d.Reset()
		return true
	}
	d.armed = true
	d.lastAt = at
	d.lastControl = control
	d.lastButton = button
	d.lastPos = p
	return false
}

// Reset forgets the previous press.
func (d *ClickDetector) Reset() {
	d.armed = false
	d.lastAt = 0
	d.lastControl = 0
	d.lastButton = platform.ButtonNone
	d.lastPos = platform.Point{}
}

func (d *ClickDetector) isDouble(control platform.ControlID, button platform.MouseButton, p platform.Point, at time.Duration) bool {
	if !d.armed {
		return false
	}
	if d.lastControl != control || d.lastButton != button {
		return false
	}
	if at < d.lastAt || at-d.lastAt > d.Interval {
		return false
	}
	if abs(p.X-d.lastPos.X) > d.Distance || abs(p.Y-d.lastPos.Y) > d.Distance {
		return false
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
