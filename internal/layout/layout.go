// Package layout computes where shell surfaces go: cascade placement of new
// windows, clamping to the display, and the taskbar's window-button slots.
package layout

import "github.com/1broseidon/mingde/internal/geom"

const (
	// TaskbarHeight is the height of the taskbar strip in device units.
	TaskbarHeight = 38
	// CascadeStep is the offset between consecutively opened windows.
	CascadeStep = 30
	// MinVisible is how much of a window must stay on screen when dragged.
	MinVisible = 40
)

// WorkArea returns the part of the display not covered by the taskbar.
func WorkArea(display geom.Size) geom.Rect {
	h := display.Height - TaskbarHeight
	if h < 0 {
		h = 0
	}
	return geom.R(0, 0, display.Width, h)
}

// Cascade returns the origin for the n-th (0-based) window of the given size.
// Origins step diagonally and wrap back to the top-left once a window would
// leave the work area.
func Cascade(n int, size geom.Size, area geom.Rect) geom.Point {
	if n < 0 {
		n = 0
	}
	spanX := area.Width - size.Width
	spanY := area.Height - size.Height
	steps := 1
	if spanX > 0 && spanY > 0 {
		steps = min(spanX, spanY)/CascadeStep + 1
	}
	i := n % steps
	return geom.Point{X: area.X + i*CascadeStep, Y: area.Y + i*CascadeStep}
}

// Clamp keeps r reachable: at least MinVisible units remain inside area on
// each axis and the top edge never goes above the area.
func Clamp(r geom.Rect, area geom.Rect) geom.Rect {
	minX := area.X - r.Width + MinVisible
	maxX := area.Right() - MinVisible
	if r.X < minX {
		r.X = minX
	}
	if r.X > maxX {
		r.X = maxX
	}
	if r.Y < area.Y {
		r.Y = area.Y
	}
	if maxY := area.Bottom() - MinVisible; r.Y > maxY {
		r.Y = maxY
	}
	return r
}

// StickBottom places r flush against the bottom of the display.
func StickBottom(r geom.Rect, display geom.Size) geom.Rect {
	r.X = 0
	r.Y = display.Height - r.Height
	return r
}

// SlotWidth is the width of each taskbar window button for count open
// windows.
func SlotWidth(count int) int {
	switch {
	case count < 5:
		return 225
	case count < 7:
		return 175
	default:
		return 125
	}
}

// Slots lays out taskbar window buttons starting at x0 within a bar of
// width barWidth, keeping reserve units free on the right for the clock.
// It returns one rect per visible button and the number of windows that did
// not fit.
func Slots(count, x0, y, height, padding, barWidth, reserve int) ([]geom.Rect, int) {
	w := SlotWidth(count)
	out := make([]geom.Rect, 0, count)
	for i := 0; i < count; i++ {
		x := x0 + (padding+w)*i + padding*2
		if x+w > barWidth-reserve {
			return out, count - i
		}
		out = append(out, geom.R(x, y, w, height))
	}
	return out, 0
}
