// Package geom holds the device-unit coordinate types shared by the
// compositor, its surfaces and the widgets painted onto them.
package geom

import "image"

// Point is a position in device units.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both axes by f, rounding toward zero.
func (p Point) Scale(f float64) Point {
	return Point{X: int(float64(p.X) * f), Y: int(float64(p.Y) * f)}
}

// Size is a width/height pair in device units.
type Size struct {
	Width  int
	Height int
}

// Rect describes a rectangular region anchored at its top-left corner.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// R is shorthand for building a Rect.
func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// At builds a Rect from an origin and size.
func At(p Point, s Size) Rect { return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height} }

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }
func (r Rect) Size() Size    { return Size{Width: r.Width, Height: r.Height} }
func (r Rect) Right() int    { return r.X + r.Width }
func (r Rect) Bottom() int   { return r.Y + r.Height }

// Empty reports whether the rect covers no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive, so two abutting rects
// never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Intersect returns the overlapping area of r and o. The result is empty
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Image converts r into an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}
