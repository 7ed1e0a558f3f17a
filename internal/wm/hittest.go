package wm

import "github.com/1broseidon/mingde/internal/geom"

type bounded interface {
	Rect() geom.Rect
}

// HitTest scans entities from the top of the stack down and returns the
// first whose rect contains p.
func HitTest[T bounded](entities []T, p geom.Point) (T, bool) {
	for i := len(entities) - 1; i >= 0; i-- {
		if entities[i].Rect().Contains(p) {
			return entities[i], true
		}
	}
	var zero T
	return zero, false
}
