package wm

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
)

// Component is a leaf widget owned by exactly one WindowLike. Its rect is
// relative to the owner's surface.
type Component interface {
	Member
	Rect() geom.Rect
	Clickable() bool
	Render(s surface.Surface, info theme.Info)
	// HandleMessage reports whether the component changed visibly.
	HandleMessage(msg Message) bool
}

// Focusable components can hold per-window keyboard focus. The flag only
// changes through Focus and Unfocus.
type Focusable interface {
	Component
	Focus()
	Unfocus()
	Focused() bool
}

// Focusables filters the focusable subset of cs, keeping order.
func Focusables(cs []Component) []Focusable {
	var out []Focusable
	for _, c := range cs {
		if f, ok := c.(Focusable); ok {
			out = append(out, f)
		}
	}
	return out
}

// ComponentsAt returns every clickable component in cs whose rect contains
// p, in paint order.
func ComponentsAt(cs []Component, p geom.Point) []Component {
	var out []Component
	for _, c := range cs {
		if c.Clickable() && c.Rect().Contains(p) {
			out = append(out, c)
		}
	}
	return out
}
