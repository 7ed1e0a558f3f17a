// Package widget provides the leaf components windows are built from.
package widget

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
)

// Base carries the identity and geometry every component shares.
type Base struct {
	id        string
	kind      string
	rect      geom.Rect
	clickable bool
}

func newBase(kind string, r geom.Rect, clickable bool) Base {
	return Base{kind: kind, rect: r, clickable: clickable}
}

func (b *Base) ID() string          { return b.id }
func (b *Base) Kind() string        { return b.kind }
func (b *Base) AssignID(id string)  { b.id = id }
func (b *Base) Rect() geom.Rect     { return b.rect }
func (b *Base) Clickable() bool     { return b.clickable }
func (b *Base) SetRect(r geom.Rect) { b.rect = r }

const margin = 4

// bevel draws the raised two-tone border used by buttons and panels. When
// sunken is set the colours swap.
func bevel(s surface.Surface, r geom.Rect, info theme.Info, sunken bool) {
	lt, rb := info.BorderLeftTop, info.BorderRightBottom
	if sunken {
		lt, rb = rb, lt
	}
	s.SetLineWidth(2)
	s.SetStroke(lt)
	s.StrokePath([]geom.Point{
		{X: r.X, Y: r.Bottom() - 1},
		{X: r.X, Y: r.Y},
		{X: r.Right() - 1, Y: r.Y},
	})
	s.SetStroke(rb)
	s.StrokePath([]geom.Point{
		{X: r.Right() - 1, Y: r.Y},
		{X: r.Right() - 1, Y: r.Bottom() - 1},
		{X: r.X, Y: r.Bottom() - 1},
	})
	s.SetLineWidth(1)
}

// Ellipsize shortens text with "..." until it fits within width.
func Ellipsize(s surface.Surface, text string, f surface.Font, width int) string {
	if s.MeasureText(text, f) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if s.MeasureText(candidate, f) <= width {
			return candidate
		}
	}
	return ""
}
