// Package surface defines the 2D raster target every window-like entity
// paints into, and a software implementation backed by image.RGBA.
package surface

import (
	"image"
	"image/color"

	"github.com/1broseidon/mingde/internal/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
)

// Font selects one of the built-in faces.
type Font int

const (
	FontNormal Font = iota
	FontBold
)

// Face returns the font.Face backing f.
func (f Font) Face() font.Face {
	switch f {
	case FontBold:
		return inconsolata.Bold8x16
	default:
		return basicfont.Face7x13
	}
}

func (f Font) String() string {
	switch f {
	case FontBold:
		return "bold"
	default:
		return "normal"
	}
}

// Surface is the set of drawing primitives the compositor and widgets rely
// on. Coordinates are device units relative to the surface origin.
type Surface interface {
	Size() geom.Size
	Resize(s geom.Size)
	Clear()

	SetFill(c color.Color)
	SetStroke(c color.Color)
	SetLineWidth(w int)

	FillRect(r geom.Rect)
	StrokeRect(r geom.Rect)
	// StrokePath draws a polyline through pts.
	StrokePath(pts []geom.Point)
	// FillText draws text with its top-left corner at p.
	FillText(text string, p geom.Point, f Font)
	MeasureText(text string, f Font) int
	DrawImage(img image.Image, p geom.Point)

	Image() *image.RGBA
}

// LineHeight returns the advance between consecutive lines for f.
func LineHeight(f Font) int {
	return f.Face().Metrics().Height.Ceil()
}
