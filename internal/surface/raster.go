package surface

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/1broseidon/mingde/internal/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Raster is a software Surface.
type Raster struct {
	img       *image.RGBA
	fill      color.Color
	stroke    color.Color
	lineWidth int
}

// NewRaster allocates a transparent raster of the given size.
func NewRaster(s geom.Size) *Raster {
	return &Raster{
		img:       image.NewRGBA(image.Rect(0, 0, max(s.Width, 0), max(s.Height, 0))),
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
	}
}

func (r *Raster) Size() geom.Size {
	b := r.img.Bounds()
	return geom.Size{Width: b.Dx(), Height: b.Dy()}
}

// Resize reallocates the backing image. Contents are discarded.
func (r *Raster) Resize(s geom.Size) {
	if s == r.Size() {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, max(s.Width, 0), max(s.Height, 0)))
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) SetFill(c color.Color)   { r.fill = c }
func (r *Raster) SetStroke(c color.Color) { r.stroke = c }

func (r *Raster) SetLineWidth(w int) {
	if w < 1 {
		w = 1
	}
	r.lineWidth = w
}

func (r *Raster) FillRect(rect geom.Rect) {
	r.fillRect(rect, r.fill)
}

func (r *Raster) fillRect(rect geom.Rect, c color.Color) {
	if rect.Empty() {
		return
	}
	draw.Draw(r.img, rect.Image(), image.NewUniform(c), image.Point{}, draw.Over)
}

func (r *Raster) StrokeRect(rect geom.Rect) {
	w := r.lineWidth
	r.fillRect(geom.R(rect.X, rect.Y, rect.Width, w), r.stroke)
	r.fillRect(geom.R(rect.X, rect.Bottom()-w, rect.Width, w), r.stroke)
	r.fillRect(geom.R(rect.X, rect.Y, w, rect.Height), r.stroke)
	r.fillRect(geom.R(rect.Right()-w, rect.Y, w, rect.Height), r.stroke)
}

func (r *Raster) StrokePath(pts []geom.Point) {
	for i := 1; i < len(pts); i++ {
		r.line(pts[i-1], pts[i])
	}
}

// line rasterises a segment with Bresenham, stamping a lineWidth square at
// every step.
func (r *Raster) line(a, b geom.Point) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	half := r.lineWidth / 2
	for {
		r.fillRect(geom.R(x-half, y-half, r.lineWidth, r.lineWidth), r.stroke)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func (r *Raster) FillText(text string, p geom.Point, f Font) {
	face := f.Face()
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(r.fill),
		Face: face,
		Dot:  fixed.P(p.X, p.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func (r *Raster) MeasureText(text string, f Font) int {
	return font.MeasureString(f.Face(), text).Ceil()
}

func (r *Raster) DrawImage(img image.Image, p geom.Point) {
	b := img.Bounds()
	dst := image.Rect(p.X, p.Y, p.X+b.Dx(), p.Y+b.Dy())
	draw.Draw(r.img, dst, img, b.Min, draw.Over)
}

func (r *Raster) Image() *image.RGBA { return r.img }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
