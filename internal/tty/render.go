// Package tty shows the shell's display in a terminal, two pixels per
// character cell.
package tty

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// upperHalf paints the top pixel as foreground and the bottom one as
// background.
const upperHalf = "▀"

type cellKey struct{ top, bottom string }

// Renderer turns images into rows of half-block cells. It caches one
// lipgloss style per colour pair.
type Renderer struct {
	styles map[cellKey]lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{styles: make(map[cellKey]lipgloss.Style)}
}

// Render draws img, which should be cols wide and 2*rows tall. Missing
// pixels render black.
func (r *Renderer) Render(img image.Image, cols, rows int) string {
	b := img.Bounds()
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			top := pixelHex(img, b.Min.X+col, b.Min.Y+2*row)
			bottom := pixelHex(img, b.Min.X+col, b.Min.Y+2*row+1)
			sb.WriteString(r.style(top, bottom).Render(upperHalf))
		}
	}
	return sb.String()
}

func (r *Renderer) style(top, bottom string) lipgloss.Style {
	k := cellKey{top, bottom}
	st, ok := r.styles[k]
	if !ok {
		st = lipgloss.NewStyle().
			Foreground(lipgloss.Color(top)).
			Background(lipgloss.Color(bottom))
		r.styles[k] = st
	}
	return st
}

func pixelHex(img image.Image, x, y int) string {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return "#000000"
	}
	return hex(img.At(x, y))
}

func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent
		return "#000000"
	}
	return cf.Hex()
}
