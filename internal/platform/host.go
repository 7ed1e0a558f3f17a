// Package platform defines where the shell's display is shown and where its
// input comes from.
package platform

import (
	"context"
	"errors"
	"image"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/wm"
	"golang.org/x/image/draw"
)

// ErrClosed is returned by Run when the user closed the host.
var ErrClosed = errors.New("host closed")

// Host abstracts a presentation target: a native window, a terminal or
// memory. Sizes and pointer positions are in host pixels; the manager
// scales them to display units.
type Host interface {
	Size() geom.Size
	Present(frame image.Image) error
	SetCursor(c wm.Cursor) error
	// Run feeds host input to post until ctx ends or the host goes away.
	Run(ctx context.Context, post func(wm.Message)) error
	Close() error
}

// Fit scales frame to size. It returns frame unchanged when the sizes
// already match.
func Fit(frame image.Image, size geom.Size) image.Image {
	b := frame.Bounds()
	if b.Dx() == size.Width && b.Dy() == size.Height {
		return frame
	}
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, b, draw.Src, nil)
	return dst
}
