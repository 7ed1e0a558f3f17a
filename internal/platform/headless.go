package platform

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/wm"
)

// Headless keeps the last presented frame in memory. Input is injected
// with Send. When a dump path is set every frame is also written there as a
// PNG.
type Headless struct {
	mu       sync.Mutex
	size     geom.Size
	frame    *image.RGBA
	frames   int
	cursor   wm.Cursor
	dumpPath string

	input  chan wm.Message
	closed chan struct{}
	once   sync.Once
}

func NewHeadless(size geom.Size, dumpPath string) *Headless {
	return &Headless{
		size:     size,
		cursor:   wm.CursorDefault,
		dumpPath: dumpPath,
		input:    make(chan wm.Message, 64),
		closed:   make(chan struct{}),
	}
}

func (h *Headless) Size() geom.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *Headless) Present(frame image.Image) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	img := Fit(frame, h.size)
	cp := image.NewRGBA(img.Bounds())
	draw.Draw(cp, cp.Bounds(), img, img.Bounds().Min, draw.Src)
	h.frame = cp
	h.frames++
	if h.dumpPath == "" {
		return nil
	}
	return writePNG(h.dumpPath, cp)
}

func (h *Headless) SetCursor(c wm.Cursor) error {
	h.mu.Lock()
	h.cursor = c
	h.mu.Unlock()
	return nil
}

// Resize changes the host size and tells the shell about it.
func (h *Headless) Resize(size geom.Size) {
	h.mu.Lock()
	h.size = size
	h.mu.Unlock()
	h.Send(wm.Resize{Size: size})
}

// Send queues a message as if it came from host input.
func (h *Headless) Send(msg wm.Message) {
	select {
	case h.input <- msg:
	case <-h.closed:
	}
}

func (h *Headless) Run(ctx context.Context, post func(wm.Message)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.closed:
			return ErrClosed
		case msg := <-h.input:
			post(msg)
		}
	}
}

func (h *Headless) Close() error {
	h.once.Do(func() { close(h.closed) })
	return nil
}

// Frame returns the last presented frame, or nil.
func (h *Headless) Frame() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Frames returns how many frames were presented.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (h *Headless) Cursor() wm.Cursor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// DumpPNG encodes the last frame to w.
func (h *Headless) DumpPNG(w io.Writer) error {
	frame := h.Frame()
	if frame == nil {
		return fmt.Errorf("no frame presented")
	}
	return png.Encode(w, frame)
}

func writePNG(path string, img image.Image) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create frame dump: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
