package x11

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/platform"
	"github.com/1broseidon/mingde/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const windowTitle = "mingde"

var cursorShapes = map[wm.Cursor]uint16{
	wm.CursorDefault:   xcursor.LeftPtr,
	wm.CursorMove:      xcursor.Fleur,
	wm.CursorColResize: xcursor.SBHDoubleArrow,
	wm.CursorRowResize: xcursor.SBVDoubleArrow,
}

// Host presents frames in a top-level X11 window and turns its input
// events into shell messages.
type Host struct {
	conn *Connection
	win  *xwindow.Window

	mu      sync.Mutex
	size    geom.Size
	ximg    *xgraphics.Image
	cursors map[wm.Cursor]xproto.Cursor

	closed chan struct{}
	once   sync.Once
}

var _ platform.Host = (*Host)(nil)

// NewHost creates and maps a window of size on the monitor under the
// pointer.
func NewHost(conn *Connection, size geom.Size) (*Host, error) {
	xu := conn.XUtil
	win, err := xwindow.Generate(xu)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window: %w", err)
	}
	r := place(size, conn.PlacementArea())
	win.Create(conn.Root, r.X, r.Y, r.Width, r.Height, xproto.CwBackPixel, 0)
	if err := win.Listen(
		xproto.EventMaskButtonPress,
		xproto.EventMaskButtonRelease,
		xproto.EventMaskPointerMotion,
		xproto.EventMaskKeyPress,
		xproto.EventMaskStructureNotify,
		xproto.EventMaskExposure,
	); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to select input: %w", err)
	}
	if err := ewmh.WmNameSet(xu, win.Id, windowTitle); err != nil {
		icccm.WmNameSet(xu, win.Id, windowTitle)
	}

	h := &Host{
		conn:    conn,
		win:     win,
		size:    r.Size(),
		cursors: make(map[wm.Cursor]xproto.Cursor),
		closed:  make(chan struct{}),
	}
	win.Map()
	return h, nil
}

func (h *Host) Size() geom.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// Present scales frame to the window and paints it.
func (h *Host) Present(frame image.Image) error {
	select {
	case <-h.closed:
		return platform.ErrClosed
	default:
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	ximg := xgraphics.NewConvert(h.conn.XUtil, platform.Fit(frame, h.size))
	if err := ximg.XSurfaceSet(h.win.Id); err != nil {
		ximg.Destroy()
		return fmt.Errorf("failed to create surface: %w", err)
	}
	ximg.XDraw()
	ximg.XPaint(h.win.Id)
	if h.ximg != nil {
		h.ximg.Destroy()
	}
	h.ximg = ximg
	return nil
}

func (h *Host) SetCursor(c wm.Cursor) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.cursors[c]
	if !ok {
		shape, known := cursorShapes[c]
		if !known {
			shape = xcursor.LeftPtr
		}
		var err error
		id, err = xcursor.CreateCursor(h.conn.XUtil, shape)
		if err != nil {
			return fmt.Errorf("failed to create cursor %q: %w", c, err)
		}
		h.cursors[c] = id
	}
	h.win.Change(xproto.CwCursor, uint32(id))
	return nil
}

// Run dispatches X events to post until ctx ends or the window is closed.
func (h *Host) Run(ctx context.Context, post func(wm.Message)) error {
	xu := h.conn.XUtil
	xevent.Detach(xu, h.win.Id)
	h.connect(post)

	go xevent.Main(xu)
	defer xevent.Quit(xu)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.closed:
		return platform.ErrClosed
	}
}

func (h *Host) connect(post func(wm.Message)) {
	xu := h.conn.XUtil
	id := h.win.Id

	h.win.WMGracefulClose(func(*xwindow.Window) {
		h.Close()
	})

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		for _, msg := range buttonMessage(ev.Detail, geom.Point{X: int(ev.EventX), Y: int(ev.EventY)}) {
			post(msg)
		}
	}).Connect(xu, id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail > 3 {
			return
		}
		post(wm.MouseUp{
			Point:  geom.Point{X: int(ev.EventX), Y: int(ev.EventY)},
			Button: wm.Button(ev.Detail - 1),
		})
	}).Connect(xu, id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		post(wm.MouseMove{Point: geom.Point{X: int(ev.EventX), Y: int(ev.EventY)}})
	}).Connect(xu, id)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		sym := keybind.LookupString(xu, ev.State, ev.Detail)
		if kd, ok := keyDown(sym, ev.State); ok {
			post(kd)
		}
	}).Connect(xu, id)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count > 0 {
			return
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.ximg != nil {
			h.ximg.XPaint(id)
		}
	}).Connect(xu, id)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		size := geom.Size{Width: int(ev.Width), Height: int(ev.Height)}
		h.mu.Lock()
		changed := size != h.size
		h.size = size
		h.mu.Unlock()
		if changed {
			post(wm.Resize{Size: size})
		}
	}).Connect(xu, id)
}

// Close destroys the window. It is safe to call more than once.
func (h *Host) Close() error {
	h.once.Do(func() {
		close(h.closed)
		h.mu.Lock()
		if h.ximg != nil {
			h.ximg.Destroy()
			h.ximg = nil
		}
		for _, c := range h.cursors {
			xproto.FreeCursor(h.conn.XUtil.Conn(), c)
		}
		h.mu.Unlock()
		h.win.Destroy()
	})
	return nil
}
