// Package desktop holds the concrete surfaces of the shell: the window
// chrome and the apps that live in it, the desktop background, the taskbar,
// the start menu, the approval prompt, and the registry that builds them.
package desktop

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

// TitleHeight is the height of the title bar drawn by every Window.
const TitleHeight = 25

// App is the content of a Window. Component rects are in window
// coordinates, below the title bar.
type App interface {
	// Mount adds the app's component layers. It runs once, from NewWindow.
	Mount(w *Window)
	// Paint draws the client area before the components are painted.
	Paint(s surface.Surface, info theme.Info, client geom.Rect)
	// Handle reports whether the app changed visibly.
	Handle(msg wm.Message) bool
}

// Syncer is implemented by apps that mirror manager state. Sync runs before
// every render and reports whether the app needs repainting.
type Syncer interface {
	Sync(th theme.Theme, opts wm.Options) bool
}

// Relayouter is implemented by apps whose components follow the client
// area when the window is resized.
type Relayouter interface {
	Relayout(client geom.Rect)
}

// Window is the decorated top-level surface: a title bar with a close
// button and drag handle around an App.
type Window struct {
	*wm.Base
	title string
	app   App
	close *widget.Button
	// OnClose replaces the default close action, a CloseWindow request.
	OnClose func()

	focused   bool
	dragging  bool
	grab      geom.Point
	cursor    wm.Cursor
	maximized bool
	restore   geom.Rect
}

// NewWindow builds a window of the given outer size at the origin. The
// manager or the caller places it.
func NewWindow(kind, title string, size geom.Size, app App) *Window {
	w := &Window{
		Base:   wm.NewBase(kind, geom.At(geom.Point{}, size)),
		title:  title,
		app:    app,
		cursor: wm.CursorDefault,
	}
	w.close = widget.NewButton("x", w.closeRect(), w.Close)
	w.close.Font = surface.FontBold
	chrome := wm.NewLayer[wm.Component]("chrome")
	chrome.Add(w.close)
	w.AddLayer(chrome)
	app.Mount(w)
	return w
}

func (w *Window) Title() string     { return w.title }
func (w *Window) App() App          { return w.app }
func (w *Window) Focused() bool     { return w.focused }
func (w *Window) Maximized() bool   { return w.maximized }
func (w *Window) Dragging() bool    { return w.dragging }
func (w *Window) Cursor() wm.Cursor { return w.cursor }

// Client is the area below the title bar.
func (w *Window) Client() geom.Rect {
	return geom.R(0, TitleHeight, w.Rect().Width, w.Rect().Height-TitleHeight)
}

func (w *Window) closeRect() geom.Rect {
	return geom.R(w.Rect().Width-TitleHeight+3, 3, TitleHeight-6, TitleHeight-6)
}

// Close runs OnClose or asks the manager to close the window.
func (w *Window) Close() {
	if w.OnClose != nil {
		w.OnClose()
		return
	}
	w.Request(wm.CloseWindow{})
}

func (w *Window) RenderViewWindow(th theme.Theme, opts wm.Options) {
	if s, ok := w.app.(Syncer); ok && s.Sync(th, opts) {
		w.MarkDirty()
	}
	w.Render(th, w.paint)
}

func (w *Window) paint(s surface.Surface, info theme.Info) {
	size := w.Size()
	s.SetFill(info.Background)
	s.FillRect(geom.R(0, 0, size.Width, size.Height))
	w.app.Paint(s, info, w.Client())

	bar := geom.R(0, 0, size.Width, TitleHeight)
	s.SetFill(info.Top)
	s.FillRect(bar)
	lh := surface.LineHeight(surface.FontBold)
	title := widget.Ellipsize(s, w.title, surface.FontBold, w.closeRect().X-12)
	s.SetFill(info.TextTop)
	s.FillText(title, geom.Point{X: 6, Y: (TitleHeight - lh) / 2}, surface.FontBold)

	s.SetStroke(info.BorderRightBottom)
	s.StrokeRect(geom.R(0, 0, size.Width, size.Height))
}

func (w *Window) HandleMessageWindow(msg wm.Message) bool {
	switch m := msg.(type) {
	case wm.MouseDown:
		if !w.focused {
			w.Request(wm.FocusWindow{})
		}
		if m.Point.Y < TitleHeight {
			if w.close.Rect().Contains(m.Point) {
				return w.DispatchPress(m)
			}
			if m.Button == wm.ButtonLeft {
				w.dragging, w.grab = true, m.Point
			}
			return false
		}
		changed := w.DispatchPress(m)
		return w.forward(m) || changed
	case wm.MouseMove:
		if w.dragging {
			// The window follows the pointer, so the grab point stays put
			// in local coordinates.
			if d := m.Point.Sub(w.grab); d != (geom.Point{}) {
				w.Request(wm.ChangeCoords{Delta: d})
			}
			return false
		}
		want := wm.CursorDefault
		if m.Point.Y < TitleHeight && !w.close.Rect().Contains(m.Point) {
			want = wm.CursorMove
		}
		w.setCursor(want)
		changed := w.DispatchHover(m)
		return w.forward(m) || changed
	case wm.MouseUp:
		w.dragging = false
		return w.forward(m)
	case wm.MouseMoveOutside:
		w.dragging = false
		w.setCursor(wm.CursorDefault)
		return false
	case wm.MouseDownOutside:
		w.dragging = false
		return w.forward(m)
	case wm.FocusChanged:
		w.focused = m.ID == w.ID()
		return w.forward(m)
	case wm.ChangeTheme:
		w.forward(m)
		w.MarkDirty()
		return true
	default:
		return w.forward(msg)
	}
}

func (w *Window) forward(msg wm.Message) bool {
	if !w.app.Handle(msg) {
		return false
	}
	w.MarkDirty()
	return true
}

func (w *Window) setCursor(c wm.Cursor) {
	if w.cursor == c {
		return
	}
	w.cursor = c
	w.Request(wm.ChangeCursor{Cursor: c})
}

// ToggleMaximize fills area, or restores the previous geometry when the
// window is already maximized.
func (w *Window) ToggleMaximize(area geom.Rect) {
	if w.maximized {
		w.maximized = false
		w.SetOrigin(w.restore.Origin())
		w.resize(w.restore.Size())
		return
	}
	w.maximized, w.restore = true, w.Rect()
	w.SetOrigin(area.Origin())
	w.resize(area.Size())
}

func (w *Window) resize(size geom.Size) {
	w.Resize(size)
	w.close.SetRect(w.closeRect())
	if r, ok := w.app.(Relayouter); ok {
		r.Relayout(w.Client())
	}
}

// content returns a fresh component layer for an app.
func content(w *Window) *wm.Layer[wm.Component] {
	l := wm.NewLayer[wm.Component]("content")
	w.AddLayer(l)
	return l
}
