package desktop

import (
	"fmt"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/layout"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

const (
	taskbarPadding = 4
	startWidth     = 42
	clockWidth     = 75
)

type taskEntry struct {
	id    string
	title string
}

// Taskbar is the strip along the bottom of the display: the start button,
// one button per open window in open order, and the clock.
type Taskbar struct {
	*wm.Base
	start   *widget.Button
	clock   *widget.Button
	slots   *wm.Layer[wm.Component]
	entries []taskEntry
	focused string
	hidden  int
}

func NewTaskbar(display geom.Size) *Taskbar {
	r := layout.StickBottom(geom.R(0, 0, display.Width, layout.TaskbarHeight), display)
	t := &Taskbar{Base: wm.NewBase("taskbar", r)}
	inner := layout.TaskbarHeight - 2*taskbarPadding
	t.start = widget.NewButton("Start", geom.R(taskbarPadding, taskbarPadding, startWidth, inner), func() {
		t.Request(wm.OpenWindow{App: wm.StartMenuApp})
	})
	t.start.Font = surface.FontBold
	t.clock = widget.NewButton("--:--", t.clockRect(), nil)
	t.clock.Inverted = true

	permanent := wm.NewLayer[wm.Component]("permanent")
	permanent.Add(t.start, t.clock)
	t.slots = wm.NewLayer[wm.Component]("window-buttons")
	t.AddLayer(permanent)
	t.AddLayer(t.slots)
	return t
}

func (t *Taskbar) clockRect() geom.Rect {
	inner := layout.TaskbarHeight - 2*taskbarPadding
	return geom.R(t.Size().Width-clockWidth-taskbarPadding, taskbarPadding, clockWidth, inner)
}

// Clock returns the text shown in the clock.
func (t *Taskbar) Clock() string { return t.clock.Text }

// Overflow is how many windows have no button.
func (t *Taskbar) Overflow() int { return t.hidden }

// Buttons returns the window buttons in slot order.
func (t *Taskbar) Buttons() []*widget.Button {
	var out []*widget.Button
	for _, c := range t.slots.Members() {
		if b, ok := c.(*widget.Button); ok {
			out = append(out, b)
		}
	}
	return out
}

func (t *Taskbar) RenderViewWindow(th theme.Theme, _ wm.Options) {
	t.Render(th, func(s surface.Surface, info theme.Info) {
		size := t.Size()
		s.SetFill(info.Background)
		s.FillRect(geom.At(geom.Point{}, size))
		s.SetStroke(info.BorderLeftTop)
		s.StrokePath([]geom.Point{{X: 0, Y: 0}, {X: size.Width - 1, Y: 0}})
		if t.hidden > 0 {
			last := t.overflowAt()
			s.SetFill(info.TextPrimary)
			s.FillText(fmt.Sprintf("+%d", t.hidden), last, surface.FontNormal)
		}
	})
}

func (t *Taskbar) overflowAt() geom.Point {
	x := t.start.Rect().Right() + taskbarPadding
	if buttons := t.Buttons(); len(buttons) > 0 {
		x = buttons[len(buttons)-1].Rect().Right() + taskbarPadding
	}
	return geom.Point{X: x, Y: (layout.TaskbarHeight - surface.LineHeight(surface.FontNormal)) / 2}
}

func (t *Taskbar) HandleMessageWindow(msg wm.Message) bool {
	switch m := msg.(type) {
	case wm.MouseDown:
		return t.DispatchPress(m)
	case wm.WindowAdded:
		t.entries = append(t.entries, taskEntry{id: m.ID, title: m.Title})
		t.rebuild()
		return true
	case wm.WindowRemoved:
		for i, e := range t.entries {
			if e.id == m.ID {
				t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
				break
			}
		}
		t.rebuild()
		return true
	case wm.FocusChanged:
		t.focused = m.ID
		t.rebuild()
		return true
	case wm.TimeUpdate:
		text := m.Now.Format("15:04")
		if text == t.clock.Text {
			return false
		}
		t.clock.Text = text
		t.MarkDirty()
		return true
	case wm.Resize:
		t.Resize(geom.Size{Width: m.Size.Width, Height: layout.TaskbarHeight})
		t.clock.SetRect(t.clockRect())
		t.rebuild()
		t.Request(wm.ChangeCoords{StickBottom: true})
		return true
	case wm.ChangeTheme:
		t.MarkDirty()
		return true
	}
	return false
}

func (t *Taskbar) rebuild() {
	t.slots.Reset()
	inner := layout.TaskbarHeight - 2*taskbarPadding
	reserve := clockWidth + 2*taskbarPadding
	rects, hidden := layout.Slots(len(t.entries), t.start.Rect().Right(), taskbarPadding, inner, taskbarPadding, t.Size().Width, reserve)
	for i, r := range rects {
		e := t.entries[i]
		b := widget.NewButton(e.title, r, func() {
			t.Request(wm.FocusWindow{Target: e.id})
		})
		b.Align = widget.AlignLeft
		b.Inverted = e.id == t.focused
		t.slots.Add(b)
	}
	t.hidden = hidden
	t.MarkDirty()
}
