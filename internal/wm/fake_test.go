package wm

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
)

type fakeWindow struct {
	*Base
	title   string
	got     []Message
	ret     bool
	renders int
}

func newFake(kind string, r geom.Rect) *fakeWindow {
	return &fakeWindow{Base: NewBase(kind, r)}
}

func (f *fakeWindow) Title() string { return f.title }

func (f *fakeWindow) RenderViewWindow(th theme.Theme, _ Options) {
	if f.Dirty() {
		f.renders++
	}
	f.Render(th, func(s surface.Surface, info theme.Info) {
		s.SetFill(info.Background)
		s.FillRect(geom.R(0, 0, f.Size().Width, f.Size().Height))
	})
}

func (f *fakeWindow) HandleMessageWindow(msg Message) bool {
	f.got = append(f.got, msg)
	if _, ok := msg.(ChangeTheme); ok {
		f.MarkDirty()
	}
	return f.ret
}

func (f *fakeWindow) last() Message {
	if len(f.got) == 0 {
		return nil
	}
	return f.got[len(f.got)-1]
}

func (f *fakeWindow) count(match func(Message) bool) int {
	n := 0
	for _, m := range f.got {
		if match(m) {
			n++
		}
	}
	return n
}

type fakePrompter struct {
	prompts []Prompt
	boxes   []*fakeWindow
}

func (p *fakePrompter) Prompt(pr Prompt, _ geom.Size) WindowLike {
	p.prompts = append(p.prompts, pr)
	box := newFake("allow-box", geom.R(10, 10, 50, 30))
	p.boxes = append(p.boxes, box)
	return box
}

type fakeFS map[string]string

func (f fakeFS) Read(path string) (string, bool) {
	c, ok := f[path]
	return c, ok
}

func (f fakeFS) Write(path, content string) bool {
	f[path] = content
	return true
}

func (f fakeFS) Remove(path string) bool {
	if _, ok := f[path]; !ok {
		return false
	}
	delete(f, path)
	return true
}

type fakeOpener struct {
	apps map[string]func() Opened
}

func (o *fakeOpener) Known(app string) bool {
	_, ok := o.apps[app]
	return ok
}

func (o *fakeOpener) Open(app string, _ geom.Size) (Opened, error) {
	build, ok := o.apps[app]
	if !ok {
		return Opened{}, ErrUnknownApp
	}
	return build(), nil
}

type fakeComponent struct {
	id        string
	rect      geom.Rect
	clickable bool
	focused   bool
	ret       bool
	got       []Message
}

func (c *fakeComponent) ID() string                        { return c.id }
func (c *fakeComponent) Kind() string                      { return "fake" }
func (c *fakeComponent) AssignID(id string)                { c.id = id }
func (c *fakeComponent) Rect() geom.Rect                   { return c.rect }
func (c *fakeComponent) Clickable() bool                   { return c.clickable }
func (c *fakeComponent) Render(surface.Surface, theme.Info) {}
func (c *fakeComponent) Focus()                            { c.focused = true }
func (c *fakeComponent) Unfocus()                          { c.focused = false }
func (c *fakeComponent) Focused() bool                     { return c.focused }

func (c *fakeComponent) HandleMessage(msg Message) bool {
	c.got = append(c.got, msg)
	return c.ret
}

func isMouseDown(m Message) bool {
	_, ok := m.(MouseDown)
	return ok
}

func isTheme(m Message) bool {
	_, ok := m.(ChangeTheme)
	return ok
}
