package wm

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
)

// Options is the manager-wide state every WindowLike may render against.
type Options struct {
	Background string
	Settings   Settings
}

// Requester delivers a request from a WindowLike to the manager. The
// manager installs one per entity when the entity joins a layer.
type Requester func(req Request, tok Token) Outcome

// WindowLike is a top-level compositable surface.
type WindowLike interface {
	Member
	Rect() geom.Rect
	SetOrigin(p geom.Point)
	Surface() surface.Surface
	// RenderViewWindow repaints the private surface if the entity is dirty
	// and is a no-op otherwise.
	RenderViewWindow(th theme.Theme, opts Options)
	// HandleMessageWindow reports whether the entity changed visibly.
	HandleMessageWindow(msg Message) bool
	// SetSecret binds the capability token. Only the first call has effect.
	SetSecret(tok Token)
	BindRequester(r Requester)
}

// Titled entities are listed in the taskbar.
type Titled interface {
	Title() string
}

// Maximizer is implemented by windows that can toggle filling the work
// area.
type Maximizer interface {
	ToggleMaximize(area geom.Rect)
}

// Base provides the surface capability shared by every WindowLike: the
// private raster, geometry, dirty flag, token and requester, plus the
// component layers painted on top of whatever the owner draws.
type Base struct {
	id     string
	kind   string
	rect   geom.Rect
	surf   surface.Surface
	dirty  bool
	token  Token
	send   Requester
	layers []*Layer[Component]
}

// NewBase allocates a dirty base of the given kind and geometry.
func NewBase(kind string, r geom.Rect) *Base {
	return &Base{
		kind:  kind,
		rect:  r,
		surf:  surface.NewRaster(r.Size()),
		dirty: true,
	}
}

func (b *Base) ID() string                { return b.id }
func (b *Base) Kind() string              { return b.kind }
func (b *Base) AssignID(id string)        { b.id = id }
func (b *Base) Rect() geom.Rect           { return b.rect }
func (b *Base) Size() geom.Size           { return b.rect.Size() }
func (b *Base) Surface() surface.Surface  { return b.surf }
func (b *Base) SetOrigin(p geom.Point)    { b.rect.X, b.rect.Y = p.X, p.Y }
func (b *Base) BindRequester(r Requester) { b.send = r }

// SetSecret binds tok unless a token is already bound.
func (b *Base) SetSecret(tok Token) {
	if !b.token.IsZero() {
		return
	}
	b.token = tok
}

// Token returns the bound capability token.
func (b *Base) Token() Token { return b.token }

// Resize reallocates the surface and marks the entity dirty.
func (b *Base) Resize(s geom.Size) {
	b.rect.Width, b.rect.Height = s.Width, s.Height
	b.surf.Resize(s)
	b.dirty = true
}

func (b *Base) Dirty() bool { return b.dirty }
func (b *Base) MarkDirty()  { b.dirty = true }

// SendRequest forwards req to the manager with the given token.
func (b *Base) SendRequest(req Request, tok Token) Outcome {
	if b.send == nil {
		return dropped("not attached to a manager")
	}
	return b.send(req, tok)
}

// Request sends req authorised with the entity's own token.
func (b *Base) Request(req Request) Outcome {
	return b.SendRequest(req, b.token)
}

// Render runs paint when the entity is dirty, then paints visible
// components over it and marks the entity clean.
func (b *Base) Render(th theme.Theme, paint func(s surface.Surface, info theme.Info)) {
	if !b.dirty {
		return
	}
	info := th.Info()
	b.surf.Clear()
	if paint != nil {
		paint(b.surf, info)
	}
	for _, c := range b.Components() {
		c.Render(b.surf, info)
	}
	b.dirty = false
}

// AddLayer appends a component layer.
func (b *Base) AddLayer(l *Layer[Component]) {
	b.layers = append(b.layers, l)
}

// Layer returns the component layer with the given name.
func (b *Base) Layer(name string) (*Layer[Component], bool) {
	return FindLayer(b.layers, name)
}

// Layers returns every component layer in paint order.
func (b *Base) Layers() []*Layer[Component] { return b.layers }

// Components returns components of visible layers in paint order.
func (b *Base) Components() []Component { return Visible(b.layers) }

// DispatchPress delivers a press to every clickable visible component under
// the pointer. Overlapping components all receive it.
func (b *Base) DispatchPress(msg Pointer) bool {
	changed := false
	for _, c := range ComponentsAt(b.Components(), msg.Pos()) {
		if c.HandleMessage(msg) {
			changed = true
		}
	}
	if changed {
		b.dirty = true
	}
	return changed
}

// DispatchHover delivers a move to every clickable visible component so
// hover state can follow the pointer in and out.
func (b *Base) DispatchHover(msg Pointer) bool {
	changed := false
	for _, c := range b.Components() {
		if c.Clickable() && c.HandleMessage(msg) {
			changed = true
		}
	}
	if changed {
		b.dirty = true
	}
	return changed
}
