package desktop

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

// DefaultBackground is the desktop colour until the user picks another.
const DefaultBackground = "#008080"

// Background fills the whole display with the desktop colour. A right click
// on it opens the settings app.
type Background struct {
	*wm.Base
	colour string
}

func NewBackground(display geom.Size) *Background {
	return &Background{
		Base:   wm.NewBase("desktop-background", geom.At(geom.Point{}, display)),
		colour: DefaultBackground,
	}
}

// Colour returns the colour last painted.
func (b *Background) Colour() string { return b.colour }

func (b *Background) RenderViewWindow(th theme.Theme, opts wm.Options) {
	if opts.Background != "" && opts.Background != b.colour {
		b.colour = opts.Background
		b.MarkDirty()
	}
	b.Render(th, func(s surface.Surface, _ theme.Info) {
		c, err := theme.ParseHexColor(b.colour)
		if err != nil {
			c, _ = theme.ParseHexColor(DefaultBackground)
		}
		s.SetFill(c)
		s.FillRect(geom.At(geom.Point{}, b.Size()))
	})
}

func (b *Background) HandleMessageWindow(msg wm.Message) bool {
	switch m := msg.(type) {
	case wm.Resize:
		b.Resize(m.Size)
		return true
	case wm.OptionsChanged:
		if m.Options.Background == "" || m.Options.Background == b.colour {
			return false
		}
		b.colour = m.Options.Background
		b.MarkDirty()
		return true
	case wm.ContextMenu:
		b.Request(wm.OpenWindow{App: SettingsApp})
	}
	return false
}
