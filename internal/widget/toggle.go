package widget

import (
	"image/color"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

var (
	validColour   = color.RGBA{G: 0x80, A: 0xff}
	invalidColour = color.RGBA{R: 0xff, A: 0xff}
)

const boxSize = 13

// Checkbox toggles on click and reports the new value through OnToggle.
type Checkbox struct {
	Base
	Text     string
	Checked  bool
	OnToggle func(checked bool)
}

func NewCheckbox(text string, at geom.Point, width int, checked bool) *Checkbox {
	return &Checkbox{
		Base:    newBase("checkbox", geom.R(at.X, at.Y, width, boxSize+2), true),
		Text:    text,
		Checked: checked,
	}
}

func (c *Checkbox) Render(s surface.Surface, info theme.Info) {
	box := geom.R(c.rect.X, c.rect.Y, boxSize, boxSize)
	s.SetFill(info.Background)
	s.FillRect(box)
	s.SetStroke(info.BorderRightBottom)
	s.StrokeRect(box)
	if c.Checked {
		s.SetStroke(info.TextPrimary)
		s.SetLineWidth(2)
		s.StrokePath([]geom.Point{
			{X: box.X + 3, Y: box.Y + 6},
			{X: box.X + 5, Y: box.Y + 10},
			{X: box.X + 10, Y: box.Y + 3},
		})
		s.SetLineWidth(1)
	}
	s.SetFill(info.TextPrimary)
	s.FillText(c.Text, geom.Point{X: box.Right() + margin, Y: c.rect.Y}, surface.FontNormal)
}

func (c *Checkbox) HandleMessage(msg wm.Message) bool {
	if _, ok := msg.(wm.MouseDown); !ok {
		return false
	}
	c.Checked = !c.Checked
	if c.OnToggle != nil {
		c.OnToggle(c.Checked)
	}
	return true
}

// Carousel steps through Options with arrows on either side.
type Carousel struct {
	Base
	Options  []string
	Index    int
	OnChange func(index int)
}

func NewCarousel(options []string, r geom.Rect, index int) *Carousel {
	return &Carousel{Base: newBase("carousel", r, true), Options: options, Index: index}
}

func (c *Carousel) arrows() (left, right geom.Rect) {
	w := c.rect.Height
	return geom.R(c.rect.X, c.rect.Y, w, c.rect.Height),
		geom.R(c.rect.Right()-w, c.rect.Y, w, c.rect.Height)
}

// Value returns the selected option.
func (c *Carousel) Value() string {
	if c.Index < 0 || c.Index >= len(c.Options) {
		return ""
	}
	return c.Options[c.Index]
}

// Step moves the selection by delta with wrap-around.
func (c *Carousel) Step(delta int) {
	if len(c.Options) == 0 {
		return
	}
	c.Index = wm.Wrap(c.Index, delta, len(c.Options))
	if c.OnChange != nil {
		c.OnChange(c.Index)
	}
}

func (c *Carousel) Render(s surface.Surface, info theme.Info) {
	left, right := c.arrows()
	for i, r := range []geom.Rect{left, right} {
		s.SetFill(info.Background)
		s.FillRect(r)
		bevel(s, r, info, false)
		glyph := "<"
		if i == 1 {
			glyph = ">"
		}
		gw := s.MeasureText(glyph, surface.FontNormal)
		s.SetFill(info.TextPrimary)
		s.FillText(glyph, geom.Point{X: r.X + (r.Width-gw)/2, Y: r.Y + (r.Height-surface.LineHeight(surface.FontNormal))/2}, surface.FontNormal)
	}
	middle := geom.R(left.Right(), c.rect.Y, right.X-left.Right(), c.rect.Height)
	text := Ellipsize(s, c.Value(), surface.FontNormal, middle.Width-2*margin)
	tw := s.MeasureText(text, surface.FontNormal)
	s.SetFill(info.TextPrimary)
	s.FillText(text, geom.Point{X: middle.X + (middle.Width-tw)/2, Y: middle.Y + (middle.Height-surface.LineHeight(surface.FontNormal))/2}, surface.FontNormal)
}

func (c *Carousel) HandleMessage(msg wm.Message) bool {
	m, ok := msg.(wm.MouseDown)
	if !ok {
		return false
	}
	left, right := c.arrows()
	switch {
	case left.Contains(m.Point):
		c.Step(-1)
	case right.Contains(m.Point):
		c.Step(1)
	default:
		return false
	}
	return true
}
