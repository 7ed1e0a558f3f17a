package widget

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

// Alignment positions a button's label.
type Alignment int

const (
	AlignCentre Alignment = iota
	AlignLeft
)

// Button runs OnClick on a left press. Hover highlights it when Highlight is
// set, and Inverted swaps its colours to show an active state.
type Button struct {
	Base
	Text      string
	Font      surface.Font
	Align     Alignment
	Inverted  bool
	Highlight bool
	OnClick   func()

	hovered bool
	focused bool
}

// NewButton builds a clickable button.
func NewButton(text string, r geom.Rect, onClick func()) *Button {
	return &Button{Base: newBase("button", r, true), Text: text, OnClick: onClick}
}

func (b *Button) Hovered() bool { return b.hovered }

func (b *Button) Focus()        { b.focused = true }
func (b *Button) Unfocus()      { b.focused = false }
func (b *Button) Focused() bool { return b.focused }

func (b *Button) Render(s surface.Surface, info theme.Info) {
	bg, fg := info.Background, info.TextPrimary
	if b.Inverted || (b.Highlight && b.hovered) {
		bg, fg = info.Highlight, info.TextHighlight
	}
	s.SetFill(bg)
	s.FillRect(b.rect)
	if !b.Highlight {
		bevel(s, b.rect, info, b.Inverted)
	}
	if b.focused {
		s.SetStroke(info.Highlight)
		s.StrokeRect(geom.R(b.rect.X+3, b.rect.Y+3, b.rect.Width-6, b.rect.Height-6))
	}
	text := Ellipsize(s, b.Text, b.Font, b.rect.Width-2*margin)
	w := s.MeasureText(text, b.Font)
	h := surface.LineHeight(b.Font)
	x := b.rect.X + margin
	if b.Align == AlignCentre {
		x = b.rect.X + (b.rect.Width-w)/2
	}
	s.SetFill(fg)
	s.FillText(text, geom.Point{X: x, Y: b.rect.Y + (b.rect.Height-h)/2}, b.Font)
}

func (b *Button) HandleMessage(msg wm.Message) bool {
	switch m := msg.(type) {
	case wm.MouseDown:
		if m.Button != wm.ButtonLeft {
			return false
		}
		if b.OnClick != nil {
			b.OnClick()
		}
		return true
	case wm.KeyDown:
		if !b.focused || m.Key != "Enter" {
			return false
		}
		if b.OnClick != nil {
			b.OnClick()
		}
		return true
	case wm.MouseMove:
		if !b.Highlight {
			return false
		}
		over := b.rect.Contains(m.Point)
		if over == b.hovered {
			return false
		}
		b.hovered = over
		return true
	}
	return false
}
