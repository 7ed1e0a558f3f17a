package widget

import (
	"strings"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

// Colour picks which theme colour a piece of text uses.
type Colour int

const (
	ColourPrimary Colour = iota
	ColourTop
	ColourAlt
)

// Label is a single line of text, cut with "..." when it overflows.
type Label struct {
	Base
	Text   string
	Font   surface.Font
	Colour Colour
}

func NewLabel(text string, r geom.Rect, f surface.Font) *Label {
	return &Label{Base: newBase("text-line", r, false), Text: text, Font: f}
}

func (l *Label) Render(s surface.Surface, info theme.Info) {
	setFill(s, l.Colour, info)
	s.FillText(Ellipsize(s, l.Text, l.Font, l.rect.Width), l.rect.Origin(), l.Font)
}

func (l *Label) HandleMessage(wm.Message) bool { return false }

// Paragraph is word-wrapped text. Lines that do not fit below the rect are
// not drawn.
type Paragraph struct {
	Base
	Text   string
	Font   surface.Font
	Colour Colour
	// Offset scrolls the text up by that many device units.
	Offset int
}

func NewParagraph(text string, r geom.Rect, f surface.Font) *Paragraph {
	return &Paragraph{Base: newBase("paragraph", r, false), Text: text, Font: f}
}

// Lines wraps the text to the paragraph width.
func (p *Paragraph) Lines(s surface.Surface) []string {
	return Wrap(s, p.Text, p.Font, p.rect.Width)
}

// Height is the height of the wrapped text.
func (p *Paragraph) Height(s surface.Surface) int {
	return len(p.Lines(s)) * surface.LineHeight(p.Font)
}

func (p *Paragraph) Render(s surface.Surface, info theme.Info) {
	setFill(s, p.Colour, info)
	lh := surface.LineHeight(p.Font)
	y := p.rect.Y - p.Offset
	for _, line := range p.Lines(s) {
		if y+lh > p.rect.Bottom() {
			return
		}
		if y >= p.rect.Y {
			s.FillText(line, geom.Point{X: p.rect.X, Y: y}, p.Font)
		}
		y += lh
	}
}

func (p *Paragraph) HandleMessage(wm.Message) bool { return false }

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept, and words longer than a line are split by rune.
func Wrap(s surface.Surface, text string, f surface.Font, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if s.MeasureText(candidate, f) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = ""
			for _, r := range word {
				if line != "" && s.MeasureText(line+string(r), f) > width {
					lines = append(lines, line)
					line = ""
				}
				line += string(r)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func setFill(s surface.Surface, c Colour, info theme.Info) {
	switch c {
	case ColourTop:
		s.SetFill(info.TextTop)
	case ColourAlt:
		s.SetFill(info.AltText)
	default:
		s.SetFill(info.TextPrimary)
	}
}
