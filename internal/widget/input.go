package widget

import (
	"unicode/utf8"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

// Validation is the local result of checking an input's value.
type Validation int

const (
	Unchecked Validation = iota
	Valid
	Invalid
)

// TextInput is a focusable single-line editor. It only edits while focused;
// the owning window decides when to focus it.
type TextInput struct {
	Base
	Placeholder string
	Font        surface.Font
	Valid       Validation
	// OnSubmit runs on Enter with the current value.
	OnSubmit func(value string)

	value   []rune
	cursor  int
	focused bool
}

func NewTextInput(placeholder string, r geom.Rect) *TextInput {
	return &TextInput{Base: newBase("text-input", r, true), Placeholder: placeholder}
}

func (t *TextInput) Value() string { return string(t.value) }

// SetValue replaces the text and moves the cursor to the end.
func (t *TextInput) SetValue(v string) {
	t.value = []rune(v)
	t.cursor = len(t.value)
}

func (t *TextInput) Cursor() int { return t.cursor }

func (t *TextInput) Focus()        { t.focused = true }
func (t *TextInput) Focused() bool { return t.focused }

func (t *TextInput) Unfocus() {
	t.focused = false
	t.cursor = len(t.value)
}

func (t *TextInput) Render(s surface.Surface, info theme.Info) {
	s.SetFill(info.Background)
	s.FillRect(t.rect)
	switch {
	case t.focused:
		s.SetStroke(info.Highlight)
	case t.Valid == Invalid:
		s.SetStroke(invalidColour)
	case t.Valid == Valid:
		s.SetStroke(validColour)
	default:
		s.SetStroke(info.BorderRightBottom)
	}
	s.StrokeRect(t.rect)

	inner := t.rect.Width - 2*margin
	text := t.visible(s, inner)
	origin := geom.Point{X: t.rect.X + margin, Y: t.rect.Y + (t.rect.Height-surface.LineHeight(t.Font))/2}
	if len(t.value) == 0 {
		s.SetFill(info.TextPrimary)
		s.FillText(Ellipsize(s, t.Placeholder, t.Font, inner), origin, t.Font)
		return
	}
	if t.focused {
		before := s.MeasureText(string(text.runes[:text.cursor]), t.Font)
		cw := s.MeasureText("a", t.Font)
		s.SetFill(info.Highlight)
		s.FillRect(geom.R(origin.X+before, t.rect.Y+2, cw, t.rect.Height-4))
	}
	s.SetFill(info.TextPrimary)
	s.FillText(string(text.runes), origin, t.Font)
}

type span struct {
	runes  []rune
	cursor int
}

// visible returns the slice of the value that fits in width and keeps the
// cursor in view.
func (t *TextInput) visible(s surface.Surface, width int) span {
	start := 0
	for start < t.cursor && s.MeasureText(string(t.value[start:t.cursor]), t.Font) > width {
		start++
	}
	end := t.cursor
	for end < len(t.value) && s.MeasureText(string(t.value[start:end+1]), t.Font) <= width {
		end++
	}
	return span{runes: t.value[start:end], cursor: t.cursor - start}
}

func (t *TextInput) HandleMessage(msg wm.Message) bool {
	k, ok := msg.(wm.KeyDown)
	if !ok || !t.focused {
		return false
	}
	switch k.Key {
	case "Enter":
		if t.OnSubmit != nil {
			t.OnSubmit(t.Value())
		}
	case "Backspace":
		if t.cursor == 0 {
			return false
		}
		t.value = append(t.value[:t.cursor-1], t.value[t.cursor:]...)
		t.cursor--
	case "ArrowLeft":
		t.cursor = max(0, t.cursor-1)
	case "ArrowRight":
		t.cursor = min(len(t.value), t.cursor+1)
	default:
		if utf8.RuneCountInString(k.Key) != 1 || k.Ctrl {
			return false
		}
		r, _ := utf8.DecodeRuneInString(k.Key)
		t.value = append(t.value[:t.cursor], append([]rune{r}, t.value[t.cursor:]...)...)
		t.cursor++
		t.Valid = Unchecked
	}
	return true
}
