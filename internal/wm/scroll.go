package wm

import "github.com/1broseidon/mingde/internal/shortcuts"

// ScrollStep is how far one up/down shortcut scrolls.
const ScrollStep = 40

// Scroller keeps a vertical viewport offset into content taller than the
// window. The offset stays within [0, content-viewport].
type Scroller struct {
	Offset   int
	Content  int
	Viewport int
}

func (s *Scroller) maxOffset() int {
	if m := s.Content - s.Viewport; m > 0 {
		return m
	}
	return 0
}

// ScrollTo sets the offset, clamped. It reports whether it moved.
func (s *Scroller) ScrollTo(y int) bool {
	y = max(0, min(y, s.maxOffset()))
	if y == s.Offset {
		return false
	}
	s.Offset = y
	return true
}

// ScrollBy moves the offset by d, clamped.
func (s *Scroller) ScrollBy(d int) bool { return s.ScrollTo(s.Offset + d) }

// SetContent updates the content height and re-clamps the offset.
func (s *Scroller) SetContent(h int) {
	s.Content = h
	s.ScrollTo(s.Offset)
}

// Scrollable reports whether there is anything to scroll.
func (s *Scroller) Scrollable() bool { return s.Content > s.Viewport }

// Handle applies Wheel and up/down shortcuts.
func (s *Scroller) Handle(msg Message) (handled, changed bool) {
	switch m := msg.(type) {
	case Wheel:
		return true, s.ScrollBy(m.DeltaY)
	case GenericShortcut:
		switch m.Action {
		case shortcuts.Up:
			return true, s.ScrollBy(-ScrollStep)
		case shortcuts.Down:
			return true, s.ScrollBy(ScrollStep)
		}
	}
	return false, false
}
