package wm

import "github.com/1broseidon/mingde/internal/shortcuts"

// FocusCycler tracks which focusable component of a window holds keyboard
// focus. Windows embed it and feed it GenericShortcut and KeyDown messages.
type FocusCycler struct {
	index int
	set   bool
}

// Index returns the focused position, or -1 when nothing is focused.
func (f *FocusCycler) Index() int {
	if !f.set {
		return -1
	}
	return f.index
}

// Wrap steps index by delta over n items with wrap-around.
func Wrap(index, delta, n int) int {
	if n <= 0 {
		return 0
	}
	index += delta
	if index < 0 {
		return n - 1
	}
	if index >= n {
		return 0
	}
	return index
}

// Cycle applies a cycle-focus action to items. The first left or right
// focuses the first item; later ones step with wrap-around. Cancel
// unfocuses and clears. It reports whether anything changed.
func (f *FocusCycler) Cycle(items []Focusable, action shortcuts.Action) bool {
	switch action {
	case shortcuts.CycleFocusLeft, shortcuts.CycleFocusRight:
		if len(items) == 0 {
			return false
		}
		if !f.set || f.index >= len(items) {
			f.set, f.index = true, 0
		} else {
			items[f.index].Unfocus()
			delta := 1
			if action == shortcuts.CycleFocusLeft {
				delta = -1
			}
			f.index = Wrap(f.index, delta, len(items))
		}
		items[f.index].Focus()
		return true
	case shortcuts.CycleFocusCancel:
		if !f.set {
			return false
		}
		if f.index < len(items) {
			items[f.index].Unfocus()
		}
		f.set, f.index = false, 0
		return true
	}
	return false
}

// FocusAt moves focus to items[i], for windows that focus a component on
// click.
func (f *FocusCycler) FocusAt(items []Focusable, i int) bool {
	if i < 0 || i >= len(items) {
		return false
	}
	if f.set && f.index == i {
		return false
	}
	if f.set && f.index < len(items) {
		items[f.index].Unfocus()
	}
	f.set, f.index = true, i
	items[i].Focus()
	return true
}

// FocusOn focuses the given item if it is in items.
func (f *FocusCycler) FocusOn(items []Focusable, c Component) bool {
	for i, it := range items {
		if Component(it) == c {
			return f.FocusAt(items, i)
		}
	}
	return false
}

// Focused returns the currently focused item.
func (f *FocusCycler) Focused(items []Focusable) (Focusable, bool) {
	if !f.set || f.index >= len(items) {
		return nil, false
	}
	return items[f.index], true
}

// Enter forwards msg only to the focused item.
func (f *FocusCycler) Enter(items []Focusable, msg KeyDown) bool {
	c, ok := f.Focused(items)
	if !ok {
		return false
	}
	return c.HandleMessage(msg)
}

// Handle routes the messages the cycler cares about and reports whether it
// consumed msg and whether anything changed.
func (f *FocusCycler) Handle(items []Focusable, msg Message) (handled, changed bool) {
	switch m := msg.(type) {
	case GenericShortcut:
		switch m.Action {
		case shortcuts.CycleFocusLeft, shortcuts.CycleFocusRight, shortcuts.CycleFocusCancel:
			return true, f.Cycle(items, m.Action)
		}
	case KeyDown:
		if _, ok := f.Focused(items); ok && !m.Alt {
			return true, f.Enter(items, m)
		}
	}
	return false, false
}
