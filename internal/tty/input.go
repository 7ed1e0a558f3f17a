package tty

import (
	"unicode"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/wm"
	tea "github.com/charmbracelet/bubbletea"
)

// wheelStep is the scroll delta of one wheel notch.
const wheelStep = 40

var teaKeys = map[tea.KeyType]string{
	tea.KeyEnter:     "Enter",
	tea.KeyEsc:       "Escape",
	tea.KeyBackspace: "Backspace",
	tea.KeyDelete:    "Delete",
	tea.KeyTab:       "Tab",
	tea.KeySpace:     " ",
	tea.KeyLeft:      "ArrowLeft",
	tea.KeyRight:     "ArrowRight",
	tea.KeyUp:        "ArrowUp",
	tea.KeyDown:      "ArrowDown",
	tea.KeyHome:      "Home",
	tea.KeyEnd:       "End",
}

// keyDown translates a terminal key press. Control chords other than the
// ones above have no shell meaning and report false.
func keyDown(msg tea.KeyMsg) (wm.KeyDown, bool) {
	if msg.Type == tea.KeyShiftTab {
		return wm.KeyDown{Key: "Tab", Shift: true, Alt: msg.Alt}, true
	}
	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return wm.KeyDown{}, false
		}
		r := msg.Runes[0]
		return wm.KeyDown{Key: string(r), Alt: msg.Alt, Shift: unicode.IsUpper(r)}, true
	}
	key, ok := teaKeys[msg.Type]
	if !ok {
		return wm.KeyDown{}, false
	}
	return wm.KeyDown{Key: key, Alt: msg.Alt}, true
}

// cellSize is the display area one terminal cell covers.
type cellSize struct{ w, h int }

// centre maps cell coordinates to the display pixel in the middle of the
// cell.
func (c cellSize) centre(x, y int) geom.Point {
	return geom.Point{X: x*c.w + c.w/2, Y: y*c.h + c.h/2}
}

func mouseMessages(msg tea.MouseMsg, cell cellSize) []wm.Message {
	p := cell.centre(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		return []wm.Message{wm.MouseMove{Point: p}}
	case tea.MouseActionRelease:
		if b, ok := mouseButton(msg.Button); ok {
			return []wm.Message{wm.MouseUp{Point: p, Button: b}}
		}
		// Some terminals do not report which button was released.
		return []wm.Message{wm.MouseUp{Point: p, Button: wm.ButtonLeft}}
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return []wm.Message{wm.Wheel{DeltaY: -wheelStep}}
		case tea.MouseButtonWheelDown:
			return []wm.Message{wm.Wheel{DeltaY: wheelStep}}
		}
		b, ok := mouseButton(msg.Button)
		if !ok {
			return nil
		}
		msgs := []wm.Message{wm.MouseDown{Point: p, Button: b}}
		if b == wm.ButtonRight {
			msgs = append(msgs, wm.ContextMenu{Point: p})
		}
		return msgs
	}
	return nil
}

func mouseButton(b tea.MouseButton) (wm.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return wm.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return wm.ButtonMiddle, true
	case tea.MouseButtonRight:
		return wm.ButtonRight, true
	}
	return 0, false
}
