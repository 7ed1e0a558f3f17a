package x11

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
)

// xKeyNames maps X keysym names to the key names the shell uses.
var xKeyNames = map[string]string{
	"Return":    "Enter",
	"KP_Enter":  "Enter",
	"Escape":    "Escape",
	"BackSpace": "Backspace",
	"Delete":    "Delete",
	"Tab":       "Tab",
	"space":     " ",
	"Left":      "ArrowLeft",
	"Right":     "ArrowRight",
	"Up":        "ArrowUp",
	"Down":      "ArrowDown",
	"Home":      "Home",
	"End":       "End",
	"Control_L": "Control",
	"Control_R": "Control",
	"Shift_L":   "Shift",
	"Shift_R":   "Shift",
	"Alt_L":     "Alt",
	"Alt_R":     "Alt",
}

// keyDown builds a KeyDown from a looked-up keysym name and the modifier
// state of the event. It reports false for keys the shell has no name for.
func keyDown(sym string, state uint16) (wm.KeyDown, bool) {
	key, ok := xKeyNames[sym]
	if !ok {
		if len([]rune(sym)) != 1 {
			return wm.KeyDown{}, false
		}
		key = sym
	}
	return wm.KeyDown{
		Key:   key,
		Alt:   state&xproto.ModMask1 != 0,
		Ctrl:  state&xproto.ModMaskControl != 0,
		Shift: state&xproto.ModMaskShift != 0,
	}, true
}

// wheelStep is the scroll delta of one wheel notch.
const wheelStep = 40

// buttonMessage translates a core button press. Buttons 4 and 5 are the
// wheel.
func buttonMessage(detail xproto.Button, p geom.Point) []wm.Message {
	switch detail {
	case 1:
		return []wm.Message{wm.MouseDown{Point: p, Button: wm.ButtonLeft}}
	case 2:
		return []wm.Message{wm.MouseDown{Point: p, Button: wm.ButtonMiddle}}
	case 3:
		return []wm.Message{
			wm.MouseDown{Point: p, Button: wm.ButtonRight},
			wm.ContextMenu{Point: p},
		}
	case 4:
		return []wm.Message{wm.Wheel{DeltaY: -wheelStep}}
	case 5:
		return []wm.Message{wm.Wheel{DeltaY: wheelStep}}
	}
	return nil
}
