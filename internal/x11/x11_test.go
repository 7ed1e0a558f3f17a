package x11

import (
	"testing"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
)

func TestKeyDown(t *testing.T) {
	tests := []struct {
		sym   string
		state uint16
		want  wm.KeyDown
		ok    bool
	}{
		{"Return", 0, wm.KeyDown{Key: "Enter"}, true},
		{"Left", 0, wm.KeyDown{Key: "ArrowLeft"}, true},
		{"BackSpace", 0, wm.KeyDown{Key: "Backspace"}, true},
		{"h", xproto.ModMask1, wm.KeyDown{Key: "h", Alt: true}, true},
		{"L", xproto.ModMaskShift | xproto.ModMaskControl, wm.KeyDown{Key: "L", Ctrl: true, Shift: true}, true},
		{"Control_L", xproto.ModMaskControl, wm.KeyDown{Key: "Control", Ctrl: true}, true},
		{"F13", 0, wm.KeyDown{}, false},
	}
	for _, tt := range tests {
		got, ok := keyDown(tt.sym, tt.state)
		if ok != tt.ok || got != tt.want {
			t.Errorf("keyDown(%q, %#x) = %#v, %v; want %#v, %v", tt.sym, tt.state, got, ok, tt.want, tt.ok)
		}
	}
}

func TestButtonMessage(t *testing.T) {
	p := geom.Point{X: 3, Y: 4}
	if msgs := buttonMessage(3, p); len(msgs) != 2 {
		t.Fatalf("right click should also open a context menu, got %#v", msgs)
	}
	if msgs := buttonMessage(5, p); len(msgs) != 1 || msgs[0] != (wm.Wheel{DeltaY: wheelStep}) {
		t.Fatalf("wheel down = %#v", msgs)
	}
	if msgs := buttonMessage(9, p); msgs != nil {
		t.Fatalf("unknown button = %#v", msgs)
	}
}

func TestPlace(t *testing.T) {
	area := geom.R(1920, 0, 1920, 1040)
	tests := []struct {
		size geom.Size
		want geom.Rect
	}{
		{geom.Size{Width: 800, Height: 600}, geom.R(2480, 220, 800, 600)},
		{geom.Size{Width: 4000, Height: 600}, geom.R(1920, 220, 1920, 600)},
	}
	for _, tt := range tests {
		if got := place(tt.size, area); got != tt.want {
			t.Errorf("place(%v) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{Name: "left", Bounds: geom.R(0, 0, 1920, 1080)},
		{Name: "right", Bounds: geom.R(1920, 0, 1920, 1080)},
	}
	fallback := geom.R(0, 0, 1, 1)
	if got := monitorAt(monitors, geom.Point{X: 2000, Y: 10}, fallback); got != monitors[1].Bounds {
		t.Fatalf("monitorAt = %v", got)
	}
	if got := monitorAt(monitors, geom.Point{X: -5, Y: 10}, fallback); got != fallback {
		t.Fatalf("off-screen pointer should fall back, got %v", got)
	}
}
