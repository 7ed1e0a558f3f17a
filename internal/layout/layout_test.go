package layout

import (
	"testing"

	"github.com/1broseidon/mingde/internal/geom"
)

func TestSlotWidth(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 225}, {4, 225}, {5, 175}, {6, 175}, {7, 125}, {20, 125},
	}
	for _, tt := range tests {
		if got := SlotWidth(tt.count); got != tt.want {
			t.Fatalf("SlotWidth(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestSlotsOverflow(t *testing.T) {
	slots, hidden := Slots(4, 42, 4, 30, 4, 800, 100)
	// x = 42 + 229*i + 8; the third button ends at 42+458+8+225 = 733 > 700.
	if len(slots) != 2 || hidden != 2 {
		t.Fatalf("expected 2 slots and 2 hidden, got %d and %d", len(slots), hidden)
	}
	if slots[1].X != 42+229+8 {
		t.Fatalf("slot 1 x = %d", slots[1].X)
	}
}

func TestCascadeWraps(t *testing.T) {
	area := geom.R(0, 0, 400, 300)
	size := geom.Size{Width: 300, Height: 200}
	// spans are 100x100 so there are 100/30+1 = 4 distinct positions.
	if got := Cascade(1, size, area); got != (geom.Point{X: 30, Y: 30}) {
		t.Fatalf("Cascade(1) = %+v", got)
	}
	if got := Cascade(4, size, area); got != (geom.Point{}) {
		t.Fatalf("Cascade(4) should wrap to origin, got %+v", got)
	}
}

func TestClamp(t *testing.T) {
	area := geom.R(0, 0, 800, 600)
	got := Clamp(geom.R(-500, -20, 200, 100), area)
	if got.X != -200+MinVisible || got.Y != 0 {
		t.Fatalf("Clamp = %+v", got)
	}
	got = Clamp(geom.R(900, 700, 200, 100), area)
	if got.X != 800-MinVisible || got.Y != 600-MinVisible {
		t.Fatalf("Clamp = %+v", got)
	}
}

func TestWorkAreaAndStickBottom(t *testing.T) {
	display := geom.Size{Width: 1024, Height: 768}
	if got := WorkArea(display); got.Height != 768-TaskbarHeight {
		t.Fatalf("WorkArea = %+v", got)
	}
	bar := StickBottom(geom.R(5, 5, 1024, TaskbarHeight), display)
	if bar.Y != 768-TaskbarHeight || bar.X != 0 {
		t.Fatalf("StickBottom = %+v", bar)
	}
}
