package widget

import (
	"strings"
	"testing"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

func press(x, y int) wm.MouseDown {
	return wm.MouseDown{Point: geom.Point{X: x, Y: y}}
}

func TestButtonClick(t *testing.T) {
	clicks := 0
	b := NewButton("OK", geom.R(0, 0, 50, 20), func() { clicks++ })

	if !b.HandleMessage(press(5, 5)) || clicks != 1 {
		t.Fatalf("left press should click")
	}
	if b.HandleMessage(wm.MouseDown{Point: geom.Point{X: 5, Y: 5}, Button: wm.ButtonRight}) {
		t.Fatalf("right press should not click")
	}
}

func TestButtonHover(t *testing.T) {
	b := NewButton("Menu", geom.R(0, 0, 50, 20), nil)
	b.Highlight = true

	if !b.HandleMessage(wm.MouseMove{Point: geom.Point{X: 5, Y: 5}}) || !b.Hovered() {
		t.Fatalf("moving over should hover")
	}
	if b.HandleMessage(wm.MouseMove{Point: geom.Point{X: 6, Y: 5}}) {
		t.Fatalf("moving within should not report a change")
	}
	if !b.HandleMessage(wm.MouseMove{Point: geom.Point{X: 60, Y: 5}}) || b.Hovered() {
		t.Fatalf("moving out should clear hover")
	}
}

func TestTextInputEditing(t *testing.T) {
	in := NewTextInput("path", geom.R(0, 0, 100, 20))
	if in.HandleMessage(wm.KeyDown{Key: "a"}) {
		t.Fatalf("unfocused input should ignore keys")
	}

	in.Focus()
	for _, k := range []string{"/", "t", "p"} {
		in.HandleMessage(wm.KeyDown{Key: k})
	}
	in.HandleMessage(wm.KeyDown{Key: "ArrowLeft"})
	in.HandleMessage(wm.KeyDown{Key: "m"})
	if in.Value() != "/tmp" {
		t.Fatalf("value = %q", in.Value())
	}
	in.HandleMessage(wm.KeyDown{Key: "Backspace"})
	if in.Value() != "/tp" || in.Cursor() != 2 {
		t.Fatalf("after backspace value = %q cursor = %d", in.Value(), in.Cursor())
	}
	if in.HandleMessage(wm.KeyDown{Key: "Shift"}) {
		t.Fatalf("named keys should not insert text")
	}

	var submitted string
	in.OnSubmit = func(v string) { submitted = v }
	in.HandleMessage(wm.KeyDown{Key: "Enter"})
	if submitted != "/tp" {
		t.Fatalf("submitted %q", submitted)
	}

	in.Unfocus()
	if in.Cursor() != len("/tp") {
		t.Fatalf("unfocus should move cursor to the end")
	}
}

func TestTextInputTypingClearsValidation(t *testing.T) {
	in := NewTextInput("", geom.R(0, 0, 100, 20))
	in.Valid = Invalid
	in.Focus()
	in.HandleMessage(wm.KeyDown{Key: "x"})
	if in.Valid != Unchecked {
		t.Fatalf("editing should reset validation")
	}
}

func TestCheckboxToggles(t *testing.T) {
	var got []bool
	c := NewCheckbox("Shortcuts", geom.Point{}, 100, true)
	c.OnToggle = func(v bool) { got = append(got, v) }
	c.HandleMessage(press(1, 1))
	c.HandleMessage(press(1, 1))
	if len(got) != 2 || got[0] || !got[1] {
		t.Fatalf("toggles = %v", got)
	}
}

func TestCarouselWraps(t *testing.T) {
	c := NewCarousel([]string{"a", "b", "c"}, geom.R(0, 0, 120, 20), 0)
	c.HandleMessage(press(2, 2))
	if c.Value() != "c" {
		t.Fatalf("left arrow from first should wrap, got %q", c.Value())
	}
	c.HandleMessage(press(118, 2))
	if c.Value() != "a" {
		t.Fatalf("right arrow from last should wrap, got %q", c.Value())
	}
	if c.HandleMessage(press(60, 2)) {
		t.Fatalf("middle press should do nothing")
	}
}

func TestWrapAndEllipsize(t *testing.T) {
	s := surface.NewRaster(geom.Size{Width: 1, Height: 1})
	cw := s.MeasureText("a", surface.FontNormal)

	lines := Wrap(s, "aaa bbb ccc\nd", surface.FontNormal, cw*7)
	want := []string{"aaa bbb", "ccc", "d"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("Wrap = %q", lines)
	}

	long := Wrap(s, "abcdefgh", surface.FontNormal, cw*3)
	if strings.Join(long, "|") != "abc|def|gh" {
		t.Fatalf("long word wrap = %q", long)
	}

	if got := Ellipsize(s, "abcdefgh", surface.FontNormal, cw*6); got != "abc..." {
		t.Fatalf("Ellipsize = %q", got)
	}
}

func TestRenderDoesNotPanic(t *testing.T) {
	s := surface.NewRaster(geom.Size{Width: 200, Height: 100})
	info := theme.Night.Info()
	in := NewTextInput("type here", geom.R(0, 0, 60, 20))
	in.Focus()
	in.SetValue("a fairly long value that scrolls")
	components := []wm.Component{
		NewButton("Start", geom.R(0, 0, 40, 20), nil),
		NewLabel("title", geom.R(0, 20, 100, 14), surface.FontBold),
		NewParagraph("some words here", geom.R(0, 40, 60, 40), surface.FontNormal),
		in,
		NewCheckbox("box", geom.Point{X: 0, Y: 80}, 80, true),
		NewCarousel([]string{"Standard"}, geom.R(100, 0, 100, 20), 0),
	}
	for _, c := range components {
		c.Render(s, info)
	}
}
