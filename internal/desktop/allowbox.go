package desktop

import (
	"fmt"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

var allowBoxSize = geom.Size{Width: 280, Height: 120}

const dialogButtonWidth = 75

// AllowBox asks the user to allow or deny a held request. It answers with a
// ResolveApproval carrying its own token; closing it denies.
type AllowBox struct {
	win    *Window
	prompt wm.Prompt
	text   *widget.Paragraph
	deny   *widget.Button
	allow  *widget.Button
	focus  wm.FocusCycler
}

// NewAllowBox builds the prompt window for p.
func NewAllowBox(p wm.Prompt) *Window {
	a := &AllowBox{prompt: p}
	w := NewWindow("allow-box", "Permission Request", allowBoxSize, a)
	w.OnClose = func() { a.answer(false) }
	return w
}

func (a *AllowBox) Mount(w *Window) {
	a.win = w
	size := w.Size()
	a.text = widget.NewParagraph(
		fmt.Sprintf("Window %s wants to %s.", a.prompt.Issuer, a.prompt.Description),
		geom.R(8, TitleHeight+8, size.Width-16, size.Height-TitleHeight-48),
		surface.FontNormal)
	y := size.Height - 33
	a.deny = widget.NewButton("Deny", geom.R(size.Width-2*dialogButtonWidth-16, y, dialogButtonWidth, 25), func() { a.answer(false) })
	a.allow = widget.NewButton("Allow", geom.R(size.Width-dialogButtonWidth-8, y, dialogButtonWidth, 25), func() { a.answer(true) })
	content(w).Add(a.text, a.deny, a.allow)
}

// Prompt returns the request description being asked about.
func (a *AllowBox) Prompt() wm.Prompt { return a.prompt }

func (a *AllowBox) answer(allow bool) {
	a.win.Request(wm.ResolveApproval{ID: a.prompt.ID, Allow: allow})
}

func (a *AllowBox) Paint(surface.Surface, theme.Info, geom.Rect) {}

func (a *AllowBox) Handle(msg wm.Message) bool {
	_, changed := a.focus.Handle(wm.Focusables(a.win.Components()), msg)
	return changed
}

// Prompter builds AllowBoxes centred on the display.
type Prompter struct{}

func (Prompter) Prompt(p wm.Prompt, display geom.Size) wm.WindowLike {
	w := NewAllowBox(p)
	w.SetOrigin(centre(w.Size(), display))
	return w
}

func centre(size, display geom.Size) geom.Point {
	return geom.Point{
		X: max(0, (display.Width-size.Width)/2),
		Y: max(0, (display.Height-size.Height)/2),
	}
}

// AlertBox shows a message with an OK button that closes it.
type AlertBox struct {
	win  *Window
	text string
	body *widget.Paragraph
}

// NewAlertBox builds an alert window sized for roughly a paragraph of text.
func NewAlertBox(title, text string, size geom.Size) *Window {
	return NewWindow("alert-box", title, size, &AlertBox{text: text})
}

func (a *AlertBox) Mount(w *Window) {
	a.win = w
	size := w.Size()
	a.body = widget.NewParagraph(a.text,
		geom.R(8, TitleHeight+8, size.Width-16, size.Height-TitleHeight-48),
		surface.FontNormal)
	ok := widget.NewButton("OK", geom.R(size.Width-dialogButtonWidth-8, size.Height-33, dialogButtonWidth, 25), w.Close)
	content(w).Add(a.body, ok)
}

func (a *AlertBox) Paint(surface.Surface, theme.Info, geom.Rect) {}

func (a *AlertBox) Handle(msg wm.Message) bool {
	if k, ok := msg.(wm.KeyDown); ok && !k.Alt && (k.Key == "Enter" || k.Key == "Escape") {
		a.win.Close()
	}
	return false
}
