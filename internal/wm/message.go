package wm

import (
	"time"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/theme"
)

// Message is a downward UI message delivered by the manager to a
// WindowLike, and by a WindowLike to its components. The set of variants is
// closed.
type Message interface {
	isMessage()
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Pointer is implemented by messages that carry a position.
type Pointer interface {
	Message
	Pos() geom.Point
	// At returns a copy of the message positioned at p.
	At(p geom.Point) Pointer
}

type MouseMove struct{ Point geom.Point }

type MouseDown struct {
	Point  geom.Point
	Button Button
}

type MouseUp struct {
	Point  geom.Point
	Button Button
}

type ContextMenu struct{ Point geom.Point }

func (m MouseMove) Pos() geom.Point   { return m.Point }
func (m MouseDown) Pos() geom.Point   { return m.Point }
func (m MouseUp) Pos() geom.Point     { return m.Point }
func (m ContextMenu) Pos() geom.Point { return m.Point }

func (m MouseMove) At(p geom.Point) Pointer {
	m.Point = p
	return m
}

func (m MouseDown) At(p geom.Point) Pointer {
	m.Point = p
	return m
}

func (m MouseUp) At(p geom.Point) Pointer {
	m.Point = p
	return m
}

func (m ContextMenu) At(p geom.Point) Pointer {
	m.Point = p
	return m
}

// MouseMoveOutside tells an entity the pointer moved over some other entity.
// Only sent while the cursor is not the default one, so a window that
// changed the cursor can restore it.
type MouseMoveOutside struct{}

// MouseDownOutside tells an entity a press landed somewhere else.
type MouseDownOutside struct{}

// KeyDown carries a host-neutral key name such as "a", "Enter", "Escape",
// "ArrowLeft" or "Backspace".
type KeyDown struct {
	Key   string
	Alt   bool
	Ctrl  bool
	Shift bool
}

// Wheel carries a vertical scroll delta in device units; positive scrolls
// content up.
type Wheel struct{ DeltaY int }

// Resize carries a new size. Hosts send it in host pixels; entities receive
// the scaled display size.
type Resize struct{ Size geom.Size }

// ChangeTheme switches the active colour scheme.
type ChangeTheme struct{ Theme theme.Theme }

// GenericShortcut forwards a shortcut the manager does not handle itself.
type GenericShortcut struct{ Action shortcuts.Action }

// WindowAdded announces a new ordinary window.
type WindowAdded struct {
	ID    string
	Title string
}

// WindowRemoved announces that an ordinary window was closed.
type WindowRemoved struct{ ID string }

// FocusChanged announces the manager-level focused id. ID is empty when
// nothing is focused.
type FocusChanged struct{ ID string }

// TimeUpdate carries the wall clock.
type TimeUpdate struct{ Now time.Time }

// OptionsChanged carries the new render options after a settings or
// background change.
type OptionsChanged struct{ Options Options }

// RequestCompleted delivers the result of a request that was approved after
// being held for a prompt.
type RequestCompleted struct {
	Request Request
	Outcome Outcome
}

func (MouseMove) isMessage()        {}
func (MouseDown) isMessage()        {}
func (MouseUp) isMessage()          {}
func (ContextMenu) isMessage()      {}
func (MouseMoveOutside) isMessage() {}
func (MouseDownOutside) isMessage() {}
func (KeyDown) isMessage()          {}
func (Wheel) isMessage()            {}
func (Resize) isMessage()           {}
func (ChangeTheme) isMessage()      {}
func (GenericShortcut) isMessage()  {}
func (WindowAdded) isMessage()      {}
func (WindowRemoved) isMessage()    {}
func (FocusChanged) isMessage()     {}
func (TimeUpdate) isMessage()       {}
func (OptionsChanged) isMessage()   {}
func (RequestCompleted) isMessage() {}
