package wm

import (
	"fmt"
	"strings"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/theme"
)

// Request is an upward, data-only message asking the manager to perform a
// privileged effect. The set of variants is closed.
type Request interface {
	Kind() RequestKind
}

// RequestKind tags each Request variant.
type RequestKind int

const (
	KindCloseWindow RequestKind = iota
	KindOpenWindow
	KindFocusWindow
	KindChangeCursor
	KindChangeCoords
	KindChangeTheme
	KindChangeSettings
	KindChangeDesktopBackground
	KindReadFileSystem
	KindWriteFileSystem
	KindRemoveFileSystem
	KindResolveApproval
)

func (k RequestKind) String() string {
	switch k {
	case KindCloseWindow:
		return "CloseWindow"
	case KindOpenWindow:
		return "OpenWindow"
	case KindFocusWindow:
		return "FocusWindow"
	case KindChangeCursor:
		return "ChangeCursor"
	case KindChangeCoords:
		return "ChangeCoords"
	case KindChangeTheme:
		return "ChangeTheme"
	case KindChangeSettings:
		return "ChangeSettings"
	case KindChangeDesktopBackground:
		return "ChangeDesktopBackground"
	case KindReadFileSystem:
		return "ReadFileSystem"
	case KindWriteFileSystem:
		return "WriteFileSystem"
	case KindRemoveFileSystem:
		return "RemoveFileSystem"
	case KindResolveApproval:
		return "ResolveApproval"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(k))
	}
}

// Cursor is the pointer shape shown over the display.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorMove      Cursor = "move"
	CursorColResize Cursor = "col-resize"
	CursorRowResize Cursor = "row-resize"
)

// Permission names a file-system capability an application may hold.
type Permission string

const (
	PermissionReadAll  Permission = "read_all_file_system"
	PermissionWriteAll Permission = "write_all_file_system"
)

// CloseWindow closes Target, or the issuer when Target is empty.
type CloseWindow struct{ Target string }

// OpenWindow opens a registered application by name.
type OpenWindow struct{ App string }

// FocusWindow raises and focuses Target, or the issuer when Target is empty.
type FocusWindow struct{ Target string }

// ChangeCursor sets the display cursor.
type ChangeCursor struct{ Cursor Cursor }

// ChangeCoords moves the issuer by Delta. StickBottom instead pins the
// issuer to the bottom edge of the display.
type ChangeCoords struct {
	Delta       geom.Point
	StickBottom bool
}

// ChangeThemeRequest asks the manager to switch themes.
type ChangeThemeRequest struct{ Theme theme.Theme }

// ChangeSettings carries only the settings that changed.
type ChangeSettings struct{ Changed SettingsPatch }

// ChangeDesktopBackground sets a solid "#rrggbb" background.
type ChangeDesktopBackground struct{ Color string }

type ReadFileSystem struct {
	Permission Permission
	Path       string
}

type WriteFileSystem struct {
	Permission Permission
	Path       string
	Content    string
}

type RemoveFileSystem struct {
	Permission Permission
	Path       string
}

// ResolveApproval answers a pending prompt. Only the prompt window the
// manager opened for ID may send it.
type ResolveApproval struct {
	ID    string
	Allow bool
}

func (CloseWindow) Kind() RequestKind             { return KindCloseWindow }
func (OpenWindow) Kind() RequestKind              { return KindOpenWindow }
func (FocusWindow) Kind() RequestKind             { return KindFocusWindow }
func (ChangeCursor) Kind() RequestKind            { return KindChangeCursor }
func (ChangeCoords) Kind() RequestKind            { return KindChangeCoords }
func (ChangeThemeRequest) Kind() RequestKind      { return KindChangeTheme }
func (ChangeSettings) Kind() RequestKind          { return KindChangeSettings }
func (ChangeDesktopBackground) Kind() RequestKind { return KindChangeDesktopBackground }
func (ReadFileSystem) Kind() RequestKind          { return KindReadFileSystem }
func (WriteFileSystem) Kind() RequestKind         { return KindWriteFileSystem }
func (RemoveFileSystem) Kind() RequestKind        { return KindRemoveFileSystem }
func (ResolveApproval) Kind() RequestKind         { return KindResolveApproval }

// Envelope is a request stamped by the manager with who sent it.
type Envelope struct {
	Request Request
	Issuer  string
	Layer   string
	Trusted bool
}

// Status is the disposition of a request.
type Status int

const (
	// StatusApplied means the effect happened.
	StatusApplied Status = iota
	// StatusPending means an approval prompt was opened; the result arrives
	// later as a RequestCompleted message.
	StatusPending
	// StatusDropped means the request was refused or denied with no effect.
	StatusDropped
	// StatusInvalid means the payload failed validation.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusPending:
		return "pending"
	case StatusDropped:
		return "dropped"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is what the manager reports back to the issuer.
type Outcome struct {
	Status Status
	// Content and Found are set for ReadFileSystem.
	Content string
	Found   bool
	// OK is set for WriteFileSystem and RemoveFileSystem.
	OK bool
	// Reason explains Invalid and Dropped outcomes.
	Reason string
	// Approval is the prompt id for Pending outcomes.
	Approval string
	// Window is the id of the entity created by OpenWindow.
	Window string
}

func applied() Outcome                { return Outcome{Status: StatusApplied} }
func dropped(reason string) Outcome   { return Outcome{Status: StatusDropped, Reason: reason} }
func invalid(reason string) Outcome   { return Outcome{Status: StatusInvalid, Reason: reason} }
func pending(approval string) Outcome { return Outcome{Status: StatusPending, Approval: approval} }

// Describe renders a request as a short sentence for approval prompts and
// audit logs.
func Describe(req Request) string {
	switch r := req.(type) {
	case CloseWindow:
		if r.Target == "" {
			return "close itself"
		}
		return fmt.Sprintf("close window %s", r.Target)
	case OpenWindow:
		return fmt.Sprintf("open %s", r.App)
	case FocusWindow:
		if r.Target == "" {
			return "focus itself"
		}
		return fmt.Sprintf("focus window %s", r.Target)
	case ChangeCursor:
		return fmt.Sprintf("change cursor to %s", r.Cursor)
	case ChangeCoords:
		return "move itself"
	case ChangeThemeRequest:
		return fmt.Sprintf("change theme to %s", r.Theme)
	case ChangeSettings:
		return "change settings"
	case ChangeDesktopBackground:
		return fmt.Sprintf("set background to %s", r.Color)
	case ReadFileSystem:
		return fmt.Sprintf("read %s", r.Path)
	case WriteFileSystem:
		return fmt.Sprintf("write %s", r.Path)
	case RemoveFileSystem:
		return fmt.Sprintf("remove %s", r.Path)
	case ResolveApproval:
		return fmt.Sprintf("resolve approval %s", r.ID)
	default:
		return strings.ToLower(req.Kind().String())
	}
}
