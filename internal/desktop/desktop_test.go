package desktop

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/layout"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

type memFS map[string]string

func (f memFS) Read(path string) (string, bool) {
	c, ok := f[path]
	return c, ok
}

func (f memFS) Write(path, content string) bool {
	f[path] = content
	return true
}

func (f memFS) Remove(path string) bool {
	if _, ok := f[path]; !ok {
		return false
	}
	delete(f, path)
	return true
}

type shell struct {
	m       *wm.Manager
	fs      memFS
	bg      *Background
	taskbar *Taskbar
}

var display = geom.Size{Width: 800, Height: 600}

func newShell(t *testing.T) *shell {
	t.Helper()
	fs := memFS{"/notes.txt": "remember the milk"}
	m := wm.New(wm.Config{
		Display:    display,
		Settings:   wm.Settings{Shortcuts: true},
		Opener:     NewRegistry(shortcuts.Default(), nil),
		Prompter:   Prompter{},
		FileSystem: fs,
	})
	s := &shell{m: m, fs: fs, bg: NewBackground(display), taskbar: NewTaskbar(display)}
	m.Attach(wm.LayerDesktop, s.bg)
	m.Attach(wm.LayerTaskbar, s.taskbar)
	m.Render()
	return s
}

// open asks for app the way the start menu would, with a trusted token.
func (s *shell) open(t *testing.T, app string) *Window {
	t.Helper()
	out := s.taskbar.Request(wm.OpenWindow{App: app})
	if out.Status != wm.StatusApplied {
		t.Fatalf("open %s: %s (%s)", app, out.Status, out.Reason)
	}
	w, _, ok := s.m.Entity(out.Window)
	if !ok {
		t.Fatalf("opened window %s not attached", out.Window)
	}
	return w.(*Window)
}

func (s *shell) click(x, y int) {
	s.m.HandleMessage(wm.MouseDown{Point: geom.Point{X: x, Y: y}})
}

func (s *shell) layerLen(name string) int {
	l, _ := s.m.Layer(name)
	return l.Len()
}

func TestOpenedWindowAppearsInTaskbar(t *testing.T) {
	s := newShell(t)
	w := s.open(t, SettingsApp)

	if w.Rect().Origin() != (geom.Point{}) {
		t.Fatalf("first window should cascade to the work area origin, got %+v", w.Rect())
	}
	buttons := s.taskbar.Buttons()
	if len(buttons) != 1 || buttons[0].Text != "Settings" {
		t.Fatalf("taskbar buttons = %+v", buttons)
	}
	if !buttons[0].Inverted {
		t.Fatalf("focused window's button should be inverted")
	}
	if !w.Focused() {
		t.Fatalf("new window should be told it has focus")
	}
}

func TestTaskbarButtonFocusesWindow(t *testing.T) {
	s := newShell(t)
	first := s.open(t, SettingsApp)
	s.open(t, FileViewerApp)

	b := s.taskbar.Buttons()[0]
	origin := s.taskbar.Rect().Origin()
	s.click(origin.X+b.Rect().X+5, origin.Y+b.Rect().Y+5)

	if s.m.Focused() != first.ID() {
		t.Fatalf("focused = %q, want %q", s.m.Focused(), first.ID())
	}
	if !s.taskbar.Buttons()[0].Inverted || s.taskbar.Buttons()[1].Inverted {
		t.Fatalf("inversion should follow focus")
	}
}

func TestTaskbarOverflow(t *testing.T) {
	s := newShell(t)
	for i := 0; i < 8; i++ {
		s.open(t, AboutApp)
	}
	if got := len(s.taskbar.Buttons()); got != 5 {
		t.Fatalf("visible buttons = %d, want 5", got)
	}
	if s.taskbar.Overflow() != 3 {
		t.Fatalf("overflow = %d, want 3", s.taskbar.Overflow())
	}
	for _, b := range s.taskbar.Buttons() {
		if b.Rect().Width != layout.SlotWidth(8) {
			t.Fatalf("slot width = %d", b.Rect().Width)
		}
	}
}

func TestStartButtonTogglesMenu(t *testing.T) {
	s := newShell(t)
	y := display.Height - layout.TaskbarHeight + 10

	s.click(10, y)
	if s.layerLen(wm.LayerStartMenu) != 1 {
		t.Fatalf("start button should open the menu")
	}
	s.click(10, y)
	if s.layerLen(wm.LayerStartMenu) != 0 {
		t.Fatalf("second press should close the menu")
	}
}

func TestStartMenuClosesOnOutsidePress(t *testing.T) {
	s := newShell(t)
	s.click(10, display.Height-layout.TaskbarHeight+10)
	s.click(700, 100)
	if s.layerLen(wm.LayerStartMenu) != 0 {
		t.Fatalf("press on the desktop should close the menu")
	}
}

func TestStartMenuLaunchesApp(t *testing.T) {
	s := newShell(t)
	s.click(10, display.Height-layout.TaskbarHeight+10)
	l, _ := s.m.Layer(wm.LayerStartMenu)
	menu := l.Members()[0].(*StartMenu)
	o := menu.Rect().Origin()

	s.click(o.X+menuStrip+5, o.Y+8)
	if menu.Active() != "Utilities" {
		t.Fatalf("active category = %q", menu.Active())
	}
	s.click(o.X+menuStrip+menuColumn+5, o.Y+8)

	if s.layerLen(wm.LayerStartMenu) != 0 {
		t.Fatalf("launching should close the menu")
	}
	windows := s.m.Windows()
	found := false
	for _, w := range windows {
		if w.Kind == "settings" && w.Focused {
			found = true
		}
	}
	if !found {
		t.Fatalf("settings should be open and focused: %+v", windows)
	}
}

func TestStartMenuHiddenCategoriesStillThemed(t *testing.T) {
	s := newShell(t)
	s.click(10, display.Height-layout.TaskbarHeight+10)
	l, _ := s.m.Layer(wm.LayerStartMenu)
	menu := l.Members()[0].(*StartMenu)
	hidden := 0
	for _, cl := range menu.Layers() {
		if cl.Hidden() {
			hidden++
		}
	}
	if hidden != 2 {
		t.Fatalf("hidden category layers = %d, want 2", hidden)
	}
	if !menu.HandleMessageWindow(wm.ChangeTheme{}) || !menu.Dirty() {
		t.Fatalf("theme change should repaint the menu")
	}
}

func TestWindowDrag(t *testing.T) {
	s := newShell(t)
	w := s.open(t, SettingsApp)

	s.m.HandleMessage(wm.MouseMove{Point: geom.Point{X: 50, Y: 10}})
	if s.m.Cursor() != wm.CursorMove {
		t.Fatalf("title bar should set the move cursor, got %s", s.m.Cursor())
	}
	s.click(50, 10)
	s.m.HandleMessage(wm.MouseMove{Point: geom.Point{X: 80, Y: 40}})
	s.m.HandleMessage(wm.MouseUp{Point: geom.Point{X: 80, Y: 40}})

	if got := w.Rect().Origin(); got != (geom.Point{X: 30, Y: 30}) {
		t.Fatalf("origin after drag = %+v", got)
	}
	if w.Dragging() {
		t.Fatalf("release should end the drag")
	}

	s.m.HandleMessage(wm.MouseMove{Point: geom.Point{X: 700, Y: 500}})
	if s.m.Cursor() != wm.CursorDefault {
		t.Fatalf("leaving the window should restore the cursor")
	}
}

func TestCloseButton(t *testing.T) {
	s := newShell(t)
	w := s.open(t, SettingsApp)
	s.click(w.Rect().Width-TitleHeight+8, 10)

	if s.layerLen(wm.LayerWindows) != 0 {
		t.Fatalf("close button should close the window")
	}
	if len(s.taskbar.Buttons()) != 0 {
		t.Fatalf("taskbar should drop the closed window")
	}
}

func TestMaximizeToggle(t *testing.T) {
	s := newShell(t)
	w := s.open(t, FileViewerApp)
	before := w.Rect()

	s.m.HandleMessage(wm.KeyDown{Key: "f", Alt: true})
	area := layout.WorkArea(display)
	if w.Rect() != area || !w.Maximized() {
		t.Fatalf("maximized rect = %+v, want %+v", w.Rect(), area)
	}
	fv := w.App().(*FileViewer)
	if fv.body.Rect().Width <= before.Width-16 {
		t.Fatalf("contents should follow the new size")
	}

	s.m.HandleMessage(wm.KeyDown{Key: "f", Alt: true})
	if w.Rect() != before {
		t.Fatalf("restored rect = %+v, want %+v", w.Rect(), before)
	}
}

func allowBox(t *testing.T, s *shell) *Window {
	t.Helper()
	l, _ := s.m.Layer(wm.LayerModals)
	if l.Len() != 1 {
		t.Fatalf("want one prompt, have %d", l.Len())
	}
	return l.Members()[0].(*Window)
}

func TestFileViewerReadAfterApproval(t *testing.T) {
	s := newShell(t)
	w := s.open(t, FileViewerApp)
	fv := w.App().(*FileViewer)
	fv.Path().SetValue("/notes.txt")
	fv.Open()

	if fv.Status() != "Waiting for approval" {
		t.Fatalf("status = %q", fv.Status())
	}
	box := allowBox(t, s)
	if s.m.Focused() != box.ID() {
		t.Fatalf("prompt should take focus")
	}
	if !strings.Contains(box.App().(*AllowBox).text.Text, "read /notes.txt") {
		t.Fatalf("prompt text = %q", box.App().(*AllowBox).text.Text)
	}

	o, size := box.Rect().Origin(), box.Size()
	s.click(o.X+size.Width-dialogButtonWidth, o.Y+size.Height-20)

	if fv.Text() != "remember the milk" || fv.Status() != "/notes.txt" {
		t.Fatalf("viewer shows %q / %q", fv.Text(), fv.Status())
	}
	if s.m.Focused() != w.ID() {
		t.Fatalf("focus should return to the viewer")
	}

	// The permission sticks, so the second read needs no prompt.
	fv.Path().SetValue("/missing")
	fv.Open()
	if fv.Status() != "No such file" || fv.Path().Valid != widget.Invalid {
		t.Fatalf("status = %q", fv.Status())
	}
}

func TestAllowBoxCloseDenies(t *testing.T) {
	s := newShell(t)
	w := s.open(t, FileViewerApp)
	fv := w.App().(*FileViewer)
	fv.Path().SetValue("/notes.txt")
	fv.Editor().SetValue("changed")
	fv.Save()

	box := allowBox(t, s)
	s.click(box.Rect().X+box.Size().Width-TitleHeight+8, box.Rect().Y+10)

	if fv.Status() != "Permission denied" {
		t.Fatalf("status = %q", fv.Status())
	}
	if s.fs["/notes.txt"] != "remember the milk" {
		t.Fatalf("denied write changed the file")
	}
	if s.m.PendingApprovals() != 0 {
		t.Fatalf("approval should be resolved")
	}
}

func TestFileViewerInvalidPath(t *testing.T) {
	s := newShell(t)
	w := s.open(t, FileViewerApp)
	fv := w.App().(*FileViewer)
	fv.Path().SetValue("relative")
	fv.Open()
	if fv.Path().Valid != widget.Invalid {
		t.Fatalf("relative path should mark the input invalid")
	}
	if s.m.PendingApprovals() != 0 {
		t.Fatalf("invalid payload must not prompt")
	}
}

func TestSettingsBackground(t *testing.T) {
	s := newShell(t)
	w := s.open(t, SettingsApp)
	st := w.App().(*Settings)

	st.Input().SetValue("teal")
	st.Input().OnSubmit(st.Input().Value())
	if st.Input().Valid != widget.Invalid {
		t.Fatalf("bad colour should mark the input invalid")
	}

	st.Input().SetValue("#112233")
	st.Input().OnSubmit(st.Input().Value())
	if st.Input().Valid != widget.Valid || s.m.Background() != "#112233" {
		t.Fatalf("background = %q", s.m.Background())
	}
	if s.bg.Colour() != "#112233" {
		t.Fatalf("desktop colour = %q", s.bg.Colour())
	}
}

func TestSettingsThemeAndShortcuts(t *testing.T) {
	s := newShell(t)
	w := s.open(t, SettingsApp)
	st := w.App().(*Settings)

	st.themes.Step(1)
	if s.m.Theme() != "Night" {
		t.Fatalf("theme = %s", s.m.Theme())
	}
	st.shortcuts.Checked = false
	st.shortcuts.OnToggle(false)
	if s.m.Settings().Shortcuts {
		t.Fatalf("shortcuts should be off")
	}
	s.m.HandleMessage(wm.KeyDown{Key: "w", Alt: true})
	if s.layerLen(wm.LayerWindows) != 1 {
		t.Fatalf("alt+w must not close while shortcuts are off")
	}
}

func TestBackgroundContextMenuOpensSettings(t *testing.T) {
	s := newShell(t)
	s.m.HandleMessage(wm.ContextMenu{Point: geom.Point{X: 600, Y: 400}})
	if s.layerLen(wm.LayerWindows) != 1 {
		t.Fatalf("right click on the desktop should open settings")
	}
}

func TestClockAndResize(t *testing.T) {
	s := newShell(t)
	if !s.m.HandleMessage(wm.TimeUpdate{Now: time.Date(2024, 5, 1, 13, 5, 0, 0, time.UTC)}) {
		t.Fatalf("clock change should recomposite")
	}
	if s.taskbar.Clock() != "13:05" {
		t.Fatalf("clock = %q", s.taskbar.Clock())
	}

	s.m.HandleMessage(wm.Resize{Size: geom.Size{Width: 1024, Height: 768}})
	if want := geom.R(0, 768-layout.TaskbarHeight, 1024, layout.TaskbarHeight); s.taskbar.Rect() != want {
		t.Fatalf("taskbar rect = %+v, want %+v", s.taskbar.Rect(), want)
	}
	if s.bg.Size() != (geom.Size{Width: 1024, Height: 768}) {
		t.Fatalf("background size = %+v", s.bg.Size())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(shortcuts.Default(), map[string][]wm.Permission{FileViewerApp: {wm.PermissionReadAll}})
	if !r.Known(wm.StartMenuApp) || !r.Known(SettingsApp) || r.Known("solitaire") {
		t.Fatalf("Known is wrong")
	}
	if _, err := r.Open("solitaire", display); !errors.Is(err, wm.ErrUnknownApp) {
		t.Fatalf("err = %v", err)
	}
	opened, err := r.Open(FileViewerApp, display)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(opened.Permissions) != 1 || !opened.Cascade {
		t.Fatalf("opened = %+v", opened)
	}
	menu, _ := r.Open(wm.StartMenuApp, display)
	if menu.Layer != wm.LayerStartMenu || menu.Cascade {
		t.Fatalf("start menu opened = %+v", menu)
	}
	if help := ShortcutHelp(shortcuts.Default()); !strings.Contains(help, "close-window: Alt+w, Alt+q") {
		t.Fatalf("help = %q", help)
	}
}
