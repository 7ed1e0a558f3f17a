package desktop

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

var settingsSize = geom.Size{Width: 320, Height: 150}

// Settings edits the theme, the shortcut switch and the desktop colour. It
// mirrors manager state through Sync and changes it only through requests.
type Settings struct {
	win        *Window
	themes     *widget.Carousel
	shortcuts  *widget.Checkbox
	background *widget.TextInput
	apply      *widget.Button
	focus      wm.FocusCycler

	theme   theme.Theme
	options wm.Options
	synced  bool
}

func NewSettings() *Window {
	return NewWindow("settings", "Settings", settingsSize, &Settings{})
}

func (s *Settings) Mount(w *Window) {
	s.win = w
	names := make([]string, 0, len(theme.All()))
	for _, th := range theme.All() {
		names = append(names, string(th))
	}
	y := TitleHeight + 10
	themeLabel := widget.NewLabel("Theme", geom.R(10, y+4, 80, 16), surface.FontNormal)
	s.themes = widget.NewCarousel(names, geom.R(100, y, 200, 22), 0)
	s.themes.OnChange = func(i int) {
		s.win.Request(wm.ChangeThemeRequest{Theme: theme.Theme(names[i])})
	}

	y += 34
	s.shortcuts = widget.NewCheckbox("Alt key shortcuts", geom.Point{X: 10, Y: y}, 200, false)
	s.shortcuts.OnToggle = func(on bool) {
		s.win.Request(wm.ChangeSettings{Changed: wm.SettingsPatch{Shortcuts: &on}})
	}

	y += 30
	bgLabel := widget.NewLabel("Background", geom.R(10, y+4, 80, 16), surface.FontNormal)
	s.background = widget.NewTextInput(DefaultBackground, geom.R(100, y, 130, 22))
	s.background.OnSubmit = s.setBackground
	s.apply = widget.NewButton("Apply", geom.R(240, y, 60, 22), func() {
		s.setBackground(s.background.Value())
	})

	content(w).Add(themeLabel, s.themes, s.shortcuts, bgLabel, s.background, s.apply)
}

// setBackground asks for a new desktop colour and marks the input with the
// result of the check.
func (s *Settings) setBackground(value string) {
	out := s.win.Request(wm.ChangeDesktopBackground{Color: value})
	switch out.Status {
	case wm.StatusInvalid:
		s.background.Valid = widget.Invalid
	case wm.StatusApplied:
		s.background.Valid = widget.Valid
	}
	s.win.MarkDirty()
}

// Input returns the background colour editor.
func (s *Settings) Input() *widget.TextInput { return s.background }

func (s *Settings) Sync(th theme.Theme, opts wm.Options) bool {
	if s.synced && th == s.theme && opts == s.options {
		return false
	}
	s.synced, s.theme, s.options = true, th, opts
	for i, name := range s.themes.Options {
		if name == string(th) {
			s.themes.Index = i
		}
	}
	s.shortcuts.Checked = opts.Settings.Shortcuts
	if opts.Background != "" {
		s.background.Placeholder = opts.Background
	}
	return true
}

func (s *Settings) Paint(surface.Surface, theme.Info, geom.Rect) {}

func (s *Settings) Handle(msg wm.Message) bool {
	items := wm.Focusables(s.win.Components())
	switch m := msg.(type) {
	case wm.MouseDown:
		if s.background.Rect().Contains(m.Point) {
			return s.focus.FocusOn(items, s.background)
		}
		return s.focus.Cycle(items, shortcuts.CycleFocusCancel)
	}
	_, changed := s.focus.Handle(items, msg)
	return changed
}
