package desktop

import (
	"strings"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/layout"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

const (
	menuStrip    = 22
	menuColumn   = 110
	menuRow      = 25
	menuWidth    = menuStrip + 2*menuColumn
	menuCategory = "category-"
)

// StartMenu lists the registered apps by category. Each category's apps
// live in a hidden layer shown when the category is picked. It closes
// itself when a press lands elsewhere or the display is resized.
type StartMenu struct {
	*wm.Base
	categories []*widget.Button
	active     string
}

// NewStartMenu builds the menu above the taskbar for the given entries.
func NewStartMenu(entries []Entry, display geom.Size) *StartMenu {
	byCategory := map[string][]Entry{}
	var order []string
	for _, e := range entries {
		if _, ok := byCategory[e.Category]; !ok {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}
	rows := len(order) + 3
	for _, es := range byCategory {
		rows = max(rows, len(es))
	}
	height := rows*menuRow + 8
	s := &StartMenu{Base: wm.NewBase("start-menu", geom.R(0, display.Height-layout.TaskbarHeight-height, menuWidth, height))}

	cats := wm.NewLayer[wm.Component]("categories")
	for i, name := range order {
		b := widget.NewButton(name, geom.R(menuStrip, 4+i*menuRow, menuColumn, menuRow), nil)
		b.Align = widget.AlignLeft
		b.Highlight = true
		b.OnClick = func() { s.Show(name) }
		s.categories = append(s.categories, b)
		cats.Add(b)

		apps := wm.NewHiddenLayer[wm.Component](menuCategory + name)
		for j, e := range byCategory[name] {
			app := widget.NewButton(e.Title, geom.R(menuStrip+menuColumn, 4+j*menuRow, menuColumn, menuRow), nil)
			app.Align = widget.AlignLeft
			app.Highlight = true
			app.OnClick = func() { s.launch(e.Name) }
			apps.Add(app)
		}
		s.AddLayer(apps)
	}

	bottom := height - 4 - 3*menuRow
	for i, item := range []struct{ text, app string }{{"About", AboutApp}, {"Help", HelpApp}, {"Exit", ""}} {
		b := widget.NewButton(item.text, geom.R(menuStrip, bottom+i*menuRow, menuColumn, menuRow), nil)
		b.Align = widget.AlignLeft
		b.Highlight = true
		app := item.app
		b.OnClick = func() { s.launch(app) }
		cats.Add(b)
	}
	s.AddLayer(cats)
	return s
}

// Active returns the category whose apps are shown.
func (s *StartMenu) Active() string { return s.active }

// Show reveals the apps of category and hides the others.
func (s *StartMenu) Show(category string) {
	for _, l := range s.Layers() {
		if name, ok := strings.CutPrefix(l.Name(), menuCategory); ok {
			l.SetHidden(name != category)
		}
	}
	for _, b := range s.categories {
		b.Inverted = b.Text == category
	}
	s.active = category
	s.MarkDirty()
}

// launch opens app, if any, and closes the menu.
func (s *StartMenu) launch(app string) {
	if app != "" {
		s.Request(wm.OpenWindow{App: app})
	}
	s.Request(wm.CloseWindow{})
}

func (s *StartMenu) RenderViewWindow(th theme.Theme, _ wm.Options) {
	s.Render(th, func(sf surface.Surface, info theme.Info) {
		size := s.Size()
		sf.SetFill(info.Background)
		sf.FillRect(geom.At(geom.Point{}, size))
		sf.SetFill(info.Top)
		sf.FillRect(geom.R(0, 0, menuStrip, size.Height))
		sf.SetStroke(info.BorderRightBottom)
		sf.StrokeRect(geom.At(geom.Point{}, size))
	})
}

func (s *StartMenu) HandleMessageWindow(msg wm.Message) bool {
	switch m := msg.(type) {
	case wm.MouseDown:
		return s.DispatchPress(m)
	case wm.MouseMove:
		return s.DispatchHover(m)
	case wm.MouseDownOutside, wm.Resize:
		s.Request(wm.CloseWindow{})
		return false
	case wm.GenericShortcut:
		if m.Action == shortcuts.CycleFocusCancel {
			s.Request(wm.CloseWindow{})
		}
		return false
	case wm.ChangeTheme:
		s.MarkDirty()
		return true
	}
	return false
}
