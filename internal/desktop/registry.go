package desktop

import (
	"fmt"
	"slices"
	"strings"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/wm"
)

// Registered app names.
const (
	SettingsApp   = "settings"
	FileViewerApp = "file-viewer"
	AboutApp      = "about"
	HelpApp       = "help"
)

// Entry describes an app the registry can open.
type Entry struct {
	Name     string
	Title    string
	Category string
	// Permissions are granted when the app opens.
	Permissions []wm.Permission
	Build       func(display geom.Size) wm.WindowLike
}

// Registry builds apps by name. It is the manager's Opener.
type Registry struct {
	entries map[string]Entry
	order   []string
	grants  map[string][]wm.Permission
}

// NewRegistry registers the built-in apps. grants adds permissions per app
// name on top of the entry's own, and table is listed by the help app.
func NewRegistry(table shortcuts.Table, grants map[string][]wm.Permission) *Registry {
	r := &Registry{entries: map[string]Entry{}, grants: grants}
	r.Register(Entry{
		Name: SettingsApp, Title: "Settings", Category: "Utilities",
		Build: func(geom.Size) wm.WindowLike { return NewSettings() },
	})
	r.Register(Entry{
		Name: FileViewerApp, Title: "File Viewer", Category: "Utilities",
		Build: func(geom.Size) wm.WindowLike { return NewFileViewer() },
	})
	r.Register(Entry{
		Name: AboutApp, Title: "About", Category: "Help",
		Build: func(geom.Size) wm.WindowLike {
			return NewAlertBox("About", "mingde is a small desktop shell. Windows talk to it only through messages and requests.", geom.Size{Width: 280, Height: 130})
		},
	})
	r.Register(Entry{
		Name: HelpApp, Title: "Shortcuts", Category: "Help",
		Build: func(geom.Size) wm.WindowLike {
			return NewAlertBox("Shortcuts", ShortcutHelp(table), geom.Size{Width: 320, Height: 260})
		},
	})
	return r
}

// Register adds or replaces an entry.
func (r *Registry) Register(e Entry) {
	if _, ok := r.entries[e.Name]; !ok {
		r.order = append(r.order, e.Name)
	}
	r.entries[e.Name] = e
}

func (r *Registry) Known(app string) bool {
	if app == wm.StartMenuApp {
		return true
	}
	_, ok := r.entries[app]
	return ok
}

// Entries returns the menu entries in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

func (r *Registry) Open(app string, display geom.Size) (wm.Opened, error) {
	if app == wm.StartMenuApp {
		return wm.Opened{Window: NewStartMenu(r.Entries(), display), Layer: wm.LayerStartMenu}, nil
	}
	e, ok := r.entries[app]
	if !ok {
		return wm.Opened{}, fmt.Errorf("%w: %s", wm.ErrUnknownApp, app)
	}
	perms := slices.Concat(e.Permissions, r.grants[app])
	return wm.Opened{Window: e.Build(display), Permissions: perms, Cascade: true}, nil
}

// ShortcutHelp renders the bindings of table, one action per line.
func ShortcutHelp(table shortcuts.Table) string {
	actions := make([]string, 0, len(table))
	for a := range table {
		actions = append(actions, string(a))
	}
	slices.Sort(actions)
	var b strings.Builder
	for _, a := range actions {
		keys := table[shortcuts.Action(a)]
		fmt.Fprintf(&b, "%s: Alt+%s\n", a, strings.Join(keys, ", Alt+"))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
