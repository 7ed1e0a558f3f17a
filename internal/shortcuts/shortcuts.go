// Package shortcuts maps alt+key combinations onto shell actions.
package shortcuts

import (
	"fmt"
	"sort"
	"strings"
)

// Action names a shortcut target.
type Action string

const (
	CloseWindow      Action = "close-window"
	FullscreenToggle Action = "fullscreen-toggle-window"
	StartMenu        Action = "start-menu"
	CycleLeft        Action = "cycle-left"
	CycleRight       Action = "cycle-right"

	// Generic actions are not handled by the manager; they are forwarded to
	// the focused window.
	Up               Action = "up"
	Down             Action = "down"
	CycleFocusLeft   Action = "cycle-focus-left"
	CycleFocusRight  Action = "cycle-focus-right"
	CycleFocusCancel Action = "cycle-focus-cancel"
)

// Switch returns the action that focuses the n-th open window.
func Switch(n int) Action { return Action(fmt.Sprintf("switch-%d", n)) }

// SwitchIndex reports which window a switch-N action targets.
func (a Action) SwitchIndex() (int, bool) {
	s, ok := strings.CutPrefix(string(a), "switch-")
	if !ok {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Generic reports whether a is forwarded to the focused window rather than
// handled by the manager.
func (a Action) Generic() bool {
	switch a {
	case Up, Down, CycleFocusLeft, CycleFocusRight, CycleFocusCancel:
		return true
	}
	return false
}

// Table maps each action to the keys (pressed with alt) that trigger it.
type Table map[Action][]string

// Default returns the built-in bindings.
func Default() Table {
	t := Table{
		CloseWindow:      {"w", "q"},
		FullscreenToggle: {"f"},
		StartMenu:        {"Control"},
		CycleLeft:        {"ArrowLeft"},
		CycleRight:       {"ArrowRight"},
		Up:               {"ArrowUp"},
		Down:             {"ArrowDown"},
		CycleFocusLeft:   {"h"},
		CycleFocusRight:  {"l"},
		CycleFocusCancel: {"Escape"},
	}
	for i := 0; i < 10; i++ {
		// alt+1 switches to the first window, alt+0 to the tenth.
		t[Switch(i)] = []string{fmt.Sprintf("%d", (i+1)%10)}
	}
	return t
}

// Merge returns a copy of t with overrides replacing whole bindings.
func (t Table) Merge(overrides map[string][]string) Table {
	out := make(Table, len(t)+len(overrides))
	for k, v := range t {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range overrides {
		out[Action(k)] = append([]string(nil), v...)
	}
	return out
}

// Resolve finds the action bound to key. Letter keys match case-insensitively.
// When two actions share a key the alphabetically first action wins, so the
// result does not depend on map order.
func (t Table) Resolve(key string) (Action, bool) {
	actions := make([]string, 0, len(t))
	for a := range t {
		actions = append(actions, string(a))
	}
	sort.Strings(actions)
	for _, a := range actions {
		for _, k := range t[Action(a)] {
			if k == key || (len(k) == 1 && strings.EqualFold(k, key)) {
				return Action(a), true
			}
		}
	}
	return "", false
}

// Validate reports bindings with no keys or unknown actions.
func (t Table) Validate() error {
	for a, keys := range t {
		if len(keys) == 0 {
			return fmt.Errorf("shortcut %q has no keys", a)
		}
		if !a.known() {
			return fmt.Errorf("unknown shortcut action %q", a)
		}
	}
	return nil
}

func (a Action) known() bool {
	switch a {
	case CloseWindow, FullscreenToggle, StartMenu, CycleLeft, CycleRight,
		Up, Down, CycleFocusLeft, CycleFocusRight, CycleFocusCancel:
		return true
	}
	_, ok := a.SwitchIndex()
	return ok
}
