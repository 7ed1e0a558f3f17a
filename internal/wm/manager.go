// Package wm is the shell compositor: it owns the stacked layers of
// window-like surfaces, routes host input to them, mediates their requests
// through the capability gate and composites the result onto the display.
package wm

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/layout"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
)

// Manager-level layer names, bottom to top.
const (
	LayerDesktop   = "desktop"
	LayerWindows   = "windows"
	LayerTaskbar   = "taskbar"
	LayerStartMenu = "start-menu"
	LayerModals    = "modals"
)

// External is the issuer id stamped on requests that come from outside the
// shell, such as the control socket. They are never trusted.
const External = "external"

// StartMenuApp is the registry name of the start menu.
const StartMenuApp = "start-menu"

// ErrUnknownApp is returned by an Opener for names it does not know.
var ErrUnknownApp = errors.New("unknown application")

// Opened is what an Opener hands back for a new entity.
type Opened struct {
	Window WindowLike
	// Layer defaults to LayerWindows.
	Layer       string
	Permissions []Permission
	// Cascade places the window at the next cascade position.
	Cascade bool
}

// Opener builds entities for OpenWindow requests.
type Opener interface {
	Known(app string) bool
	Open(app string, display geom.Size) (Opened, error)
}

// Prompt describes a held request awaiting the user's decision.
type Prompt struct {
	ID          string
	Issuer      string
	Description string
}

// Prompter builds the Allow/Deny window for a held request. The window must
// answer with a ResolveApproval request carrying the prompt id.
type Prompter interface {
	Prompt(p Prompt, display geom.Size) WindowLike
}

// FileSystem is the virtual file system requests operate on.
type FileSystem interface {
	Read(path string) (string, bool)
	Write(path, content string) bool
	Remove(path string) bool
}

// State is the persisted part of the manager.
type State struct {
	Theme      theme.Theme
	Settings   Settings
	Background string
}

// Persister saves State after every change to it or to the file system.
type Persister interface {
	Persist(s State) error
}

// Auditor records every gate decision.
type Auditor interface {
	Decision(env Envelope, out Outcome)
}

// Config carries everything the manager needs at construction. Nil
// collaborators disable the features that need them.
type Config struct {
	Display    geom.Size
	Scale      float64
	Theme      theme.Theme
	Settings   Settings
	Background string
	Shortcuts  shortcuts.Table
	Logger     *slog.Logger

	Opener     Opener
	Prompter   Prompter
	FileSystem FileSystem
	Persister  Persister
	Auditor    Auditor

	// ExternalDone is told how approved or denied external requests ended.
	ExternalDone func(approval string, out Outcome)
}

type approval struct {
	env       Envelope
	box       string
	prevFocus string
}

// Manager is the root of the shell.
type Manager struct {
	logger    *slog.Logger
	opener    Opener
	prompter  Prompter
	fs        FileSystem
	persister Persister
	auditor   Auditor
	shortcuts shortcuts.Table
	extDone   func(string, Outcome)

	display    surface.Surface
	scale      float64
	layers     []*Layer[WindowLike]
	tokens     map[string]Token
	perms      map[string]map[Permission]bool
	order      []string
	pending    map[string]*approval
	focused    string
	theme      theme.Theme
	settings   Settings
	background string
	cursor     Cursor
	frame      uint64

	dispatching    bool
	needsComposite bool
}

// New builds a manager with empty layers.
func New(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	th := cfg.Theme
	if !th.Valid() {
		th = theme.Standard
	}
	table := cfg.Shortcuts
	if table == nil {
		table = shortcuts.Default()
	}
	return &Manager{
		logger:    logger,
		opener:    cfg.Opener,
		prompter:  cfg.Prompter,
		fs:        cfg.FileSystem,
		persister: cfg.Persister,
		auditor:   cfg.Auditor,
		shortcuts: table,
		extDone:   cfg.ExternalDone,
		display:   surface.NewRaster(cfg.Display),
		scale:     scale,
		layers: []*Layer[WindowLike]{
			NewLayer[WindowLike](LayerDesktop),
			NewLayer[WindowLike](LayerWindows),
			NewLayer[WindowLike](LayerTaskbar),
			NewLayer[WindowLike](LayerStartMenu),
			NewLayer[WindowLike](LayerModals),
		},
		tokens:     make(map[string]Token),
		perms:      make(map[string]map[Permission]bool),
		pending:    make(map[string]*approval),
		theme:      th,
		settings:   cfg.Settings,
		background: cfg.Background,
		cursor:     CursorDefault,
	}
}

// Attach adds w to the named layer, binds a fresh capability token and the
// requester that stamps its requests, and returns the assigned id.
func (m *Manager) Attach(layerName string, w WindowLike) string {
	l, ok := FindLayer(m.layers, layerName)
	if !ok {
		panic("wm: attach to unknown layer " + layerName)
	}
	l.Add(w)
	id := w.ID()
	tok := NewToken()
	m.tokens[id] = tok
	w.SetSecret(tok)
	w.BindRequester(m.requesterFor(id, layerName))
	m.logger.Debug("entity attached", "id", id, "layer", layerName)
	return id
}

func (m *Manager) requesterFor(id, layerName string) Requester {
	return func(req Request, tok Token) Outcome {
		bound, ok := m.tokens[id]
		return m.HandleRequest(Envelope{
			Request: req,
			Issuer:  id,
			Layer:   layerName,
			Trusted: ok && bound.Matches(tok),
		})
	}
}

// Layer returns the manager layer with the given name.
func (m *Manager) Layer(name string) (*Layer[WindowLike], bool) {
	return FindLayer(m.layers, name)
}

// Entity finds an entity by id in any layer, hidden or not.
func (m *Manager) Entity(id string) (WindowLike, string, bool) {
	for _, l := range m.layers {
		if w, ok := l.Find(id); ok {
			return w, l.name, true
		}
	}
	return nil, "", false
}

func (m *Manager) Focused() string          { return m.focused }
func (m *Manager) Theme() theme.Theme       { return m.theme }
func (m *Manager) Settings() Settings       { return m.settings }
func (m *Manager) Background() string       { return m.background }
func (m *Manager) Cursor() Cursor           { return m.cursor }
func (m *Manager) Display() surface.Surface { return m.display }
func (m *Manager) Scale() float64           { return m.scale }
func (m *Manager) PendingApprovals() int    { return len(m.pending) }

// Frame counts composites. Hosts present a new frame when it changes.
func (m *Manager) Frame() uint64 { return m.frame }

// Options returns the render options passed to every entity.
func (m *Manager) Options() Options {
	return Options{Background: m.background, Settings: m.settings}
}

// State returns the persisted part of the manager.
func (m *Manager) State() State {
	return State{Theme: m.theme, Settings: m.settings, Background: m.background}
}

// WindowInfo describes an entity for listings.
type WindowInfo struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title,omitempty"`
	Layer   string    `json:"layer"`
	Rect    geom.Rect `json:"rect"`
	Focused bool      `json:"focused"`
	Hidden  bool      `json:"hidden"`
}

// Windows lists every entity in paint order.
func (m *Manager) Windows() []WindowInfo {
	var out []WindowInfo
	for _, l := range m.layers {
		for _, w := range l.members {
			info := WindowInfo{
				ID:      w.ID(),
				Kind:    w.Kind(),
				Layer:   l.name,
				Rect:    w.Rect(),
				Focused: w.ID() == m.focused,
				Hidden:  l.hidden,
			}
			if t, ok := w.(Titled); ok {
				info.Title = t.Title()
			}
			out = append(out, info)
		}
	}
	return out
}

// RenderView clears the display and paints every visible entity in layer
// then member order, so later entities end up on top.
func (m *Manager) RenderView(th theme.Theme) {
	m.display.Clear()
	opts := m.Options()
	for _, w := range Visible(m.layers) {
		w.RenderViewWindow(th, opts)
		m.display.DrawImage(w.Surface().Image(), w.Rect().Origin())
	}
	m.frame++
	m.needsComposite = false
}

// Render composites with the active theme.
func (m *Manager) Render() { m.RenderView(m.theme) }

// HandleMessage routes a host message and recomposites when the receiving
// handler reported a change, when the kind always requires it, or when a
// request applied during the dispatch changed manager state. It reports
// whether a composite happened.
func (m *Manager) HandleMessage(msg Message) bool {
	changed := m.dispatchGuarded(msg)
	if changed || m.needsComposite {
		m.Render()
		return true
	}
	return false
}

// dispatchGuarded marks the manager as dispatching for the duration of
// msg. The mark is cleared even when a handler panics.
func (m *Manager) dispatchGuarded(msg Message) bool {
	m.dispatching = true
	defer func() { m.dispatching = false }()
	return m.dispatch(msg)
}

func (m *Manager) dispatch(msg Message) bool {
	switch msg := msg.(type) {
	case Pointer:
		return m.dispatchPointer(msg)
	case KeyDown:
		return m.dispatchKey(msg)
	case Wheel:
		return m.dispatchFocused(msg)
	case ChangeTheme:
		m.setTheme(msg.Theme)
		return true
	case Resize:
		m.resize(msg.Size)
		return true
	case TimeUpdate:
		return m.broadcast(msg)
	default:
		return false
	}
}

// dispatchPointer scales the host point, hit-tests and delivers the message
// to the topmost entity in its local coordinates. Moves tell the others the
// pointer left them before the target sees it, so a cursor the target sets
// is not reset afterwards. Presses tell the others after the target has
// acted.
func (m *Manager) dispatchPointer(msg Pointer) bool {
	p := msg.Pos().Scale(m.scale)
	windows := Visible(m.layers)
	target, hit := HitTest(windows, p)
	others := func(fn func(w WindowLike)) {
		for _, w := range windows {
			if hit && w.ID() == target.ID() {
				continue
			}
			fn(w)
		}
	}

	changed := false
	if _, ok := msg.(MouseMove); ok && m.cursor != CursorDefault {
		others(func(w WindowLike) { w.HandleMessageWindow(MouseMoveOutside{}) })
	}
	if hit {
		local := p.Sub(target.Rect().Origin())
		changed = target.HandleMessageWindow(msg.At(local))
	}
	if _, ok := msg.(MouseDown); ok {
		others(func(w WindowLike) {
			if w.HandleMessageWindow(MouseDownOutside{}) {
				changed = true
			}
		})
	}
	return changed
}

func (m *Manager) dispatchKey(msg KeyDown) bool {
	if msg.Alt && m.settings.Shortcuts {
		if action, ok := m.shortcuts.Resolve(msg.Key); ok {
			if action.Generic() {
				return m.dispatchFocused(GenericShortcut{Action: action})
			}
			return m.runShortcut(action)
		}
	}
	return m.dispatchFocused(msg)
}

func (m *Manager) dispatchFocused(msg Message) bool {
	if m.focused == "" {
		return false
	}
	for _, w := range Visible(m.layers) {
		if w.ID() == m.focused {
			return w.HandleMessageWindow(msg)
		}
	}
	return false
}

// broadcast delivers msg to every entity, hidden layers included.
func (m *Manager) broadcast(msg Message) bool {
	changed := false
	for _, w := range All(m.layers) {
		if w.HandleMessageWindow(msg) {
			changed = true
		}
	}
	return changed
}

func (m *Manager) setTheme(th theme.Theme) {
	if th == m.theme || !th.Valid() {
		return
	}
	m.theme = th
	m.broadcast(ChangeTheme{Theme: th})
	m.logger.Info("theme changed", "theme", string(th))
}

func (m *Manager) resize(host geom.Size) {
	size := geom.Size{
		Width:  int(float64(host.Width) * m.scale),
		Height: int(float64(host.Height) * m.scale),
	}
	m.display.Resize(size)
	m.broadcast(Resize{Size: size})
}

func (m *Manager) runShortcut(action shortcuts.Action) bool {
	if n, ok := action.SwitchIndex(); ok {
		if n >= len(m.order) {
			return false
		}
		m.focusEntity(m.order[n])
		return true
	}
	switch action {
	case shortcuts.CloseWindow:
		if !m.isWindow(m.focused) {
			return false
		}
		m.closeEntity(m.focused)
		return true
	case shortcuts.StartMenu:
		return m.toggleStartMenu()
	case shortcuts.FullscreenToggle:
		w, _, ok := m.Entity(m.focused)
		if !ok {
			return false
		}
		mx, ok := w.(Maximizer)
		if !ok {
			return false
		}
		mx.ToggleMaximize(layout.WorkArea(m.display.Size()))
		return true
	case shortcuts.CycleLeft, shortcuts.CycleRight:
		if len(m.order) == 0 {
			return false
		}
		delta := 1
		if action == shortcuts.CycleLeft {
			delta = -1
		}
		i := indexOf(m.order, m.focused)
		if i < 0 {
			i = 0
		} else {
			i = Wrap(i, delta, len(m.order))
		}
		m.focusEntity(m.order[i])
		return true
	}
	return false
}

func (m *Manager) toggleStartMenu() bool {
	l, _ := FindLayer(m.layers, LayerStartMenu)
	if l.Len() > 0 {
		for _, w := range l.Members() {
			m.closeEntity(w.ID())
		}
		return true
	}
	if m.opener == nil || !m.opener.Known(StartMenuApp) {
		return false
	}
	return m.open(StartMenuApp).Status == StatusApplied
}

func (m *Manager) isWindow(id string) bool {
	if id == "" {
		return false
	}
	_, layerName, ok := m.Entity(id)
	return ok && layerName == LayerWindows
}

// focusEntity raises id within its layer and makes it the focused entity.
func (m *Manager) focusEntity(id string) {
	_, layerName, ok := m.Entity(id)
	if !ok {
		return
	}
	l, _ := FindLayer(m.layers, layerName)
	l.MoveToTop(id)
	if m.focused != id {
		m.focused = id
		m.broadcast(FocusChanged{ID: id})
	}
	m.needsComposite = true
}

func (m *Manager) closeEntity(id string) bool {
	_, layerName, ok := m.Entity(id)
	if !ok {
		return false
	}
	l, _ := FindLayer(m.layers, layerName)
	l.Remove(id)
	delete(m.tokens, id)
	delete(m.perms, id)
	if i := indexOf(m.order, id); i >= 0 {
		m.order = append(m.order[:i:i], m.order[i+1:]...)
	}
	for pid, a := range m.pending {
		if a.box == id {
			delete(m.pending, pid)
			m.logger.Info("approval abandoned", "approval", pid, "issuer", a.env.Issuer)
		}
	}
	if m.focused == id {
		m.focused = ""
		m.broadcast(FocusChanged{})
	}
	if layerName == LayerWindows {
		m.broadcast(WindowRemoved{ID: id})
	}
	m.needsComposite = true
	m.logger.Debug("entity closed", "id", id, "layer", layerName)
	return true
}

func (m *Manager) open(app string) Outcome {
	if m.opener == nil {
		return invalid("no applications registered")
	}
	opened, err := m.opener.Open(app, m.display.Size())
	if err != nil {
		return invalid(err.Error())
	}
	layerName := opened.Layer
	if layerName == "" {
		layerName = LayerWindows
	}
	w := opened.Window
	if opened.Cascade {
		area := layout.WorkArea(m.display.Size())
		w.SetOrigin(layout.Cascade(len(m.order), w.Rect().Size(), area))
	}
	id := m.Attach(layerName, w)
	if len(opened.Permissions) > 0 {
		granted := make(map[Permission]bool, len(opened.Permissions))
		for _, p := range opened.Permissions {
			granted[p] = true
		}
		m.perms[id] = granted
	}
	if layerName == LayerWindows {
		m.order = append(m.order, id)
		title := ""
		if t, ok := w.(Titled); ok {
			title = t.Title()
		}
		m.broadcast(WindowAdded{ID: id, Title: title})
	}
	m.focusEntity(id)
	m.logger.Info("window opened", "app", app, "id", id)
	out := applied()
	out.Window = id
	return out
}

func (m *Manager) persist() {
	if m.persister == nil {
		return
	}
	if err := m.persister.Persist(m.State()); err != nil {
		m.logger.Warn("failed to persist state", "error", err)
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
