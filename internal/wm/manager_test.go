package wm

import (
	"testing"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/theme"
)

func newTestManager(t *testing.T) (*Manager, *fakePrompter, fakeFS) {
	t.Helper()
	prompter := &fakePrompter{}
	fs := fakeFS{"/readme": "hello"}
	m := New(Config{
		Display:    geom.Size{Width: 400, Height: 300},
		Settings:   Settings{Shortcuts: true},
		Prompter:   prompter,
		FileSystem: fs,
	})
	return m, prompter, fs
}

func TestHitTestPicksTopmost(t *testing.T) {
	a := newFake("window", geom.R(0, 0, 100, 100))
	b := newFake("window", geom.R(50, 50, 150, 150))
	entities := []*fakeWindow{a, b}

	tests := []struct {
		name string
		p    geom.Point
		want *fakeWindow
	}{
		{"overlap goes to later entity", geom.Point{X: 75, Y: 75}, b},
		{"only first entity", geom.Point{X: 10, Y: 10}, a},
		{"only second entity", geom.Point{X: 190, Y: 190}, b},
		{"outside both", geom.Point{X: 300, Y: 5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(entities, tt.p)
			if tt.want == nil {
				if ok {
					t.Fatalf("expected miss, got %v", got.ID())
				}
				return
			}
			if !ok || got != tt.want {
				t.Fatalf("wrong entity hit")
			}
		})
	}
}

func TestPointerDispatchOverlap(t *testing.T) {
	m, _, _ := newTestManager(t)
	a := newFake("window", geom.R(0, 0, 100, 100))
	b := newFake("window", geom.R(50, 50, 150, 150))
	m.Attach(LayerWindows, a)
	m.Attach(LayerWindows, b)

	m.HandleMessage(MouseDown{Point: geom.Point{X: 75, Y: 75}})
	if a.count(isMouseDown) != 0 || b.count(isMouseDown) != 1 {
		t.Fatalf("press at (75,75) should reach only B")
	}
	if down := b.last().(MouseDown); down.Point != (geom.Point{X: 25, Y: 25}) {
		t.Fatalf("B got untranslated point %+v", down.Point)
	}
	if _, ok := a.last().(MouseDownOutside); !ok {
		t.Fatalf("A should be told the press landed elsewhere")
	}

	m.HandleMessage(MouseDown{Point: geom.Point{X: 10, Y: 10}})
	if a.count(isMouseDown) != 1 || b.count(isMouseDown) != 1 {
		t.Fatalf("press at (10,10) should reach only A")
	}
}

func TestPointerScaledByDeviceFactor(t *testing.T) {
	m := New(Config{Display: geom.Size{Width: 400, Height: 300}, Scale: 2})
	w := newFake("window", geom.R(50, 50, 20, 20))
	m.Attach(LayerWindows, w)

	m.HandleMessage(MouseDown{Point: geom.Point{X: 30, Y: 30}})
	down, ok := w.last().(MouseDown)
	if !ok || down.Point != (geom.Point{X: 10, Y: 10}) {
		t.Fatalf("expected scaled and translated press, got %#v", w.last())
	}
}

func TestRecompositeOnlyWhenChanged(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 100, 100))
	m.Attach(LayerWindows, w)
	m.Render()

	tests := []struct {
		name string
		ret  bool
		msg  Message
		want bool
	}{
		{"unchanged pointer", false, MouseMove{Point: geom.Point{X: 5, Y: 5}}, false},
		{"changed pointer", true, MouseMove{Point: geom.Point{X: 5, Y: 5}}, true},
		{"miss", true, MouseMove{Point: geom.Point{X: 300, Y: 5}}, false},
		{"down miss, outside handler unchanged", false, MouseDown{Point: geom.Point{X: 300, Y: 5}}, false},
		{"down miss, outside handler changed", true, MouseDown{Point: geom.Point{X: 300, Y: 5}}, true},
		{"theme with unchanged handler", false, ChangeTheme{Theme: theme.Night}, true},
		{"same theme again", false, ChangeTheme{Theme: theme.Night}, true},
		{"resize with unchanged handler", false, Resize{Size: geom.Size{Width: 500, Height: 400}}, true},
		{"key with nothing focused", true, KeyDown{Key: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.ret = tt.ret
			before := m.Frame()
			got := m.HandleMessage(tt.msg)
			if got != tt.want || (m.Frame() != before) != tt.want {
				t.Fatalf("recomposite = %v (frame %d -> %d), want %v", got, before, m.Frame(), tt.want)
			}
		})
	}
}

func TestRenderPaintsOnlyDirtyEntities(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, w)

	m.Render()
	m.Render()
	if w.renders != 1 {
		t.Fatalf("clean entity repainted: %d renders", w.renders)
	}
	m.HandleMessage(ChangeTheme{Theme: theme.Forest})
	if w.renders != 2 {
		t.Fatalf("dirty entity not repainted: %d renders", w.renders)
	}
}

func TestKeyboardGoesToFocused(t *testing.T) {
	m, _, _ := newTestManager(t)
	a := newFake("window", geom.R(0, 0, 10, 10))
	b := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, a)
	m.Attach(LayerWindows, b)

	a.Request(FocusWindow{})
	m.HandleMessage(KeyDown{Key: "x"})
	m.HandleMessage(Wheel{DeltaY: 3})
	if len(b.got) != 1 { // FocusChanged only
		t.Fatalf("unfocused window received %d messages", len(b.got))
	}
	if _, ok := a.last().(Wheel); !ok {
		t.Fatalf("focused window did not get wheel")
	}
}

func TestShortcuts(t *testing.T) {
	m, _, _ := newTestManager(t)
	opener := &fakeOpener{apps: map[string]func() Opened{
		"app": func() Opened { return Opened{Window: newFake("window", geom.R(0, 0, 50, 50))} },
	}}
	m.opener = opener
	first := m.Submit(OpenWindow{App: "app"})
	if first.Status != StatusPending {
		t.Fatalf("external open should prompt, got %s", first.Status)
	}

	ids := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		out := m.open("app")
		ids = append(ids, out.Window)
	}
	if m.Focused() != ids[1] {
		t.Fatalf("newest window should be focused")
	}

	m.HandleMessage(KeyDown{Key: "1", Alt: true})
	if m.Focused() != ids[0] {
		t.Fatalf("alt+1 should focus the first window, got %q", m.Focused())
	}

	m.HandleMessage(KeyDown{Key: "ArrowLeft", Alt: true})
	if m.Focused() != ids[1] {
		t.Fatalf("cycle-left should wrap to the last window, got %q", m.Focused())
	}

	focused, _, _ := m.Entity(ids[1])
	m.HandleMessage(KeyDown{Key: "ArrowDown", Alt: true})
	if sc, ok := focused.(*fakeWindow).last().(GenericShortcut); !ok || sc.Action != shortcuts.Down {
		t.Fatalf("generic shortcut not forwarded")
	}

	m.HandleMessage(KeyDown{Key: "w", Alt: true})
	if _, _, ok := m.Entity(ids[1]); ok {
		t.Fatalf("alt+w should close the focused window")
	}
	if m.Focused() != "" {
		t.Fatalf("closing the focused window should clear focus")
	}

	m.settings.Shortcuts = false
	m.focusEntity(ids[0])
	m.HandleMessage(KeyDown{Key: "w", Alt: true})
	if _, _, ok := m.Entity(ids[0]); !ok {
		t.Fatalf("shortcuts disabled but window closed")
	}
}

func TestCloseWindowTrusted(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	id := m.Attach(LayerWindows, w)
	w.Request(FocusWindow{})

	out := w.Request(CloseWindow{})
	if out.Status != StatusApplied {
		t.Fatalf("trusted close status = %s", out.Status)
	}
	if _, _, ok := m.Entity(id); ok {
		t.Fatalf("window still attached")
	}
	if m.Focused() != "" {
		t.Fatalf("focus not cleared")
	}
	if len(prompter.prompts) != 0 {
		t.Fatalf("trusted close must not prompt")
	}
}

func TestTrustedCloseOfAnotherWindowPrompts(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	a := newFake("window", geom.R(0, 0, 10, 10))
	b := newFake("window", geom.R(20, 0, 10, 10))
	m.Attach(LayerWindows, a)
	idB := m.Attach(LayerWindows, b)

	out := a.Request(CloseWindow{Target: idB})
	if out.Status != StatusPending || len(prompter.prompts) != 1 {
		t.Fatalf("closing another window = %s with %d prompts", out.Status, len(prompter.prompts))
	}
	if _, _, ok := m.Entity(idB); !ok {
		t.Fatalf("target closed before approval")
	}
}

type panicWindow struct{ *fakeWindow }

func (p *panicWindow) HandleMessageWindow(msg Message) bool {
	if _, ok := msg.(KeyDown); ok {
		panic("key handler failed")
	}
	return p.fakeWindow.HandleMessageWindow(msg)
}

func TestPanickingHandlerLeavesManagerUsable(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := &panicWindow{newFake("window", geom.R(0, 0, 10, 10))}
	m.Attach(LayerWindows, w)
	w.Request(FocusWindow{})
	m.Render()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("handler panic was swallowed")
			}
		}()
		m.HandleMessage(KeyDown{Key: "a"})
	}()
	if m.dispatching {
		t.Fatalf("manager still marked as dispatching")
	}

	before := m.Frame()
	out := m.Submit(ChangeThemeRequest{Theme: theme.Night})
	if out.Status != StatusPending {
		t.Fatalf("status = %s", out.Status)
	}
	if m.Frame() == before {
		t.Fatalf("approval prompt opened but not composited")
	}
}

func TestCloseWindowUntrustedPrompts(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	other := newFake("window", geom.R(20, 20, 10, 10))
	id := m.Attach(LayerWindows, w)
	m.Attach(LayerWindows, other)
	other.Request(FocusWindow{})

	out := w.SendRequest(CloseWindow{}, Token{})
	if out.Status != StatusPending {
		t.Fatalf("untrusted close while another window is focused = %s", out.Status)
	}
	if len(prompter.prompts) != 1 || prompter.prompts[0].Issuer != id {
		t.Fatalf("expected one prompt naming the issuer")
	}
	if _, _, ok := m.Entity(id); !ok {
		t.Fatalf("window removed before approval")
	}

	box := prompter.boxes[0]
	if m.Focused() != box.ID() {
		t.Fatalf("prompt should take focus")
	}
	if res := box.Request(ResolveApproval{ID: out.Approval, Allow: true}); res.Status != StatusApplied {
		t.Fatalf("resolve status = %s", res.Status)
	}
	if _, _, ok := m.Entity(id); ok {
		t.Fatalf("window not removed after approval")
	}
	if _, _, ok := m.Entity(box.ID()); ok {
		t.Fatalf("prompt not closed")
	}
	if m.Focused() != other.ID() {
		t.Fatalf("focus should return to %s, got %s", other.ID(), m.Focused())
	}
}

func TestUntrustedSelfCloseWhileFocusedApplies(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, w)
	w.Request(FocusWindow{})

	if out := w.SendRequest(CloseWindow{}, Token{}); out.Status != StatusApplied {
		t.Fatalf("status = %s", out.Status)
	}
	if len(prompter.prompts) != 0 {
		t.Fatalf("unexpected prompt")
	}
}

func TestDenyDropsRequest(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, w)

	out := w.SendRequest(ChangeThemeRequest{Theme: theme.Royal}, Token{})
	if out.Status != StatusPending {
		t.Fatalf("status = %s", out.Status)
	}
	prompter.boxes[0].Request(ResolveApproval{ID: out.Approval, Allow: false})
	if m.Theme() != theme.Standard {
		t.Fatalf("denied theme change applied")
	}
	done, ok := w.last().(RequestCompleted)
	if !ok || done.Outcome.Status != StatusDropped {
		t.Fatalf("issuer not told about denial: %#v", w.last())
	}
}

func TestForgedTokenIsUntrusted(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	a := newFake("window", geom.R(0, 0, 10, 10))
	b := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, a)
	m.Attach(LayerWindows, b)

	out := b.SendRequest(ChangeThemeRequest{Theme: theme.Night}, a.Token())
	if out.Status != StatusPending || len(prompter.prompts) != 1 {
		t.Fatalf("borrowed token should not be trusted, status %s", out.Status)
	}
}

func TestOnlyPromptCanResolve(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, w)

	out := w.SendRequest(ChangeThemeRequest{Theme: theme.Night}, Token{})
	if res := w.Request(ResolveApproval{ID: out.Approval, Allow: true}); res.Status != StatusDropped {
		t.Fatalf("issuer resolved its own prompt: %s", res.Status)
	}
	if m.Theme() != theme.Standard {
		t.Fatalf("theme changed")
	}
	prompter.boxes[0].Request(ResolveApproval{ID: out.Approval, Allow: true})
	if m.Theme() != theme.Night {
		t.Fatalf("approved theme not applied")
	}
}

func TestCosmeticRequestsNeedToken(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(100, 100, 50, 50))
	m.Attach(LayerWindows, w)

	if out := w.SendRequest(ChangeCursor{Cursor: CursorMove}, Token{}); out.Status != StatusDropped {
		t.Fatalf("untrusted cursor change = %s", out.Status)
	}
	if out := w.Request(ChangeCursor{Cursor: CursorMove}); out.Status != StatusApplied || m.Cursor() != CursorMove {
		t.Fatalf("trusted cursor change not applied")
	}
	w.Request(ChangeCoords{Delta: geom.Point{X: 10, Y: -20}})
	if got := w.Rect().Origin(); got != (geom.Point{X: 110, Y: 80}) {
		t.Fatalf("window at %+v", got)
	}
	if len(prompter.prompts) != 0 {
		t.Fatalf("cosmetic requests must never prompt")
	}
}

func TestFileSystemPermissions(t *testing.T) {
	m, prompter, fs := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	id := m.Attach(LayerWindows, w)

	bad := w.Request(ReadFileSystem{Permission: PermissionReadAll, Path: "readme"})
	if bad.Status != StatusInvalid {
		t.Fatalf("relative path status = %s", bad.Status)
	}

	out := w.Request(ReadFileSystem{Permission: PermissionReadAll, Path: "/readme"})
	if out.Status != StatusPending {
		t.Fatalf("read without permission = %s", out.Status)
	}
	prompter.boxes[0].Request(ResolveApproval{ID: out.Approval, Allow: true})
	done := w.last().(RequestCompleted)
	if !done.Outcome.Found || done.Outcome.Content != "hello" {
		t.Fatalf("approved read result %#v", done.Outcome)
	}
	if !m.hasPermission(id, PermissionReadAll) {
		t.Fatalf("approval should grant the permission")
	}

	again := w.Request(ReadFileSystem{Permission: PermissionReadAll, Path: "/missing"})
	if again.Status != StatusApplied || again.Found {
		t.Fatalf("second read should apply directly, got %#v", again)
	}

	untrusted := w.SendRequest(ReadFileSystem{Permission: PermissionReadAll, Path: "/readme"}, Token{})
	if untrusted.Status != StatusPending {
		t.Fatalf("untrusted read must prompt even with permission")
	}

	write := w.Request(WriteFileSystem{Permission: PermissionWriteAll, Path: "/new", Content: "x"})
	if write.Status != StatusPending {
		t.Fatalf("write without permission = %s", write.Status)
	}
	if _, ok := fs["/new"]; ok {
		t.Fatalf("write applied before approval")
	}
}

func TestChangeThemeReachesHiddenLayers(t *testing.T) {
	m, _, _ := newTestManager(t)
	menu := newFake("start-menu", geom.R(0, 100, 50, 100))
	m.Attach(LayerStartMenu, menu)
	l, _ := m.Layer(LayerStartMenu)
	l.SetHidden(true)
	m.Render()
	if menu.renders != 0 {
		t.Fatalf("hidden layer should not be painted")
	}
	menu.Base.dirty = false

	m.HandleMessage(ChangeTheme{Theme: theme.Night})
	if menu.count(isTheme) != 1 {
		t.Fatalf("hidden start menu missed theme change")
	}
	if !menu.Dirty() {
		t.Fatalf("hidden start menu should be dirty after theme change")
	}
}

func TestHiddenManagerLayerSkipsHitTest(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 100, 100))
	m.Attach(LayerModals, w)
	l, _ := m.Layer(LayerModals)

	l.SetHidden(true)
	m.HandleMessage(MouseDown{Point: geom.Point{X: 5, Y: 5}})
	if w.count(isMouseDown) != 0 {
		t.Fatalf("hidden entity was hit")
	}
	l.SetHidden(false)
	m.HandleMessage(MouseDown{Point: geom.Point{X: 5, Y: 5}})
	if w.count(isMouseDown) != 1 {
		t.Fatalf("entity not hit after show")
	}
}

func TestInvalidPayloads(t *testing.T) {
	m, prompter, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, w)

	tests := []struct {
		name string
		req  Request
	}{
		{"unknown theme", ChangeThemeRequest{Theme: "Plaid"}},
		{"bad background", ChangeDesktopBackground{Color: "teal"}},
		{"empty settings", ChangeSettings{}},
		{"unknown app", OpenWindow{App: "nope"}},
		{"missing target", CloseWindow{Target: "windows-99-window"}},
		{"wrong permission", WriteFileSystem{Permission: PermissionReadAll, Path: "/a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := w.SendRequest(tt.req, Token{}); out.Status != StatusInvalid {
				t.Fatalf("status = %s", out.Status)
			}
		})
	}
	if len(prompter.prompts) != 0 {
		t.Fatalf("invalid requests must not prompt")
	}
}

func TestSettingsAndBackground(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := newFake("desktop-background", geom.R(0, 0, 400, 300))
	m.Attach(LayerDesktop, w)

	off := false
	w.Request(ChangeSettings{Changed: SettingsPatch{Shortcuts: &off}})
	if m.Settings().Shortcuts {
		t.Fatalf("settings patch not applied")
	}
	w.Request(ChangeDesktopBackground{Color: "#123456"})
	if m.Background() != "#123456" {
		t.Fatalf("background = %q", m.Background())
	}
	opts, ok := w.last().(OptionsChanged)
	if !ok || opts.Options.Background != "#123456" {
		t.Fatalf("entities not told about new options")
	}
}

func TestRequestsFromClosedWindowsAreDropped(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	m.Attach(LayerWindows, w)
	w.Request(CloseWindow{})

	if out := w.Request(ChangeThemeRequest{Theme: theme.Night}); out.Status != StatusDropped {
		t.Fatalf("closed window request status = %s", out.Status)
	}
}

func TestWindowsListing(t *testing.T) {
	m, _, _ := newTestManager(t)
	w := newFake("window", geom.R(0, 0, 10, 10))
	w.title = "Notes"
	id := m.Attach(LayerWindows, w)
	w.Request(FocusWindow{})

	list := m.Windows()
	if len(list) != 1 || list[0].ID != id || list[0].Title != "Notes" || !list[0].Focused {
		t.Fatalf("unexpected listing %+v", list)
	}
}

func TestExternalRequestsReportCompletion(t *testing.T) {
	prompter := &fakePrompter{}
	done := map[string]Outcome{}
	m := New(Config{
		Display:      geom.Size{Width: 400, Height: 300},
		Prompter:     prompter,
		FileSystem:   fakeFS{"/readme": "hello"},
		ExternalDone: func(id string, out Outcome) { done[id] = out },
	})

	read := m.Submit(ReadFileSystem{Permission: PermissionReadAll, Path: "/readme"})
	th := m.Submit(ChangeThemeRequest{Theme: theme.Night})
	if read.Status != StatusPending || th.Status != StatusPending {
		t.Fatalf("external requests should prompt: %s %s", read.Status, th.Status)
	}

	prompter.boxes[0].Request(ResolveApproval{ID: read.Approval, Allow: true})
	prompter.boxes[1].Request(ResolveApproval{ID: th.Approval, Allow: false})

	if got := done[read.Approval]; got.Status != StatusApplied || got.Content != "hello" {
		t.Fatalf("approved read outcome %#v", got)
	}
	if got := done[th.Approval]; got.Status != StatusDropped {
		t.Fatalf("denied theme outcome %#v", got)
	}
}
