package wm

import (
	"strings"

	"github.com/1broseidon/mingde/internal/layout"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/google/uuid"
)

// Submit handles a request from outside the shell. It is always untrusted.
func (m *Manager) Submit(req Request) Outcome {
	return m.HandleRequest(Envelope{Request: req, Issuer: External})
}

// HandleRequest runs a stamped request through the capability gate.
//
// Trusted requests are applied at once. Untrusted ones open an approval
// prompt, except cosmetic self-only kinds (cursor and coordinates) which are
// dropped, and a focused window closing itself, which is applied. File
// system requests also need the issuer to hold the permission; without it
// they prompt even when trusted, and approval grants the permission for the
// rest of the issuer's life.
func (m *Manager) HandleRequest(env Envelope) Outcome {
	out := m.gate(env)
	m.logger.Debug("request handled",
		"kind", env.Request.Kind().String(),
		"issuer", env.Issuer,
		"trusted", env.Trusted,
		"status", out.Status.String(),
		"reason", out.Reason)
	if m.auditor != nil {
		m.auditor.Decision(env, out)
	}
	if !m.dispatching && m.needsComposite {
		m.Render()
	}
	return out
}

func (m *Manager) gate(env Envelope) Outcome {
	if env.Issuer != External {
		if _, _, ok := m.Entity(env.Issuer); !ok {
			return dropped("issuer is not attached")
		}
	}
	if reason := m.validate(env); reason != "" {
		return invalid(reason)
	}

	switch r := env.Request.(type) {
	case ResolveApproval:
		return m.resolve(env, r)
	case ChangeCursor, ChangeCoords:
		if !env.Trusted {
			return dropped("untrusted cosmetic request")
		}
		return m.apply(env)
	case CloseWindow:
		target := m.target(env, r.Target)
		if target == env.Issuer && (env.Trusted || m.focused == env.Issuer) {
			return m.apply(env)
		}
		return m.prompt(env)
	case ReadFileSystem, WriteFileSystem, RemoveFileSystem:
		if env.Trusted && m.hasPermission(env.Issuer, requiredPermission(env.Request)) {
			return m.apply(env)
		}
		return m.prompt(env)
	default:
		if env.Trusted {
			return m.apply(env)
		}
		return m.prompt(env)
	}
}

func (m *Manager) target(env Envelope, named string) string {
	if named == "" {
		return env.Issuer
	}
	return named
}

// validate returns a non-empty reason when the payload cannot be applied
// regardless of trust.
func (m *Manager) validate(env Envelope) string {
	switch r := env.Request.(type) {
	case CloseWindow:
		return m.validateTarget(env, r.Target)
	case FocusWindow:
		return m.validateTarget(env, r.Target)
	case OpenWindow:
		if m.opener == nil || !m.opener.Known(r.App) {
			return "unknown application " + r.App
		}
	case ChangeCursor:
		switch r.Cursor {
		case CursorDefault, CursorMove, CursorColResize, CursorRowResize:
		default:
			return "unknown cursor " + string(r.Cursor)
		}
	case ChangeCoords:
		if env.Issuer == External {
			return "external requests cannot move windows"
		}
	case ChangeThemeRequest:
		if !r.Theme.Valid() {
			return "unknown theme " + string(r.Theme)
		}
	case ChangeSettings:
		if r.Changed.Empty() {
			return "no settings changed"
		}
	case ChangeDesktopBackground:
		if _, err := theme.ParseHexColor(r.Color); err != nil {
			return err.Error()
		}
	case ReadFileSystem:
		return m.validatePath(r.Permission, r.Path, PermissionReadAll)
	case WriteFileSystem:
		return m.validatePath(r.Permission, r.Path, PermissionWriteAll)
	case RemoveFileSystem:
		return m.validatePath(r.Permission, r.Path, PermissionWriteAll)
	case ResolveApproval:
		if r.ID == "" {
			return "missing approval id"
		}
	}
	return ""
}

func (m *Manager) validateTarget(env Envelope, target string) string {
	if target == "" {
		if env.Issuer == External {
			return "external requests must name a target"
		}
		return ""
	}
	if _, _, ok := m.Entity(target); !ok {
		return "no such window " + target
	}
	return ""
}

func (m *Manager) validatePath(got Permission, path string, want Permission) string {
	if m.fs == nil {
		return "no file system"
	}
	if got != want {
		return "request needs permission " + string(want)
	}
	if !strings.HasPrefix(path, "/") {
		return "path must start with /"
	}
	return ""
}

func requiredPermission(req Request) Permission {
	if req.Kind() == KindReadFileSystem {
		return PermissionReadAll
	}
	return PermissionWriteAll
}

func (m *Manager) hasPermission(id string, p Permission) bool {
	return m.perms[id][p]
}

func (m *Manager) grant(id string, p Permission) {
	if m.perms[id] == nil {
		m.perms[id] = make(map[Permission]bool)
	}
	m.perms[id][p] = true
}

// prompt holds env and opens an Allow/Deny window for it.
func (m *Manager) prompt(env Envelope) Outcome {
	if m.prompter == nil {
		return dropped("approval unavailable")
	}
	id := uuid.NewString()
	box := m.prompter.Prompt(Prompt{
		ID:          id,
		Issuer:      env.Issuer,
		Description: Describe(env.Request),
	}, m.display.Size())
	prev := m.focused
	boxID := m.Attach(LayerModals, box)
	m.pending[id] = &approval{env: env, box: boxID, prevFocus: prev}
	m.focusEntity(boxID)
	m.logger.Info("approval requested",
		"approval", id,
		"issuer", env.Issuer,
		"request", Describe(env.Request))
	return pending(id)
}

// resolve answers a held request. Only the prompt window created for it may
// answer, using its own token.
func (m *Manager) resolve(env Envelope, r ResolveApproval) Outcome {
	a, ok := m.pending[r.ID]
	if !ok || !env.Trusted || a.box != env.Issuer {
		return dropped("not the prompt for this approval")
	}
	delete(m.pending, r.ID)
	m.closeEntity(a.box)
	if _, _, ok := m.Entity(a.prevFocus); ok {
		m.focusEntity(a.prevFocus)
	}

	held := a.env
	if held.Issuer != External {
		if _, _, ok := m.Entity(held.Issuer); !ok {
			m.logger.Info("approval discarded, issuer closed", "approval", r.ID)
			return applied()
		}
	}
	if !r.Allow {
		m.logger.Info("approval denied", "approval", r.ID, "issuer", held.Issuer)
		out := dropped("denied")
		m.complete(r.ID, held, out)
		return applied()
	}

	switch held.Request.(type) {
	case ReadFileSystem, WriteFileSystem, RemoveFileSystem:
		m.grant(held.Issuer, requiredPermission(held.Request))
	}
	m.logger.Info("approval granted", "approval", r.ID, "issuer", held.Issuer)
	out := m.apply(held)
	if m.auditor != nil {
		m.auditor.Decision(held, out)
	}
	m.complete(r.ID, held, out)
	return applied()
}

// complete tells the issuer of a held request how it ended.
func (m *Manager) complete(id string, env Envelope, out Outcome) {
	if env.Issuer == External {
		if m.extDone != nil {
			m.extDone(id, out)
		}
		return
	}
	w, _, ok := m.Entity(env.Issuer)
	if !ok {
		return
	}
	if w.HandleMessageWindow(RequestCompleted{Request: env.Request, Outcome: out}) {
		m.needsComposite = true
	}
}

// apply performs the effect of a request that passed the gate.
func (m *Manager) apply(env Envelope) Outcome {
	switch r := env.Request.(type) {
	case CloseWindow:
		m.closeEntity(m.target(env, r.Target))
		return applied()
	case OpenWindow:
		if r.App == StartMenuApp {
			m.toggleStartMenu()
			return applied()
		}
		return m.open(r.App)
	case FocusWindow:
		m.focusEntity(m.target(env, r.Target))
		return applied()
	case ChangeCursor:
		m.cursor = r.Cursor
		return applied()
	case ChangeCoords:
		w, _, ok := m.Entity(env.Issuer)
		if !ok {
			return dropped("issuer is not attached")
		}
		rect := w.Rect()
		if r.StickBottom {
			rect = layout.StickBottom(rect, m.display.Size())
		} else {
			rect = layout.Clamp(rect.Translate(r.Delta), layout.WorkArea(m.display.Size()))
		}
		w.SetOrigin(rect.Origin())
		m.needsComposite = true
		return applied()
	case ChangeThemeRequest:
		m.setTheme(r.Theme)
		m.needsComposite = true
		m.persist()
		return applied()
	case ChangeSettings:
		m.settings = m.settings.Apply(r.Changed)
		m.broadcast(OptionsChanged{Options: m.Options()})
		m.needsComposite = true
		m.persist()
		return applied()
	case ChangeDesktopBackground:
		m.background = r.Color
		m.broadcast(OptionsChanged{Options: m.Options()})
		m.needsComposite = true
		m.persist()
		return applied()
	case ReadFileSystem:
		content, found := m.fs.Read(r.Path)
		out := applied()
		out.Content, out.Found = content, found
		return out
	case WriteFileSystem:
		out := applied()
		out.OK = m.fs.Write(r.Path, r.Content)
		m.persist()
		return out
	case RemoveFileSystem:
		out := applied()
		out.OK = m.fs.Remove(r.Path)
		m.persist()
		return out
	}
	panic("wm: apply reached with unhandled request " + env.Request.Kind().String())
}
