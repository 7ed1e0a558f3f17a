package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/mingde/internal/audit"
	"github.com/1broseidon/mingde/internal/config"
	"github.com/1broseidon/mingde/internal/desktop"
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/platform"
	"github.com/1broseidon/mingde/internal/snapshot"
	"github.com/1broseidon/mingde/internal/vfs"
	"github.com/1broseidon/mingde/internal/wm"
	"github.com/thejerf/suture/v4"
)

// Shell is a wired desktop: manager, desktop entities, file system,
// snapshot store and audit log, driven by a Loop.
type Shell struct {
	Manager *wm.Manager
	FS      *vfs.FS
	Store   *snapshot.Store
	Audit   *audit.Logger
	Loop    *Loop

	host   platform.Host
	logger *slog.Logger
}

// New builds the shell for cfg on host. A saved snapshot, when enabled and
// present, replaces the configured theme, settings, background and file
// system.
func New(cfg *config.Config, host platform.Host, logger *slog.Logger) (*Shell, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	state := cfg.State()
	fs := vfs.Default()

	var store *snapshot.Store
	if cfg.Snapshot.Enabled {
		path, err := cfg.SnapshotPath()
		if err != nil {
			return nil, err
		}
		snap, sum, err := snapshot.Load(path, cfg.Snapshot.Hash)
		switch {
		case err == nil:
			state = snap.State()
			fs = vfs.New(snap.Files)
			logger.Info("snapshot loaded", "path", path, "sha256", sum)
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("no snapshot yet", "path", path)
		default:
			return nil, err
		}
		store = snapshot.NewStore(path, fs, logger)
	}

	ac := cfg.GetAuditConfig()
	auditor, err := audit.New(audit.Config{
		Enabled:   ac.Enabled,
		Level:     audit.ParseLevel(ac.Level),
		FilePath:  ac.File,
		MaxSizeMB: ac.MaxSizeMB,
		MaxFiles:  ac.MaxFiles,
	})
	if err != nil {
		return nil, err
	}

	hostSize := host.Size()
	display := geom.Size{
		Width:  int(float64(hostSize.Width) * cfg.Scale),
		Height: int(float64(hostSize.Height) * cfg.Scale),
	}
	var loop *Loop
	mcfg := wm.Config{
		Display:      display,
		Scale:        cfg.Scale,
		Theme:        state.Theme,
		Settings:     state.Settings,
		Background:   state.Background,
		Shortcuts:    cfg.ShortcutTable(),
		Logger:       logger,
		Opener:       desktop.NewRegistry(cfg.ShortcutTable(), cfg.Grants()),
		Prompter:     desktop.Prompter{},
		FileSystem:   fs,
		Auditor:      auditor,
		ExternalDone: func(id string, out wm.Outcome) { loop.ExternalDone(id, out) },
	}
	if store != nil {
		mcfg.Persister = store
	}
	m := wm.New(mcfg)
	m.Attach(wm.LayerDesktop, desktop.NewBackground(display))
	m.Attach(wm.LayerTaskbar, desktop.NewTaskbar(display))
	m.HandleMessage(wm.TimeUpdate{Now: time.Now()})
	loop = NewLoop(m, host, logger)

	return &Shell{
		Manager: m,
		FS:      fs,
		Store:   store,
		Audit:   auditor,
		Loop:    loop,
		host:    host,
		logger:  logger,
	}, nil
}

// Services returns the supervised parts of the shell.
func (s *Shell) Services() []suture.Service {
	return []suture.Service{
		s.Loop,
		&hostService{host: s.host, post: s.Loop.Post, logger: s.logger},
		NewClock(s.Loop.Post, s.logger),
	}
}

// Run supervises the shell's services plus extra until ctx ends or the host
// is closed.
func (s *Shell) Run(ctx context.Context, extra ...suture.Service) error {
	defer s.Audit.Close()
	defer s.Loop.Stop()

	sup := suture.New("mingde", suture.Spec{EventHook: eventHook(s.logger)})
	for _, svc := range append(s.Services(), extra...) {
		sup.Add(svc)
	}
	err := sup.Serve(ctx)
	if errors.Is(err, suture.ErrTerminateSupervisorTree) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// hostService feeds host input to the loop. A closed host ends the whole
// tree.
type hostService struct {
	host   platform.Host
	post   func(wm.Message)
	logger *slog.Logger
}

func (h *hostService) Serve(ctx context.Context) error {
	err := h.host.Run(ctx, h.post)
	if errors.Is(err, platform.ErrClosed) {
		h.logger.Info("host closed")
		return suture.ErrTerminateSupervisorTree
	}
	return err
}

func (h *hostService) String() string { return fmt.Sprintf("host(%T)", h.host) }

func (l *Loop) String() string  { return "loop" }
func (c *Clock) String() string { return "clock" }

func eventHook(logger *slog.Logger) suture.EventHook {
	return func(e suture.Event) {
		switch e.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
			logger.Warn("service event", "event", e.String())
		default:
			logger.Debug("service event", "event", e.String())
		}
	}
}
