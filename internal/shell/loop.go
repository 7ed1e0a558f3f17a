// Package shell runs the window manager: it serialises host input, clock
// ticks and external commands onto one goroutine and presents a frame to
// the host whenever the manager composited.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/mingde/internal/platform"
	"github.com/1broseidon/mingde/internal/wm"
)

// ErrStopped is returned by Do when the loop has stopped.
var ErrStopped = errors.New("shell loop stopped")

// Loop owns the manager. Every access to it goes through Post or Do.
type Loop struct {
	m      *wm.Manager
	host   platform.Host
	logger *slog.Logger
	jobs   chan func()
	done   chan struct{}

	presented uint64
	cursor    wm.Cursor
	waiters   map[string]chan wm.Outcome
}

func NewLoop(m *wm.Manager, host platform.Host, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		m:       m,
		host:    host,
		logger:  logger,
		jobs:    make(chan func(), 256),
		done:    make(chan struct{}),
		cursor:  wm.CursorDefault,
		waiters: make(map[string]chan wm.Outcome),
	}
}

// Post queues a host message. It does not wait for it to be handled.
func (l *Loop) Post(msg wm.Message) {
	l.enqueue(func() { l.m.HandleMessage(msg) })
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(ctx context.Context, fn func(m *wm.Manager) error) error {
	errc := make(chan error, 1)
	job := func() {
		defer func() {
			if r := recover(); r != nil {
				errc <- fmt.Errorf("shell job panicked: %v", r)
				panic(r)
			}
		}()
		errc <- fn(l.m)
	}
	select {
	case l.jobs <- job:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit runs an external request through the gate on the loop.
func (l *Loop) Submit(ctx context.Context, req wm.Request) (wm.Outcome, error) {
	var out wm.Outcome
	err := l.Do(ctx, func(m *wm.Manager) error {
		out = m.Submit(req)
		return nil
	})
	return out, err
}

// SubmitWait is Submit, but a request held for approval is waited on until
// the user answers or ctx ends.
func (l *Loop) SubmitWait(ctx context.Context, req wm.Request) (wm.Outcome, error) {
	var out wm.Outcome
	var wait chan wm.Outcome
	err := l.Do(ctx, func(m *wm.Manager) error {
		out = m.Submit(req)
		if out.Status == wm.StatusPending {
			wait = make(chan wm.Outcome, 1)
			l.waiters[out.Approval] = wait
		}
		return nil
	})
	if err != nil || wait == nil {
		return out, err
	}
	select {
	case final := <-wait:
		return final, nil
	case <-ctx.Done():
		l.forget(out.Approval)
		return out, ctx.Err()
	case <-l.done:
		return out, ErrStopped
	}
}

// forget drops the waiter for approval once nobody listens for it.
func (l *Loop) forget(approval string) {
	l.enqueue(func() { delete(l.waiters, approval) })
}

// Waiting reports how many external requests are held for approval.
func (l *Loop) Waiting(ctx context.Context) (int, error) {
	var n int
	err := l.Do(ctx, func(*wm.Manager) error {
		n = len(l.waiters)
		return nil
	})
	return n, err
}

// ExternalDone delivers the outcome of a held external request to its
// waiter. It runs on the loop goroutine.
func (l *Loop) ExternalDone(approval string, out wm.Outcome) {
	if wait, ok := l.waiters[approval]; ok {
		delete(l.waiters, approval)
		wait <- out
	}
}

func (l *Loop) enqueue(job func()) {
	select {
	case l.jobs <- job:
	case <-l.done:
	}
}

// Serve composites once and then handles jobs until ctx ends. It
// implements suture.Service; a panicking job ends Serve and the supervisor
// restarts it.
func (l *Loop) Serve(ctx context.Context) error {
	l.logger.Info("shell loop started", "display", l.m.Display().Size())
	l.m.Render()
	l.present()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("shell loop stopped")
			return ctx.Err()
		case job := <-l.jobs:
			job()
			l.present()
		}
	}
}

// Stop makes pending and future Do calls return ErrStopped.
func (l *Loop) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

// present hands the display to the host if a composite happened since the
// last one, and forwards cursor changes.
func (l *Loop) present() {
	if c := l.m.Cursor(); c != l.cursor {
		l.cursor = c
		if err := l.host.SetCursor(c); err != nil {
			l.logger.Warn("failed to set cursor", "cursor", c, "error", err)
		}
	}
	frame := l.m.Frame()
	if frame == l.presented {
		return
	}
	l.presented = frame
	if err := l.host.Present(l.m.Display().Image()); err != nil {
		l.logger.Warn("failed to present frame", "frame", frame, "error", err)
	}
}
