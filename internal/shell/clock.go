package shell

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/mingde/internal/wm"
)

// Clock posts a TimeUpdate at the start of every minute.
type Clock struct {
	post   func(wm.Message)
	now    func() time.Time
	logger *slog.Logger
}

func NewClock(post func(wm.Message), logger *slog.Logger) *Clock {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Clock{post: post, now: time.Now, logger: logger}
}

// Serve blocks until ctx is cancelled.
func (c *Clock) Serve(ctx context.Context) error {
	c.logger.Debug("clock started")
	c.post(wm.TimeUpdate{Now: c.now()})
	for {
		timer := time.NewTimer(untilNextMinute(c.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Debug("clock stopped")
			return ctx.Err()
		case <-timer.C:
			c.post(wm.TimeUpdate{Now: c.now()})
		}
	}
}

func untilNextMinute(t time.Time) time.Duration {
	return t.Truncate(time.Minute).Add(time.Minute).Sub(t)
}
