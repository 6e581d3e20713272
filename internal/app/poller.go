package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/rsspanel/internal/panel"
)

// Refresher is the part of *panel.Controller the poller drives.
type Refresher interface {
	State() panel.State
	Refresh(ctx context.Context)
}

var _ Refresher = (*panel.Controller)(nil)

// StartPoller launches a background goroutine that refreshes the panel at a
// fixed cadence. It returns immediately. A non-positive interval disables
// polling.
func StartPoller(ctx context.Context, r Refresher, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if ctx.Err() != nil {
				return
			}
			if shouldPoll(r.State()) {
				if logger != nil {
					logger.Debug("periodic refresh")
				}
				r.Refresh(ctx)
			}
		}
	}()
}

// shouldPoll skips ticks while configuring, without a feed, or while the
// previous refresh is still loading.
func shouldPoll(s panel.State) bool {
	return s.Mode == panel.ModeReady && s.FeedURL != "" && !s.Loading
}
