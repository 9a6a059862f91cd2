package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/herblock/herblock/internal/client/api"
	"github.com/herblock/herblock/internal/logging"
)

const probeTimeout = 5 * time.Second

// OnlineWatcher periodically probes gateway liveness and tracks the current
// reachability as a boolean ("can I reach the gateway right now"). The flag
// is advisory only: a sync attempt may still fail after Online reported true,
// and every failure path keeps events pending, so a stale reading costs at
// most a wasted request.
type OnlineWatcher struct {
	client   api.Client
	interval time.Duration
	logger   logging.Logger
	onChange func(online bool)

	online atomic.Bool
}

// NewOnlineWatcher constructs a watcher probing via c every interval.
// onChange, if non-nil, is called on every reachability transition.
func NewOnlineWatcher(c api.Client, interval time.Duration, logger logging.Logger, onChange func(online bool)) *OnlineWatcher {
	return &OnlineWatcher{client: c, interval: interval, logger: logger, onChange: onChange}
}

// Online returns the last observed reachability.
func (w *OnlineWatcher) Online() bool {
	return w.online.Load()
}

// Check probes the gateway once and updates the flag.
func (w *OnlineWatcher) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	online := w.client.Ping(ctx) == nil
	if w.online.Swap(online) != online {
		if online {
			w.logger.Info(ctx, "gateway reachable, switching to online mode")
		} else {
			w.logger.Info(ctx, "gateway unreachable, switching to offline mode")
		}
		if w.onChange != nil {
			w.onChange(online)
		}
	}
	return online
}

// Run probes immediately and then on every tick until ctx is cancelled.
// It is meant to be started as a goroutine.
func (w *OnlineWatcher) Run(ctx context.Context) {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
