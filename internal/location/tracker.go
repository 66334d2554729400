package location

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkordes/daytrip/internal/domain"
)

// Tracker is the LocationTracker. It subscribes to a Source between Start and
// Stop and remembers the last good fix. Errors never clear that fix.
//
// A nil Source means the device has no location capability: the tracker
// stays silent and Latest keeps reporting unknown. That is not an error.
type Tracker struct {
	source Source
	log    *slog.Logger

	mu        sync.RWMutex
	latest    domain.Coordinate
	known     bool
	listeners []func(domain.Coordinate)
	cancel    func()
	unwatch   func() bool
}

// NewTracker returns a stopped Tracker reading from src. log may be nil.
func NewTracker(src Source, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{source: src, log: log}
}

// Start opens a high-accuracy subscription. The subscription is released by
// Stop or, failing that, when ctx is done. Starting a running tracker is a no-op.
func (t *Tracker) Start(ctx context.Context) {
	if t.source == nil {
		t.log.Info("location capability unavailable; tracking disabled")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	cancel, err := t.source.Watch(WatchOptions{HighAccuracy: true}, t.handleFix, t.handleError)
	if err != nil {
		t.log.Warn("location subscription failed", "error", err)
		return
	}
	t.cancel = cancel
	t.unwatch = context.AfterFunc(ctx, t.Stop)
	t.log.Debug("location tracking started")
}

// Stop cancels the subscription. It is idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, unwatch := t.cancel, t.unwatch
	t.cancel, t.unwatch = nil, nil
	t.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
	if cancel != nil {
		cancel()
		t.log.Debug("location tracking stopped")
	}
}

// Latest returns the last known coordinate and whether one has been seen.
func (t *Tracker) Latest() (domain.Coordinate, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.known
}

// OnUpdate registers fn to run after every accepted fix.
func (t *Tracker) OnUpdate(fn func(domain.Coordinate)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *Tracker) handleFix(c domain.Coordinate) {
	if err := c.Validate(); err != nil {
		t.log.Warn("discarding invalid location fix", "error", err)
		return
	}

	t.mu.Lock()
	if t.cancel == nil {
		// late delivery after Stop
		t.mu.Unlock()
		return
	}
	t.latest, t.known = c, true
	listeners := t.listeners
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}

func (t *Tracker) handleError(err error) {
	t.log.Warn("location fix failed; keeping last known position", "error", err)
}
