// Package clock implements the trip-day countdown: every period it decides
// whether the traveler is waiting for arrival or for the all-aboard deadline
// and formats the time left.
package clock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/daytrip/internal/domain"
)

// DefaultPeriod is how often the countdown is re-evaluated.
const DefaultPeriod = time.Second

// Milestones are the two fixed wall-clock instants of the trip day.
type Milestones struct {
	Arrival domain.TimeOfDay
	Onboard domain.TimeOfDay
}

// Evaluate computes the countdown for now. It is a pure function of its inputs.
//
// Before the arrival instant the target is arrival; from then on it is onboard.
// The switch is re-derived from the wall clock on every call, so a clock edit
// moves it in either direction. Nothing wraps to the next day after onboard.
func Evaluate(m Milestones, now time.Time) domain.Countdown {
	arrival := m.Arrival.On(now)
	onboard := m.Onboard.On(now)

	c := domain.Countdown{Target: domain.MilestoneOnboard, Label: domain.LabelOnboard}
	target := onboard
	// At exactly the arrival instant the target is still arrival, showing its terminal phrase.
	if !now.After(arrival) {
		c = domain.Countdown{Target: domain.MilestoneArrival, Label: domain.LabelArrival}
		target = arrival
	}

	remaining := target.Sub(now)
	if remaining <= 0 {
		c.Terminal = true
		c.Display = domain.TerminalOnboard
		if c.Target == domain.MilestoneArrival {
			c.Display = domain.TerminalArrival
		}
		return c
	}
	c.Display = FormatRemaining(remaining)
	return c
}

// FormatRemaining renders d as "Hh Mm Ss", truncating each unit.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the wall clock. Tests use it to pin the current time.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// WithPeriod overrides DefaultPeriod.
func WithPeriod(d time.Duration) Option {
	return func(c *Clock) { c.period = d }
}

// WithLocation evaluates milestones in loc instead of the time's own location.
func WithLocation(loc *time.Location) Option {
	return func(c *Clock) { c.loc = loc }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Clock) { c.log = log }
}

// WithOnTick registers fn to receive every new countdown value.
func WithOnTick(fn func(domain.Countdown)) Option {
	return func(c *Clock) { c.onTick = fn }
}

// Clock is the TimeWindowClock. It owns one ticker goroutine between Start and Stop.
type Clock struct {
	milestones Milestones
	now        func() time.Time
	period     time.Duration
	loc        *time.Location
	log        *slog.Logger
	onTick     func(domain.Countdown)

	mu      sync.RWMutex
	current domain.Countdown
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a stopped Clock for the given milestones.
func New(m Milestones, opts ...Option) *Clock {
	c := &Clock{
		milestones: m,
		now:        time.Now,
		period:     DefaultPeriod,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick evaluates the countdown once, publishes it and returns it.
func (c *Clock) Tick() domain.Countdown {
	now := c.now()
	if c.loc != nil {
		now = now.In(c.loc)
	}
	cd := Evaluate(c.milestones, now)

	c.mu.Lock()
	changed := cd != c.current
	c.current = cd
	c.mu.Unlock()

	if changed && cd.Terminal {
		c.log.Info("countdown reached milestone", "target", cd.Target)
	}
	if c.onTick != nil {
		c.onTick(cd)
	}
	return cd
}

// Current returns the most recently published countdown.
func (c *Clock) Current() domain.Countdown {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Start evaluates immediately and then once per period until Stop is called
// or ctx is cancelled. Calling Start on a running clock is a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	c.Tick()
	go func() {
		defer close(done)
		ticker := time.NewTicker(c.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Tick()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the ticker and waits for its goroutine to exit.
// It is idempotent and safe to call on a clock that was never started.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
