// Package location keeps the traveler's most recent position for the trip day.
package location

import (
	"errors"
	"sync"

	"github.com/pkordes/daytrip/internal/domain"
)

// ErrPermissionDenied is reported when the device refuses to share its position.
var ErrPermissionDenied = errors.New("location permission denied")

// WatchOptions are the preferences passed to a Source when subscribing.
type WatchOptions struct {
	HighAccuracy bool
}

// Source is a platform location service delivering a continuous stream of
// fixes and error notifications. Watch returns a cancel function that ends
// the subscription; it must be safe to call more than once. Watch must not
// deliver fixes before it returns.
type Source interface {
	Watch(opts WatchOptions, onFix func(domain.Coordinate), onErr func(error)) (cancel func(), err error)
}

// PushSource is a Source fed from outside the process: the device reports
// fixes and failures (over HTTP in production) and PushSource fans them out
// to every active watcher on the caller's goroutine.
type PushSource struct {
	mu       sync.Mutex
	nextID   int
	watchers map[int]watcher
}

type watcher struct {
	onFix func(domain.Coordinate)
	onErr func(error)
}

// NewPushSource returns a PushSource with no watchers.
func NewPushSource() *PushSource {
	return &PushSource{watchers: make(map[int]watcher)}
}

// Watch registers a watcher. Options are accepted for interface compatibility;
// accuracy is decided by the device that pushes fixes.
func (p *PushSource) Watch(_ WatchOptions, onFix func(domain.Coordinate), onErr func(error)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.watchers[id] = watcher{onFix: onFix, onErr: onErr}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.watchers, id)
			p.mu.Unlock()
		})
	}, nil
}

// Push delivers a fix to every watcher.
func (p *PushSource) Push(c domain.Coordinate) {
	for _, w := range p.snapshot() {
		w.onFix(c)
	}
}

// Fail delivers an error notification to every watcher.
func (p *PushSource) Fail(err error) {
	for _, w := range p.snapshot() {
		if w.onErr != nil {
			w.onErr(err)
		}
	}
}

// Watchers reports the number of active subscriptions.
func (p *PushSource) Watchers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.watchers)
}

func (p *PushSource) snapshot() []watcher {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]watcher, 0, len(p.watchers))
	for _, w := range p.watchers {
		out = append(out, w)
	}
	return out
}
