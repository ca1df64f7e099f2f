package screen

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/clock"
)

// View is anything the registry can hold.
type View interface {
	Close()
}

// busy is implemented by views with a single-submission guard.
type busy interface {
	Busy() bool
}

func inFlight(v View) bool {
	b, ok := v.(busy)
	return ok && b.Busy()
}

// Key identifies a view: one per Discord user and entity.
type Key struct {
	User   string
	Entity string
}

type entry struct {
	view     View
	lastUsed time.Time
}

// Registry keeps live views so repeated interactions reach the same
// instance. Views idle for longer than the TTL are closed by Sweep.
type Registry struct {
	mu    sync.Mutex
	views map[Key]*entry

	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

// NewRegistry creates a Registry closing views idle for ttl.
func NewRegistry(ttl time.Duration, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		views:  make(map[Key]*entry),
		ttl:    ttl,
		clock:  clk,
		logger: logger,
	}
}

// Open returns the view stored under key, creating it with create when
// there is none or the stored one has another type.
func Open[V View](r *Registry, key Key, create func() V) V {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if e, ok := r.views[key]; ok {
		if v, ok := e.view.(V); ok {
			e.lastUsed = now
			return v
		}
		e.view.Close()
	}
	v := create()
	r.views[key] = &entry{view: v, lastUsed: now}
	return v
}

// Close closes and forgets the view under key.
func (r *Registry) Close(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.views[key]; ok {
		e.view.Close()
		delete(r.views, key)
	}
}

// CloseUser closes every view of a Discord user.
func (r *Registry) CloseUser(user string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.views {
		if k.User == user {
			e.view.Close()
			delete(r.views, k)
			n++
		}
	}
	return n
}

// Sweep closes views idle for longer than the TTL and returns how many it
// closed. A view with a submission in flight is not idle; it is kept and
// its idle time restarts.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	cutoff := now.Add(-r.ttl)
	n := 0
	for k, e := range r.views {
		if inFlight(e.view) {
			e.lastUsed = now
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.view.Close()
			delete(r.views, k)
			n++
		}
	}
	return n
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Run sweeps every interval until ctx is done, then closes all views.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.DebugContext(ctx, "closed idle views", slog.Int("count", n))
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.views {
		e.view.Close()
		delete(r.views, k)
	}
}
