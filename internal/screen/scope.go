package screen

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrStale is returned when a newer fetch of the same view superseded
	// this one. Its result was discarded.
	ErrStale = errors.New("superseded by a newer fetch")
	// ErrClosed is returned once the view has been closed.
	ErrClosed = errors.New("view closed")
)

// Ticket identifies one fetch of a view.
type Ticket uint64

// Scope is the lifetime of one view: a cancellable context for its requests
// and a request generation counter guarding its state. Only the newest
// ticket may commit.
type Scope[T any] struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu     sync.Mutex
	gen    uint64
	state  T
	loaded bool
}

// NewScope returns a Scope whose requests are cancelled when parent ends or
// Close is called.
func NewScope[T any](parent context.Context) *Scope[T] {
	ctx, cancel := context.WithCancelCause(parent)
	return &Scope[T]{ctx: ctx, cancel: cancel}
}

// Begin starts a fetch and returns its ticket. Any fetch started earlier
// becomes stale.
func (s *Scope[T]) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return Ticket(s.gen)
}

// Bind derives a request context from ctx that is also cancelled when the
// scope closes.
func (s *Scope[T]) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(s.ctx, func() { cancel(ErrClosed) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}

// Commit stores state if t is still the newest ticket and the scope is
// open.
func (s *Scope[T]) Commit(t Ticket, state T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	if uint64(t) != s.gen {
		return ErrStale
	}
	s.state = state
	s.loaded = true
	return nil
}

// State returns the last committed state and whether one exists.
func (s *Scope[T]) State() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.loaded
}

// Err returns ErrClosed once the scope is closed.
func (s *Scope[T]) Err() error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	return nil
}

// Close cancels every in-flight request of the view.
func (s *Scope[T]) Close() {
	s.cancel(ErrClosed)
}

// settle maps a request error to ErrClosed when it was caused by the scope
// closing.
func (s *Scope[T]) settle(err error) error {
	if err != nil && s.ctx.Err() != nil {
		return ErrClosed
	}
	return err
}
