// Package memory is an in-process store driver for development and tests.
// Everything is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/store"
)

func init() {
	store.Register("memory", open)
}

func open(_ context.Context, _ config.DatabaseConfig, clk clock.Clock) (*store.Repositories, error) {
	return &store.Repositories{
		Sessions: NewSessionRepo(clk),
		Events:   NewEventStore(clk),
		Closer:   store.CloserFunc(func() error { return nil }),
		Ping:     func(context.Context) error { return nil },
	}, nil
}

// SessionRepo implements store.SessionRepository in memory.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]store.Session
	clock    clock.Clock
}

// NewSessionRepo returns an empty SessionRepo.
func NewSessionRepo(clk clock.Clock) *SessionRepo {
	return &SessionRepo{sessions: make(map[string]store.Session), clock: clk}
}

func (r *SessionRepo) Get(_ context.Context, discordID string) (*store.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[discordID]
	if !ok {
		return nil, store.ErrNotFound
	}
	s.Profile = append([]byte(nil), s.Profile...)
	return &s, nil
}

func (r *SessionRepo) Save(_ context.Context, s *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	if prev, ok := r.sessions[s.DiscordID]; ok {
		s.CreatedAt = prev.CreatedAt
	} else if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	cp := *s
	cp.Profile = append([]byte(nil), s.Profile...)
	r.sessions[s.DiscordID] = cp
	return nil
}

func (r *SessionRepo) Delete(_ context.Context, discordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, discordID)
	return nil
}

// EventStore implements event.Store in memory.
type EventStore struct {
	mu     sync.RWMutex
	events []event.Event
	clock  clock.Clock
}

// NewEventStore returns an empty EventStore.
func NewEventStore(clk clock.Clock) *EventStore {
	return &EventStore{clock: clk}
}

func (s *EventStore) Append(_ context.Context, events ...event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		key := fmt.Sprintf("%s/%d", e.AggregateID, e.Version)
		if seen[key] || s.hasVersion(e.AggregateID, e.Version) {
			return fmt.Errorf("inserting event (aggregate=%s, version=%d): %w", e.AggregateID, e.Version, event.ErrVersionConflict)
		}
		seen[key] = true
	}
	for _, e := range events {
		e.ID = uuid.NewString()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.clock.Now()
		}
		s.events = append(s.events, e)
	}
	return nil
}

func (s *EventStore) hasVersion(aggregateID string, version int) bool {
	for _, e := range s.events {
		if e.AggregateID == aggregateID && e.Version == version {
			return true
		}
	}
	return false
}

func (s *EventStore) Load(_ context.Context, aggregateID string) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []event.Event
	for _, e := range s.events {
		if e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *EventStore) LoadByType(_ context.Context, eventType event.Type) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []event.Event
	for _, e := range s.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
