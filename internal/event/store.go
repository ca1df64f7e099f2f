package event

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by Append when an entry with the same
// aggregate and version already exists, e.g. written by another replica.
var ErrVersionConflict = errors.New("event version conflict")

// Store persists and retrieves journal entries.
type Store interface {
	// Append persists one or more entries atomically. A duplicate
	// (aggregate, version) fails with ErrVersionConflict.
	Append(ctx context.Context, events ...Event) error
	// Load returns the entries of one Discord user, ordered by version.
	Load(ctx context.Context, aggregateID string) ([]Event, error)
	// LoadByType returns entries of one kind, oldest first.
	LoadByType(ctx context.Context, eventType Type) ([]Event, error)
}
