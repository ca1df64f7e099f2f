package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jensholdgaard/hypebid-bot/internal/clock"
)

// Journal appends audit entries with per-aggregate versions.
type Journal struct {
	mu       sync.Mutex
	versions map[string]int

	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewJournal returns a Journal writing to s.
func NewJournal(s Store, clk clock.Clock, logger *slog.Logger) *Journal {
	return &Journal{
		versions: make(map[string]int),
		store:    s,
		clock:    clk,
		logger:   logger,
	}
}

// Record appends one entry for aggregateID. A failure is logged and
// returned; callers do not undo the remote action it describes.
func (j *Journal) Record(ctx context.Context, aggregateID string, typ Type, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", typ, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	err = j.append(ctx, aggregateID, typ, payload)
	if errors.Is(err, ErrVersionConflict) {
		// Our cached version is behind the store; reload and try once more.
		delete(j.versions, aggregateID)
		err = j.append(ctx, aggregateID, typ, payload)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "journal append failed",
			slog.String("aggregate_id", aggregateID),
			slog.String("type", string(typ)),
			slog.Any("error", err),
		)
		return fmt.Errorf("appending %s: %w", typ, err)
	}
	return nil
}

func (j *Journal) append(ctx context.Context, aggregateID string, typ Type, payload []byte) error {
	version, ok := j.versions[aggregateID]
	if !ok {
		existing, err := j.store.Load(ctx, aggregateID)
		if err != nil {
			return fmt.Errorf("loading journal for %s: %w", aggregateID, err)
		}
		for _, e := range existing {
			version = max(version, e.Version)
		}
	}
	version++

	if err := j.store.Append(ctx, Event{
		AggregateID: aggregateID,
		Type:        typ,
		Data:        payload,
		Version:     version,
		CreatedAt:   j.clock.Now(),
	}); err != nil {
		return err
	}
	j.versions[aggregateID] = version
	return nil
}

// History returns the entries recorded for aggregateID, oldest first.
func (j *Journal) History(ctx context.Context, aggregateID string) ([]Event, error) {
	return j.store.Load(ctx, aggregateID)
}
