package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/store"
	"github.com/jensholdgaard/hypebid-bot/internal/store/memory"
)

func TestSessionRepo(t *testing.T) {
	clk := clock.NewMock(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	repo := memory.NewSessionRepo(clk)
	ctx := context.Background()

	_, err := repo.Get(ctx, "d1")
	require.ErrorIs(t, err, store.ErrNotFound)

	s := &store.Session{DiscordID: "d1", UserID: "u1", Token: "t1", Profile: []byte(`{"name":"A"}`)}
	require.NoError(t, repo.Save(ctx, s))
	created := s.CreatedAt

	// Callers mutating their copy do not leak into the store.
	s.Profile[2] = 'X'
	got, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A"}`, string(got.Profile))

	clk.Advance(time.Hour)
	require.NoError(t, repo.Save(ctx, &store.Session{DiscordID: "d1", UserID: "u1", Token: "t2"}))
	got, err = repo.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Token)
	assert.Empty(t, got.Profile)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, clk.Now(), got.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, "d1"))
	_, err = repo.Get(ctx, "d1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEventStore(t *testing.T) {
	es := memory.NewEventStore(clock.Real{})
	ctx := context.Background()

	require.NoError(t, es.Append(ctx,
		event.Event{AggregateID: "d1", Type: event.BidPlaced, Version: 2},
		event.Event{AggregateID: "d1", Type: event.SessionOpened, Version: 1},
		event.Event{AggregateID: "d2", Type: event.SessionOpened, Version: 1},
	))

	loaded, err := es.Load(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].Version)
	assert.NotEmpty(t, loaded[0].ID)

	opened, err := es.LoadByType(ctx, event.SessionOpened)
	require.NoError(t, err)
	assert.Len(t, opened, 2)

	err = es.Append(ctx, event.Event{AggregateID: "d1", Type: event.BidPlaced, Version: 2})
	assert.Error(t, err, "duplicate version")
}

func TestOpenRegistersDriver(t *testing.T) {
	repos, err := store.Open(context.Background(), config.DatabaseConfig{Driver: "memory"}, clock.Real{})
	require.NoError(t, err)
	assert.NoError(t, repos.Ping(context.Background()))
	assert.NoError(t, repos.Closer.Close())
}
