package session_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/api"
	"github.com/jensholdgaard/hypebid-bot/internal/apitest"
	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/store/memory"
)

type fixture struct {
	srv     *apitest.Server
	mgr     *session.Manager
	events  *memory.EventStore
	clock   *clock.Mock
	journal *event.Journal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	srv := apitest.New(t)
	client, err := api.New(config.APIConfig{BaseURL: srv.URL(), Timeout: 5 * time.Second}, slog.Default(), noop.NewTracerProvider())
	require.NoError(t, err)

	clk := clock.NewMock(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))
	events := memory.NewEventStore(clk)
	journal := event.NewJournal(events, clk, slog.Default())
	mgr := session.NewManager(memory.NewSessionRepo(clk), client, journal, slog.Default(), noop.NewTracerProvider(), clk)
	return fixture{srv: srv, mgr: mgr, events: events, clock: clk, journal: journal}
}

func TestManager_LoginOpensSession(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser(domain.User{ID: "u1", Name: "Budi", Email: "budi@example.com", Balance: decimal.NewFromInt(75000)}, "pw")
	ctx := context.Background()

	_, err := f.mgr.Get(ctx, "discord-1")
	require.ErrorIs(t, err, session.ErrSignedOut)

	s, msg, err := f.mgr.Login(ctx, "discord-1", account.Login{Email: "budi@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Login success", msg)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "Budi", s.Profile.Name)

	got, err := f.mgr.Get(ctx, "discord-1")
	require.NoError(t, err)
	assert.Equal(t, s.Token, got.Token)
	assert.True(t, got.Profile.Balance.Equal(decimal.NewFromInt(75000)))

	history, err := f.journal.History(ctx, "discord-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, event.SessionOpened, history[0].Type)
}

func TestManager_LoginValidationSkipsNetwork(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.mgr.Login(context.Background(), "discord-1", account.Login{Email: "a@b.co"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, f.srv.Calls())
}

func TestManager_RegisterLowercasesEmail(t *testing.T) {
	f := newFixture(t)

	s, _, err := f.mgr.Register(context.Background(), "discord-9", account.Register{
		Name: "Sari", Email: "SARI@Example.com", Phone: "62812", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "sari@example.com", s.Profile.Email)
}

func TestManager_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser(domain.User{ID: "u1", Email: "budi@example.com"}, "pw")

	_, _, err := f.mgr.Login(context.Background(), "discord-1", account.Login{Email: "budi@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", domain.UserMessage(err))
	_, err = f.mgr.Get(context.Background(), "discord-1")
	assert.ErrorIs(t, err, session.ErrSignedOut)
}

func TestManager_OverwriteLastWriterWins(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser(domain.User{ID: "u1", Name: "Budi", Email: "budi@example.com"}, "pw")
	ctx := context.Background()
	_, _, err := f.mgr.Login(ctx, "discord-1", account.Login{Email: "budi@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = f.mgr.Overwrite(ctx, "discord-1", domain.User{ID: "u1", Name: "First"})
	require.NoError(t, err)
	_, err = f.mgr.Overwrite(ctx, "discord-1", domain.User{ID: "u1", Name: "Second", Phone: "62811"})
	require.NoError(t, err)

	got, err := f.mgr.Get(ctx, "discord-1")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Profile.Name)
	// Wholesale: fields absent from the last write are gone.
	assert.Empty(t, got.Profile.Email)
}

func TestManager_RefreshAndLocation(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser(domain.User{ID: "u1", Name: "Budi", Email: "budi@example.com"}, "pw")
	ctx := context.Background()
	_, _, err := f.mgr.Login(ctx, "discord-1", account.Login{Email: "budi@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, f.mgr.RememberLocation(ctx, "discord-1", "Jl. Braga 10, Bandung"))
	_, err = f.mgr.Overwrite(ctx, "discord-1", domain.User{ID: "u1", Name: "Stale"})
	require.NoError(t, err)

	s, err := f.mgr.Refresh(ctx, "discord-1")
	require.NoError(t, err)
	assert.Equal(t, "Budi", s.Profile.Name)
	assert.Equal(t, "Jl. Braga 10, Bandung", s.Location)
}

func TestManager_Close(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser(domain.User{ID: "u1", Email: "budi@example.com"}, "pw")
	ctx := context.Background()
	_, _, err := f.mgr.Login(ctx, "discord-1", account.Login{Email: "budi@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, f.mgr.Close(ctx, "discord-1"))
	_, err = f.mgr.Get(ctx, "discord-1")
	assert.ErrorIs(t, err, session.ErrSignedOut)
	assert.NoError(t, f.mgr.Close(ctx, "discord-1"), "closing twice")

	closed, err := f.events.LoadByType(ctx, event.SessionClosed)
	require.NoError(t, err)
	assert.Len(t, closed, 1)
}
