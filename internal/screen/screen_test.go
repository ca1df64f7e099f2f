package screen_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/api"
	"github.com/jensholdgaard/hypebid-bot/internal/apitest"
	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/store/memory"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type env struct {
	srv    *apitest.Server
	svc    *screen.Services
	clock  *clock.Mock
	events *memory.EventStore
}

func newEnv(t *testing.T) env {
	t.Helper()
	clk := clock.NewMock(now)
	srv := apitest.New(t)
	srv.SetClock(clk.Now)

	client, err := api.New(config.APIConfig{BaseURL: srv.URL(), Timeout: 5 * time.Second}, slog.Default(), noop.NewTracerProvider())
	require.NoError(t, err)

	events := memory.NewEventStore(clk)
	journal := event.NewJournal(events, clk, slog.Default())
	sessions := session.NewManager(memory.NewSessionRepo(clk), client, journal, slog.Default(), noop.NewTracerProvider(), clk)

	svc, err := screen.NewServices(client, sessions, journal, slog.Default(), noop.NewTracerProvider(), clk)
	require.NoError(t, err)
	return env{srv: srv, svc: svc, clock: clk, events: events}
}

// signIn registers an account on the fake API and opens a session for it.
func (e env) signIn(t *testing.T, discordID string, u domain.User) *session.Session {
	t.Helper()
	if u.Email == "" {
		u.Email = discordID + "@example.com"
	}
	e.srv.AddUser(u, "secret")
	s, _, err := e.svc.Sessions.Login(context.Background(), discordID, account.Login{Email: u.Email, Password: "secret"})
	require.NoError(t, err)
	return s
}

// liveAuction is an ongoing auction sold by seller with no bids.
func liveAuction(id, seller string) domain.Auction {
	return domain.Auction{
		ID:           id,
		Name:         "Air Jordan 1 Chicago",
		Category:     domain.CategoryFootwear,
		Status:       domain.AuctionAccepted,
		UserID:       seller,
		Start:        now.Add(-time.Hour),
		End:          now.Add(time.Hour),
		OpeningPrice: dec(100000),
		BuyNowPrice:  dec(500000),
		MinimumBid:   dec(10000),
		IsAbleToBid:  true,
	}
}

func (e env) countEvents(t *testing.T, typ event.Type) int {
	t.Helper()
	got, err := e.events.LoadByType(context.Background(), typ)
	require.NoError(t, err)
	return len(got)
}
