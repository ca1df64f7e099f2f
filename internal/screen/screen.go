// Package screen holds the per-view state containers of the bot. A view
// fetches what it shows through the HypeBid API, runs the resolvers and
// guards over the result and commits it under its scope. Views never mutate
// fetched data; every confirmed action is followed by a re-fetch.
package screen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/withdraw"
)

var (
	// ErrUnavailable is returned when an action is not offered in the
	// view's current state. Views treat it as a no-op.
	ErrUnavailable = errors.New("action not available")
	// ErrBusy is returned while a submission of the same view is in flight.
	// The attempt is dropped, not queued.
	ErrBusy = errors.New("submission in progress")
)

// API is the HypeBid API as the views use it.
type API interface {
	ListAuctions(ctx context.Context) ([]domain.Auction, error)
	GetAuction(ctx context.Context, id string) (*domain.Auction, error)
	OwnedAuctions(ctx context.Context) ([]domain.Auction, error)
	CreateAuction(ctx context.Context, l auction.Listing) (domain.Envelope[*domain.Auction], error)
	FinishAuction(ctx context.Context, id string) (domain.Envelope[*domain.Auction], error)

	ListBids(ctx context.Context) ([]domain.Bid, error)
	PlaceBid(ctx context.Context, auctionID string, amount decimal.Decimal) (domain.Envelope[*domain.Transaction], error)

	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	SetTransactionLocation(ctx context.Context, id, location string) (domain.Envelope[*domain.Transaction], error)
	MarkDelivered(ctx context.Context, id string) (domain.Envelope[*domain.Transaction], error)
	MarkCompleted(ctx context.Context, id string) (domain.Envelope[*domain.Transaction], error)

	UpdateAccount(ctx context.Context, p account.EditProfile) (domain.Envelope[domain.User], error)
	UpdateImage(ctx context.Context, img domain.Upload) (domain.Envelope[domain.User], error)
	DeleteImage(ctx context.Context) (domain.Envelope[domain.User], error)
	ChangePassword(ctx context.Context, p account.ChangePassword) (domain.Envelope[domain.User], error)
	CheckKYC(ctx context.Context) (*domain.Kyc, error)
	SubmitKYC(ctx context.Context, img domain.Upload) (domain.Envelope[*domain.Kyc], error)

	RequestWithdraw(ctx context.Context, r withdraw.Request) (domain.Envelope[*domain.Withdraw], error)
	ListWithdraws(ctx context.Context) ([]domain.Withdraw, error)
}

// Target is where a view sends the user after an action.
type Target int

const (
	TargetNone Target = iota
	TargetAuction
	TargetTransaction
	TargetKYC
)

// Navigation points at another view.
type Navigation struct {
	Target Target
	ID     string
}

// Result is the outcome of a confirmed action.
type Result struct {
	// Message is the server's confirmation.
	Message  string
	Navigate Navigation
}

// Services are the collaborators shared by all views.
type Services struct {
	API      API
	Sessions *session.Manager
	Journal  *event.Journal
	Clock    clock.Clock
	Logger   *slog.Logger

	tracer trace.Tracer
	bids   metric.Int64Counter
}

// NewServices bundles the view collaborators.
func NewServices(api API, sessions *session.Manager, journal *event.Journal, logger *slog.Logger, tp trace.TracerProvider, clk clock.Clock) (*Services, error) {
	bids, err := otel.Meter("github.com/jensholdgaard/hypebid-bot/internal/screen").Int64Counter(
		"hypebid.bids",
		metric.WithDescription("Bid submissions by kind and result"),
	)
	if err != nil {
		return nil, err
	}
	return &Services{
		API:      api,
		Sessions: sessions,
		Journal:  journal,
		Clock:    clk,
		Logger:   logger,
		tracer:   tp.Tracer("github.com/jensholdgaard/hypebid-bot/internal/screen"),
		bids:     bids,
	}, nil
}

// record journals a confirmed action. Journal failures are logged by the
// journal and never undo the action.
func (s *Services) record(ctx context.Context, discordID string, typ event.Type, data any) {
	_ = s.Journal.Record(ctx, discordID, typ, data)
}

// refreshProfile overwrites the session profile after an account mutation.
func (s *Services) refreshProfile(ctx context.Context, discordID string, u domain.User) {
	if _, err := s.Sessions.Overwrite(ctx, discordID, u); err != nil {
		s.Logger.WarnContext(ctx, "overwriting profile snapshot failed",
			slog.String("discord_id", discordID),
			slog.Any("error", err),
		)
	}
}

// view is the part every view shares.
type view struct {
	svc  *Services
	sess *session.Session
}

// ignoreStale drops ErrStale from a re-fetch that follows a confirmed
// action; a newer fetch owns the state.
func ignoreStale(err error) error {
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

// load runs fetch under s and commits its result if it is still the newest.
func load[T any](ctx context.Context, v view, s *Scope[T], name string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := s.Err(); err != nil {
		return zero, err
	}
	ctx, span := v.svc.tracer.Start(ctx, name)
	defer span.End()

	ticket := s.Begin()
	rctx, cancel := s.Bind(ctx)
	defer cancel()

	state, err := fetch(v.sess.Context(rctx))
	if err != nil {
		return zero, s.settle(err)
	}
	if err := s.Commit(ticket, state); err != nil {
		return zero, err
	}
	return state, nil
}

// run executes a mutation under s. It does not touch the committed state.
func run[T any](ctx context.Context, v view, s *Scope[T], name string, fn func(context.Context) error) error {
	if err := s.Err(); err != nil {
		return err
	}
	ctx, span := v.svc.tracer.Start(ctx, name)
	defer span.End()

	rctx, cancel := s.Bind(ctx)
	defer cancel()
	return s.settle(fn(v.sess.Context(rctx)))
}

// inflight is a view's single-submission guard.
type inflight struct {
	auction.InFlight
}

func (f *inflight) acquire() (release func(), err error) {
	if !f.TryAcquire() {
		return nil, ErrBusy
	}
	return f.Release, nil
}
