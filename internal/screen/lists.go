package screen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/transaction"
	"github.com/jensholdgaard/hypebid-bot/internal/withdraw"
)

// List is a read-only view over one collection.
type List[T any] struct {
	view
	name  string
	scope *Scope[T]
	fetch func(context.Context) (T, error)
}

func newList[T any](ctx context.Context, svc *Services, sess *session.Session, name string, fetch func(context.Context) (T, error)) *List[T] {
	return &List[T]{
		view:  view{svc: svc, sess: sess},
		name:  name,
		scope: NewScope[T](ctx),
		fetch: fetch,
	}
}

// Load fetches the collection.
func (l *List[T]) Load(ctx context.Context) (T, error) {
	return load(ctx, l.view, l.scope, l.name+".Load", l.fetch)
}

// State returns the last loaded collection.
func (l *List[T]) State() (T, bool) { return l.scope.State() }

// Close cancels the view's requests.
func (l *List[T]) Close() { l.scope.Close() }

// NewCatalog is the home view: auctions grouped by category.
func NewCatalog(ctx context.Context, svc *Services, sess *session.Session) *List[[]auction.Segment] {
	return newList(ctx, svc, sess, "Catalog", func(ctx context.Context) ([]auction.Segment, error) {
		auctions, err := svc.API.ListAuctions(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing auctions: %w", err)
		}
		return auction.Segments(auctions), nil
	})
}

// Listing is one of the seller's auctions with its badge.
type Listing struct {
	Auction domain.Auction
	Badge   domain.Badge
}

// NewSelling is the seller's view of their own auctions.
func NewSelling(ctx context.Context, svc *Services, sess *session.Session) *List[[]Listing] {
	return newList(ctx, svc, sess, "Selling", func(ctx context.Context) ([]Listing, error) {
		auctions, err := svc.API.OwnedAuctions(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing owned auctions: %w", err)
		}
		out := make([]Listing, len(auctions))
		for i, a := range auctions {
			out[i] = Listing{Auction: a, Badge: transaction.SellerBadge(a)}
		}
		return out, nil
	})
}

// NewBidHistory lists the viewer's bids, newest first.
func NewBidHistory(ctx context.Context, svc *Services, sess *session.Session) *List[[]domain.Bid] {
	return newList(ctx, svc, sess, "BidHistory", func(ctx context.Context) ([]domain.Bid, error) {
		bids, err := svc.API.ListBids(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing bids: %w", err)
		}
		return bids, nil
	})
}

// NewTransactions lists the viewer's purchases by status.
func NewTransactions(ctx context.Context, svc *Services, sess *session.Session) *List[[]transaction.Segment] {
	return newList(ctx, svc, sess, "Transactions", func(ctx context.Context) ([]transaction.Segment, error) {
		txs, err := svc.API.ListTransactions(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}
		return transaction.Segments(txs), nil
	})
}

// Counts is the dashboard summary.
type Counts struct {
	Profile      domain.Profile
	Bids         int
	Transactions int
	Auctions     int
}

// NewDashboard fetches the viewer's counts concurrently. Any failure fails
// the whole load.
func NewDashboard(ctx context.Context, svc *Services, sess *session.Session) *List[Counts] {
	return newList(ctx, svc, sess, "Dashboard", func(ctx context.Context) (Counts, error) {
		c := Counts{Profile: sess.Profile}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			bids, err := svc.API.ListBids(gctx)
			c.Bids = len(bids)
			return err
		})
		g.Go(func() error {
			txs, err := svc.API.ListTransactions(gctx)
			c.Transactions = len(txs)
			return err
		})
		g.Go(func() error {
			auctions, err := svc.API.OwnedAuctions(gctx)
			c.Auctions = len(auctions)
			return err
		})
		if err := g.Wait(); err != nil {
			return Counts{}, fmt.Errorf("loading dashboard: %w", err)
		}
		return c, nil
	})
}

// Payout is one withdrawal with its badge.
type Payout struct {
	Withdraw domain.Withdraw
	Badge    domain.Badge
}

// WithdrawState is the payout view: the balance and the history.
type WithdrawState struct {
	Balance decimal.Decimal
	Payouts []Payout
}

// WithdrawView lists payouts and requests new ones.
type WithdrawView struct {
	*List[WithdrawState]
	inflight inflight
}

// NewWithdrawView opens the payout view.
func NewWithdrawView(ctx context.Context, svc *Services, sess *session.Session) *WithdrawView {
	return &WithdrawView{
		List: newList(ctx, svc, sess, "WithdrawView", func(ctx context.Context) (WithdrawState, error) {
			var (
				state WithdrawState
				ws    []domain.Withdraw
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				ws, err = svc.API.ListWithdraws(gctx)
				return err
			})
			g.Go(func() error {
				s, err := svc.Sessions.Refresh(gctx, sess.DiscordID)
				if err != nil {
					return err
				}
				state.Balance = s.Profile.Balance
				return nil
			})
			if err := g.Wait(); err != nil {
				return WithdrawState{}, fmt.Errorf("loading withdrawals: %w", err)
			}
			state.Payouts = make([]Payout, len(ws))
			for i, w := range ws {
				state.Payouts[i] = Payout{Withdraw: w, Badge: withdraw.StatusBadge(w)}
			}
			return state, nil
		}),
	}
}

// Busy reports whether a payout request is in flight.
func (v *WithdrawView) Busy() bool { return v.inflight.Busy() }

// Request validates f against the loaded balance and submits it.
func (v *WithdrawView) Request(ctx context.Context, f withdraw.Form) (Result, error) {
	state, ok := v.scope.State()
	if !ok {
		var err error
		if state, err = v.Load(ctx); err != nil {
			return Result{}, err
		}
	}
	req, err := withdraw.Validate(f, state.Balance)
	if err != nil {
		return Result{}, err
	}
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	var res Result
	err = run(ctx, v.view, v.scope, "WithdrawView.Request", func(ctx context.Context) error {
		env, err := v.svc.API.RequestWithdraw(ctx, req)
		if err != nil {
			return fmt.Errorf("requesting withdrawal: %w", err)
		}
		res.Message = env.Message
		data := event.WithdrawalData{Amount: req.Amount.String(), Bank: req.Bank}
		if env.Data != nil {
			data.WithdrawID = env.Data.ID
		}
		v.svc.record(ctx, v.sess.DiscordID, event.WithdrawalRequested, data)
		v.svc.Logger.InfoContext(ctx, "withdrawal requested",
			slog.String("discord_id", v.sess.DiscordID),
			slog.String("amount", req.Amount.String()),
		)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}
