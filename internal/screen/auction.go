package screen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
)

// AuctionState is what the auction detail view shows.
type AuctionState struct {
	Auction *domain.Auction
	KYC     domain.KycStatus
	Phase   auction.Phase
	Outcome auction.Outcome
	// QuickBid and BuyNow are the shortcut amounts of the snapshot.
	QuickBid string
	BuyNow   string
	LoadedAt time.Time
}

// AuctionView is the detail view of one auction.
type AuctionView struct {
	view
	id       string
	scope    *Scope[AuctionState]
	inflight inflight
}

// NewAuctionView opens the detail view of auction id for sess.
func NewAuctionView(ctx context.Context, svc *Services, sess *session.Session, id string) *AuctionView {
	return &AuctionView{
		view:  view{svc: svc, sess: sess},
		id:    id,
		scope: NewScope[AuctionState](ctx),
	}
}

// ID returns the auction id.
func (v *AuctionView) ID() string { return v.id }

// Load fetches the auction and the viewer's KYC state concurrently and
// resolves the primary action. A failed KYC lookup counts as unverified.
func (v *AuctionView) Load(ctx context.Context) (AuctionState, error) {
	return load(ctx, v.view, v.scope, "AuctionView.Load", func(ctx context.Context) (AuctionState, error) {
		var (
			a   *domain.Auction
			kyc = domain.KycNone
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			a, err = v.svc.API.GetAuction(gctx, v.id)
			return err
		})
		g.Go(func() error {
			k, err := v.svc.API.CheckKYC(gctx)
			if err != nil {
				v.svc.Logger.WarnContext(gctx, "kyc lookup failed, treating as unverified",
					slog.String("discord_id", v.sess.DiscordID),
					slog.Any("error", err),
				)
				return nil
			}
			kyc = domain.StatusOf(k)
			return nil
		})
		if err := g.Wait(); err != nil {
			return AuctionState{}, err
		}

		now := v.svc.Clock.Now()
		return AuctionState{
			Auction:  a,
			KYC:      kyc,
			Phase:    auction.Lifecycle(a, now),
			Outcome:  auction.Resolve(a, auction.ViewerOf(a, kyc), now),
			QuickBid: domain.FormatRupiah(auction.QuickBidAmount(a)),
			BuyNow:   domain.FormatRupiah(auction.BuyNowAmount(a)),
			LoadedAt: now,
		}, nil
	})
}

// State returns the last loaded state.
func (v *AuctionView) State() (AuctionState, bool) { return v.scope.State() }

// Busy reports whether a bid is in flight.
func (v *AuctionView) Busy() bool { return v.inflight.Busy() }

// PlaceBid validates and submits a bid of the given kind. typed is only
// read for custom bids. While another submission is pending the call is a
// no-op returning ErrBusy, before any validation. Validation runs against
// the loaded snapshot before any request is sent. When the bid settles the auction the result points
// at the new transaction.
func (v *AuctionView) PlaceBid(ctx context.Context, kind auction.BidKind, typed string) (Result, error) {
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	state, err := v.current(ctx)
	if err != nil {
		return Result{}, err
	}
	if state.Outcome.Action != auction.ActionOpenBidForm {
		return Result{}, ErrUnavailable
	}
	amount, err := auction.ValidateBid(state.Auction, auction.RawAmount(state.Auction, kind, typed))
	if err != nil {
		v.countBid(ctx, kind, "invalid")
		return Result{}, err
	}

	var res Result
	err = run(ctx, v.view, v.scope, "AuctionView.PlaceBid", func(ctx context.Context) error {
		env, err := v.svc.API.PlaceBid(ctx, v.id, amount)
		if err != nil {
			return fmt.Errorf("placing bid: %w", err)
		}
		res.Message = env.Message

		data := event.BidPlacedData{AuctionID: v.id, Amount: amount.String(), Kind: kind.String()}
		if tx := env.Data; tx != nil && tx.HasPaymentHandle() {
			data.TransactionID = tx.ID
			res.Navigate = Navigation{Target: TargetTransaction, ID: tx.ID}
		}
		v.svc.record(ctx, v.sess.DiscordID, event.BidPlaced, data)
		return nil
	})
	if err != nil {
		v.countBid(ctx, kind, "failed")
		return Result{}, err
	}
	v.countBid(ctx, kind, "accepted")
	v.svc.Logger.InfoContext(ctx, "bid placed",
		slog.String("discord_id", v.sess.DiscordID),
		slog.String("auction_id", v.id),
		slog.String("amount", amount.String()),
		slog.String("kind", kind.String()),
	)

	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}

// Finish closes the auction server-side. Only offered to the seller of a
// finishable auction.
func (v *AuctionView) Finish(ctx context.Context) (Result, error) {
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	state, err := v.current(ctx)
	if err != nil {
		return Result{}, err
	}
	if state.Outcome.Action != auction.ActionFinalize {
		return Result{}, ErrUnavailable
	}

	var res Result
	err = run(ctx, v.view, v.scope, "AuctionView.Finish", func(ctx context.Context) error {
		env, err := v.svc.API.FinishAuction(ctx, v.id)
		if err != nil {
			return fmt.Errorf("finishing auction: %w", err)
		}
		res.Message = env.Message
		v.svc.record(ctx, v.sess.DiscordID, event.AuctionFinalized, event.AuctionData{
			AuctionID: v.id,
			Name:      state.Auction.Name,
		})
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}

// Close cancels the view's requests.
func (v *AuctionView) Close() { v.scope.Close() }

// current returns the loaded state, loading it first if needed.
func (v *AuctionView) current(ctx context.Context) (AuctionState, error) {
	if state, ok := v.scope.State(); ok {
		return state, v.scope.Err()
	}
	return v.Load(ctx)
}

func (v *AuctionView) countBid(ctx context.Context, kind auction.BidKind, result string) {
	v.svc.bids.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
		attribute.String("result", result),
	))
}
