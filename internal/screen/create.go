package screen

import (
	"context"
	"fmt"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
)

// CreateView submits new listings.
type CreateView struct {
	view
	scope    *Scope[struct{}]
	inflight inflight
}

// NewCreateView opens the listing form of sess.
func NewCreateView(ctx context.Context, svc *Services, sess *session.Session) *CreateView {
	return &CreateView{
		view:  view{svc: svc, sess: sess},
		scope: NewScope[struct{}](ctx),
	}
}

// Submit validates d and creates the auction. The result points at the new
// auction when the server returns it.
func (v *CreateView) Submit(ctx context.Context, d auction.Draft) (Result, error) {
	listing, err := auction.ValidateDraft(d, v.svc.Clock.Now())
	if err != nil {
		return Result{}, err
	}
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	var res Result
	err = run(ctx, v.view, v.scope, "CreateView.Submit", func(ctx context.Context) error {
		env, err := v.svc.API.CreateAuction(ctx, listing)
		if err != nil {
			return fmt.Errorf("creating auction: %w", err)
		}
		res.Message = env.Message
		data := event.AuctionData{Name: listing.Name}
		if env.Data != nil {
			data.AuctionID = env.Data.ID
			res.Navigate = Navigation{Target: TargetAuction, ID: env.Data.ID}
		}
		v.svc.record(ctx, v.sess.DiscordID, event.AuctionCreated, data)
		return nil
	})
	return res, err
}

// Close cancels the view's requests.
func (v *CreateView) Close() { v.scope.Close() }

// Busy reports whether a listing is being submitted.
func (v *CreateView) Busy() bool { return v.inflight.Busy() }
