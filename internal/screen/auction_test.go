package screen_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
)

func TestAuctionView_Load(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})
	e.srv.SetKYC("u2", domain.KycAccepted)
	e.srv.AddAuction(liveAuction("a1", "u1"))

	v := screen.NewAuctionView(context.Background(), e.svc, sess, "a1")
	defer v.Close()

	state, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auction.PhaseOngoing, state.Phase)
	assert.Equal(t, auction.StatusBiddable, state.Outcome.Status)
	assert.Equal(t, auction.ActionOpenBidForm, state.Outcome.Action)
	assert.Equal(t, domain.KycAccepted, state.KYC)
	assert.Equal(t, "Rp 110,000", state.QuickBid)
	assert.Equal(t, "Rp 500,000", state.BuyNow)

	got, ok := v.State()
	require.True(t, ok)
	assert.Equal(t, state.Outcome, got.Outcome)
}

func TestAuctionView_UnverifiedViewerIsSentToKYC(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})
	e.srv.AddAuction(liveAuction("a1", "u1"))

	v := screen.NewAuctionView(context.Background(), e.svc, sess, "a1")
	defer v.Close()

	state, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auction.ActionStartKYC, state.Outcome.Action)

	_, err = v.PlaceBid(context.Background(), auction.BidQuick, "")
	assert.ErrorIs(t, err, screen.ErrUnavailable)
	assert.Zero(t, e.srv.CallCount(http.MethodPost, "/bids/a1"))
}

func TestAuctionView_NotFound(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})

	v := screen.NewAuctionView(context.Background(), e.svc, sess, "missing")
	defer v.Close()

	_, err := v.Load(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "Auction not found", domain.UserMessage(err))
}

func TestAuctionView_PlaceBid(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})
	e.srv.SetKYC("u2", domain.KycAccepted)
	e.srv.AddAuction(liveAuction("a1", "u1"))
	ctx := context.Background()

	v := screen.NewAuctionView(ctx, e.svc, sess, "a1")
	defer v.Close()
	_, err := v.Load(ctx)
	require.NoError(t, err)

	t.Run("below minimum never reaches the API", func(t *testing.T) {
		_, err := v.PlaceBid(ctx, auction.BidCustom, "109999")
		require.Error(t, err)
		assert.Equal(t, "Minimum bid is Rp 110,000", domain.UserMessage(err))
		assert.Zero(t, e.srv.CallCount(http.MethodPost, "/bids/a1"))
	})

	t.Run("quick bid", func(t *testing.T) {
		res, err := v.PlaceBid(ctx, auction.BidQuick, "")
		require.NoError(t, err)
		assert.Equal(t, "Bid placed", res.Message)
		assert.Equal(t, screen.TargetNone, res.Navigate.Target)

		state, ok := v.State()
		require.True(t, ok)
		assert.True(t, state.Auction.HighestBid().Equal(dec(110000)))
		assert.Equal(t, "Rp 120,000", state.QuickBid)
		assert.Equal(t, 1, e.countEvents(t, event.BidPlaced))
	})

	t.Run("buy now opens the transaction", func(t *testing.T) {
		res, err := v.PlaceBid(ctx, auction.BidBuyNow, "")
		require.NoError(t, err)
		assert.Equal(t, "Congratulations, you won the auction", res.Message)
		require.Equal(t, screen.TargetTransaction, res.Navigate.Target)
		assert.NotEmpty(t, res.Navigate.ID)

		state, _ := v.State()
		assert.Equal(t, auction.StatusPaymentDue, state.Outcome.Status)
		assert.Equal(t, res.Navigate.ID, state.Outcome.TransactionID)

		_, err = v.PlaceBid(ctx, auction.BidQuick, "")
		assert.ErrorIs(t, err, screen.ErrUnavailable)
	})
}

func TestAuctionView_SingleSubmissionInFlight(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})
	e.srv.SetKYC("u2", domain.KycAccepted)
	e.srv.AddAuction(liveAuction("a1", "u1"))
	ctx := context.Background()

	v := screen.NewAuctionView(ctx, e.svc, sess, "a1")
	defer v.Close()
	_, err := v.Load(ctx)
	require.NoError(t, err)

	release := e.srv.Hold("/bids/a1")
	errc := make(chan error, 1)
	go func() {
		_, err := v.PlaceBid(ctx, auction.BidQuick, "")
		errc <- err
	}()
	require.Eventually(t, func() bool {
		return e.srv.CallCount(http.MethodPost, "/bids/a1") == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.True(t, v.Busy())

	_, err = v.PlaceBid(ctx, auction.BidCustom, "200000")
	assert.ErrorIs(t, err, screen.ErrBusy)

	// A repeated attempt is dropped before the amount is looked at.
	_, err = v.PlaceBid(ctx, auction.BidCustom, "5")
	assert.ErrorIs(t, err, screen.ErrBusy)
	assert.False(t, domain.IsValidation(err))
	assert.Equal(t, 0, e.countEvents(t, event.BidPlaced))

	release()
	require.NoError(t, <-errc)
	assert.False(t, v.Busy())
	assert.Equal(t, 1, e.srv.CallCount(http.MethodPost, "/bids/a1"))
}

func TestAuctionView_Finish(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-seller", domain.User{ID: "u1"})
	a := liveAuction("a1", "u1")
	a.IsAbleToFinish = true
	a.Bids = []domain.Bid{{ID: "b1", Amount: dec(150000), AuctionID: "a1", UserID: "u2", CreatedAt: now}}
	e.srv.AddAuction(a)
	ctx := context.Background()

	v := screen.NewAuctionView(ctx, e.svc, sess, "a1")
	defer v.Close()

	state, err := v.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, auction.ActionFinalize, state.Outcome.Action)

	res, err := v.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Auction finished", res.Message)

	state, _ = v.State()
	assert.Equal(t, auction.StatusAwaitingBuyerPayment, state.Outcome.Status)
	assert.Equal(t, 1, e.countEvents(t, event.AuctionFinalized))

	_, err = v.Finish(ctx)
	assert.ErrorIs(t, err, screen.ErrUnavailable)
}

func TestAuctionView_CloseCancelsInFlightLoad(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})
	e.srv.AddAuction(liveAuction("a1", "u1"))

	release := e.srv.Hold("/auctions/a1")
	defer release()

	v := screen.NewAuctionView(context.Background(), e.svc, sess, "a1")
	errc := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background())
		errc <- err
	}()
	require.Eventually(t, func() bool {
		return e.srv.CallCount(http.MethodGet, "/auctions/a1") == 1
	}, 5*time.Second, 10*time.Millisecond)

	v.Close()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, screen.ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not return after Close")
	}

	_, ok := v.State()
	assert.False(t, ok, "nothing committed")

	_, err := v.Load(context.Background())
	assert.ErrorIs(t, err, screen.ErrClosed)
}
