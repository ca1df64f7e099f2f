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
	"github.com/jensholdgaard/hypebid-bot/internal/withdraw"
)

func TestCatalog(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})

	older := liveAuction("a1", "u1")
	older.Start = now.Add(-3 * time.Hour)
	newer := liveAuction("a2", "u1")
	newer.Category = domain.CategoryTops
	hidden := liveAuction("a3", "u1")
	hidden.Status = domain.AuctionPending
	e.srv.AddAuction(older)
	e.srv.AddAuction(newer)
	e.srv.AddAuction(hidden)

	v := screen.NewCatalog(context.Background(), e.svc, sess)
	defer v.Close()

	segments, err := v.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, auction.SegmentAll, segments[0].Name)
	require.Len(t, segments[0].Auctions, 2)
	assert.Equal(t, "a2", segments[0].Auctions[0].ID)
	assert.Equal(t, "a1", segments[0].Auctions[1].ID)
	assert.Equal(t, string(domain.CategoryFootwear), segments[1].Name)
	assert.Equal(t, string(domain.CategoryTops), segments[2].Name)
}

func TestSelling(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-seller", domain.User{ID: "u1"})
	soldAuction(e)
	pending := liveAuction("a2", "u1")
	pending.Status = domain.AuctionPending
	e.srv.AddAuction(pending)
	e.srv.AddAuction(liveAuction("a3", "someone-else"))

	v := screen.NewSelling(context.Background(), e.svc, sess)
	defer v.Close()

	listings, err := v.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, domain.Badge{Label: "Waiting", Tone: domain.ToneSky}, listings[0].Badge)
	assert.Equal(t, domain.Badge{Label: "Pending", Tone: domain.ToneYellow}, listings[1].Badge)
}

func TestTransactionsAndBids(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-buyer", domain.User{ID: "u2"})
	e.srv.SetKYC("u2", domain.KycAccepted)
	soldAuction(e)
	e.srv.AddAuction(liveAuction("a2", "u1"))
	ctx := context.Background()

	av := screen.NewAuctionView(ctx, e.svc, sess, "a2")
	defer av.Close()
	_, err := av.Load(ctx)
	require.NoError(t, err)
	_, err = av.PlaceBid(ctx, auction.BidCustom, "120000")
	require.NoError(t, err)

	bids := screen.NewBidHistory(ctx, e.svc, sess)
	defer bids.Close()
	got, err := bids.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(dec(120000)))
	require.NotNil(t, got[0].Auction)
	assert.Equal(t, "a2", got[0].Auction.ID)

	txs := screen.NewTransactions(ctx, e.svc, sess)
	defer txs.Close()
	segments, err := txs.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, segments[0].Items, 1)
	assert.Equal(t, string(domain.TransactionPending), segments[1].Name)
	assert.Len(t, segments[1].Items, 1)
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-seller", domain.User{ID: "u1", Name: "Budi"})
	soldAuction(e)
	e.srv.AddAuction(liveAuction("a2", "u1"))

	v := screen.NewDashboard(context.Background(), e.svc, sess)
	defer v.Close()

	counts, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Budi", counts.Profile.Name)
	assert.Equal(t, 2, counts.Auctions)
	assert.Zero(t, counts.Bids)
	assert.Zero(t, counts.Transactions)
}

func TestDashboard_AnyFailureFailsTheLoad(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-seller", domain.User{ID: "u1"})
	sess.Token = "revoked"

	v := screen.NewDashboard(context.Background(), e.svc, sess)
	defer v.Close()

	_, err := v.Load(context.Background())
	require.Error(t, err)
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.True(t, re.Unauthorized())
	_, ok := v.State()
	assert.False(t, ok)
}

func TestWithdrawView(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "d-seller", domain.User{ID: "u1", Balance: dec(200000)})
	ctx := context.Background()

	v := screen.NewWithdrawView(ctx, e.svc, sess)
	defer v.Close()

	state, err := v.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.Balance.Equal(dec(200000)))
	assert.Empty(t, state.Payouts)

	tests := []struct {
		name string
		form withdraw.Form
		want string
	}{
		{"missing bank", withdraw.Form{Amount: "60000", Account: "123"}, domain.MsgFillAllFields},
		{"over balance", withdraw.Form{Amount: "250000", Bank: "BCA", Account: "123"}, "Insufficient balance"},
		{"under minimum", withdraw.Form{Amount: "10000", Bank: "BCA", Account: "123"}, "Minimum withdrawal is 50,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Request(ctx, tt.form)
			require.Error(t, err)
			assert.Equal(t, tt.want, domain.UserMessage(err))
		})
	}
	assert.Zero(t, e.srv.CallCount(http.MethodPost, "/withdraws"))

	res, err := v.Request(ctx, withdraw.Form{Amount: "60000", Bank: "BCA", Account: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Withdrawal requested", res.Message)

	state, _ = v.State()
	assert.True(t, state.Balance.Equal(dec(140000)))
	require.Len(t, state.Payouts, 1)
	assert.Equal(t, domain.Badge{Label: "Pending", Tone: domain.ToneYellow}, state.Payouts[0].Badge)
	assert.Equal(t, 1, e.countEvents(t, event.WithdrawalRequested))

	s, err := e.svc.Sessions.Get(ctx, "d-seller")
	require.NoError(t, err)
	assert.True(t, s.Profile.Balance.Equal(dec(140000)), "session snapshot overwritten")
}
