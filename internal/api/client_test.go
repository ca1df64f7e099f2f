package api_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/api"
	"github.com/jensholdgaard/hypebid-bot/internal/apitest"
	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/withdraw"
)

var testTP = noop.NewTracerProvider()

func newClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	c, err := api.New(config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second}, slog.Default(), testTP)
	require.NoError(t, err)
	return c
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestClient_AttachesTokenAndRequestID(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(domain.User{ID: "u1", Name: "Budi"}, "pw")
	c := newClient(t, srv.URL())

	u, err := c.GetAccount(api.WithToken(context.Background(), tok))
	require.NoError(t, err)
	assert.Equal(t, "Budi", u.Name)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer "+tok, calls[0].Authorization)
	_, err = uuid.Parse(calls[0].RequestID)
	assert.NoError(t, err)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv.URL())

	_, err := c.GetAccount(context.Background())
	require.Error(t, err)

	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.True(t, re.Unauthorized())
	assert.Equal(t, "Unauthorized", domain.UserMessage(err))
}

func TestClient_NotFound(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(domain.User{ID: "u1"}, "pw")
	c := newClient(t, srv.URL())
	ctx := api.WithToken(context.Background(), tok)

	_, err := c.GetAuction(ctx, "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "Auction not found", domain.UserMessage(err))

	_, err = c.GetTransaction(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}

func TestClient_ServerMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Auction is closed","data":null}`))
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv.URL)

	_, err := c.PlaceBid(context.Background(), "a1", dec(110000))
	require.Error(t, err)
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnprocessableEntity, re.StatusCode)
	assert.Equal(t, "Auction is closed", domain.UserMessage(err))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := newClient(t, url)

	_, err := c.ListAuctions(context.Background())
	require.Error(t, err)
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.StatusCode)
	assert.Equal(t, domain.ErrSomethingWentWrong, domain.UserMessage(err))
	assert.Error(t, c.Ping(context.Background()))
}

func TestClient_CancelledContext(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(domain.User{ID: "u1"}, "pw")
	release := srv.Hold("/auctions")
	defer release()
	c := newClient(t, srv.URL())

	ctx, cancel := context.WithCancel(api.WithToken(context.Background(), tok))
	done := make(chan error, 1)
	go func() {
		_, err := c.ListAuctions(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("request was not cancelled")
	}
}

func TestClient_BidFlow(t *testing.T) {
	srv := apitest.New(t)
	seller := srv.AddUser(domain.User{ID: "seller"}, "pw")
	buyer := srv.AddUser(domain.User{ID: "buyer"}, "pw")
	now := time.Now()
	srv.AddAuction(domain.Auction{
		ID: "a1", Name: "Jordan 1", UserID: "seller", Status: domain.AuctionAccepted,
		OpeningPrice: dec(100000), BuyNowPrice: dec(300000), MinimumBid: dec(10000),
		Start: now.Add(-time.Hour), End: now.Add(time.Hour), IsAbleToBid: true,
	})
	c := newClient(t, srv.URL())
	ctx := api.WithToken(context.Background(), buyer)

	env, err := c.PlaceBid(ctx, "a1", dec(110000))
	require.NoError(t, err)
	assert.Nil(t, env.Data)
	assert.Equal(t, "Bid placed", env.Message)

	env, err = c.PlaceBid(ctx, "a1", dec(300000))
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	assert.True(t, env.Data.HasPaymentHandle())
	assert.Equal(t, domain.TransactionPending, env.Data.Status)

	a, err := c.GetAuction(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, a.IsBuyer)
	assert.True(t, a.HighestBid().Equal(dec(300000)))

	bids, err := c.ListBids(ctx)
	require.NoError(t, err)
	assert.Len(t, bids, 2)

	owned, err := c.OwnedAuctions(api.WithToken(context.Background(), seller))
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.True(t, owned[0].IsSeller)
}

func TestClient_CreateAuctionMultipart(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(domain.User{ID: "seller"}, "pw")
	c := newClient(t, srv.URL())

	start := time.Now().Add(time.Hour).Truncate(time.Second)
	env, err := c.CreateAuction(api.WithToken(context.Background(), tok), auction.Listing{
		Name: "Stone Island Jacket", Description: "Size L", Location: "Jakarta",
		OpeningPrice: dec(1000000), BuyNowPrice: dec(3000000), MinimumBid: dec(50000),
		Category: domain.CategoryOuterwear, Start: start, End: start.Add(24 * time.Hour),
		Images: []domain.Upload{
			{Filename: "front.jpg", ContentType: "image/jpeg", Body: strings.NewReader("a")},
			{Filename: "back.jpg", ContentType: "image/jpeg", Body: strings.NewReader("b")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	assert.Len(t, env.Data.Images, 2)
	assert.Equal(t, domain.AuctionPending, env.Data.Status)
	assert.True(t, env.Data.MinimumBid.Equal(dec(50000)))
	assert.True(t, env.Data.Start.Equal(start))
}

func TestClient_AccountAndWithdraw(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv.URL())

	reg, err := c.Register(context.Background(), account.Register{
		Name: "Sari", Email: "sari@example.com", Phone: "628111", Password: "pw",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Data.AccessToken)

	login, err := c.Login(context.Background(), account.Login{Email: "sari@example.com", Password: "pw"})
	require.NoError(t, err)
	ctx := api.WithToken(context.Background(), login.Data.AccessToken)

	k, err := c.CheckKYC(ctx)
	require.NoError(t, err)
	assert.Nil(t, k)
	assert.Equal(t, domain.KycNone, domain.StatusOf(k))

	sub, err := c.SubmitKYC(ctx, domain.Upload{Filename: "ktp.jpg", Body: strings.NewReader("ktp")})
	require.NoError(t, err)
	assert.Equal(t, domain.KycPending, sub.Data.Status)

	img, err := c.UpdateImage(ctx, domain.Upload{Filename: "me.jpg", Body: strings.NewReader("me")})
	require.NoError(t, err)
	require.NotNil(t, img.Data.Image)

	del, err := c.DeleteImage(ctx)
	require.NoError(t, err)
	assert.Nil(t, del.Data.Image)

	_, err = c.ChangePassword(ctx, account.ChangePassword{OldPassword: "wrong", NewPassword: "n", ConfirmPassword: "n"})
	assert.Equal(t, "Old password is wrong", domain.UserMessage(err))

	_, err = c.RequestWithdraw(ctx, withdraw.Request{Amount: dec(50000), Bank: "BCA", Account: "1"})
	assert.Equal(t, "Insufficient balance", domain.UserMessage(err))

	ws, err := c.ListWithdraws(ctx)
	require.NoError(t, err)
	assert.Empty(t, ws)
	assert.NoError(t, c.Ping(context.Background()))
}
