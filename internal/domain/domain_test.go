package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAuction_HighestBid(t *testing.T) {
	a := &domain.Auction{OpeningPrice: dec(100000), MinimumBid: dec(10000)}
	assert.True(t, a.HighestBid().Equal(dec(100000)), "no bids falls back to opening price")
	assert.True(t, a.MinimumNextBid().Equal(dec(110000)))

	a.Bids = []domain.Bid{{Amount: dec(150000)}, {Amount: dec(120000)}}
	assert.True(t, a.HighestBid().Equal(dec(150000)), "newest bid comes first")
	assert.True(t, a.MinimumNextBid().Equal(dec(160000)))
}

func TestAuction_IsFinished(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Auction
		want bool
	}{
		{
			name: "ongoing",
			a:    domain.Auction{End: now.Add(time.Hour), OpeningPrice: dec(10), BuyNowPrice: dec(100)},
			want: false,
		},
		{
			name: "window closed",
			a:    domain.Auction{End: now.Add(-time.Second), OpeningPrice: dec(10), BuyNowPrice: dec(100)},
			want: true,
		},
		{
			name: "buy now reached",
			a: domain.Auction{
				End: now.Add(time.Hour), OpeningPrice: dec(10), BuyNowPrice: dec(100),
				Bids: []domain.Bid{{Amount: dec(100)}},
			},
			want: true,
		},
		{
			name: "transaction exists",
			a: domain.Auction{
				End: now.Add(time.Hour), OpeningPrice: dec(10), BuyNowPrice: dec(100),
				Transaction: &domain.Transaction{Status: domain.TransactionPending},
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IsFinished(now))
		})
	}
}

func TestAuction_DecodesAPIPayload(t *testing.T) {
	payload := `{
		"id": "a1", "name": "Jordan 1", "openingPrice": 100000, "buyNowPrice": 500000,
		"minimumBid": 10000, "start": "2025-06-15T10:00:00Z", "end": "2025-06-16T10:00:00Z",
		"category": "Footwear", "status": "Accepted", "transaction": null,
		"bids": [{"id": "b1", "amount": 120000, "userId": "u2"}],
		"isAbleToBid": true, "isSeller": false
	}`
	var a domain.Auction
	require.NoError(t, json.Unmarshal([]byte(payload), &a))

	assert.Equal(t, domain.CategoryFootwear, a.Category)
	assert.True(t, a.HighestBid().Equal(dec(120000)))
	assert.Nil(t, a.Transaction)
	assert.True(t, a.IsAbleToBid)

	out, err := json.Marshal(map[string]decimal.Decimal{"amount": dec(110000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":110000}`, string(out))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "110000", want: 110000},
		{raw: " 50000 ", want: 50000},
		{raw: "0", want: 0},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "1e-400000000", wantErr: true},
		{raw: "1e400000000", wantErr: true},
		{raw: "1E5", wantErr: true},
		{raw: ".5", wantErr: true},
		{raw: "1234567890123456789012345", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := domain.ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, "Invalid amount", err.Error())
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 110,000", domain.FormatRupiah(dec(110000)))
	assert.Equal(t, "Rp 0", domain.FormatRupiah(decimal.Zero))
	assert.Equal(t, "Rp 1,500.50", domain.FormatRupiah(decimal.RequireFromString("1500.5")))
	assert.Equal(t, "50,000", domain.FormatNumber(dec(50000)))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: domain.Invalid("Fill in all fields"), want: "Fill in all fields"},
		{name: "wrapped validation", err: fmt.Errorf("placing bid: %w", domain.Invalid("Invalid amount")), want: "Invalid amount"},
		{name: "remote with message", err: &domain.RemoteError{StatusCode: 400, Message: "Auction already ended"}, want: "Auction already ended"},
		{name: "remote transport", err: &domain.RemoteError{Err: errors.New("dial tcp: refused")}, want: domain.ErrSomethingWentWrong},
		{name: "not found", err: &domain.NotFoundError{Resource: "auction", ID: "a1", Message: "Auction not found"}, want: "Auction not found"},
		{name: "plain", err: errors.New("boom"), want: domain.ErrSomethingWentWrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.UserMessage(tt.err))
		})
	}
}

func TestTransaction_PaymentDeadline(t *testing.T) {
	tx := &domain.Transaction{CreatedAt: now}
	assert.Equal(t, now.Add(24*time.Hour), tx.PaymentDeadline())
	assert.False(t, tx.HasPaymentHandle())

	snap := "snap-123"
	tx.SnapToken = &snap
	assert.True(t, tx.HasPaymentHandle())
}
