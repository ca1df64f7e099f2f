package auction_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

func validDraft() auction.Draft {
	return auction.Draft{
		Name:         "Air Jordan 1 Chicago",
		Description:  "Deadstock, size 42",
		Location:     "Jakarta Selatan, DKI Jakarta",
		OpeningPrice: "100000",
		BuyNowPrice:  "500000",
		MinimumBid:   "10000",
		Category:     domain.CategoryFootwear,
		Start:        now.Add(time.Hour),
		End:          now.Add(48 * time.Hour),
		Images: []domain.Upload{
			{Filename: "front.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
		},
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *auction.Draft)
		wantErr string
	}{
		{name: "valid", mutate: func(d *auction.Draft) {}},
		{name: "missing name", mutate: func(d *auction.Draft) { d.Name = "" }, wantErr: "Fill in all fields"},
		{name: "missing category", mutate: func(d *auction.Draft) { d.Category = "" }, wantErr: "Fill in all fields"},
		{name: "missing end", mutate: func(d *auction.Draft) { d.End = time.Time{} }, wantErr: "Fill in all fields"},
		{name: "no images", mutate: func(d *auction.Draft) { d.Images = nil }, wantErr: "Upload at least one image"},
		{name: "opening not numeric", mutate: func(d *auction.Draft) { d.OpeningPrice = "cheap" }, wantErr: "Invalid amount"},
		{name: "opening tiny exponent", mutate: func(d *auction.Draft) { d.OpeningPrice = "1e-400000000" }, wantErr: "Invalid amount"},
		{name: "increment huge exponent", mutate: func(d *auction.Draft) { d.MinimumBid = "1e400000000" }, wantErr: "Invalid amount"},
		{
			name:    "buy now below opening",
			mutate:  func(d *auction.Draft) { d.BuyNowPrice = "50000"; d.OpeningPrice = "100000" },
			wantErr: "Buy now price must be greater than opening price",
		},
		{name: "buy now equal opening", mutate: func(d *auction.Draft) { d.BuyNowPrice = "100000" }},
		{name: "increment too small", mutate: func(d *auction.Draft) { d.MinimumBid = "9999" }, wantErr: "Minimum increment bid is 10,000"},
		{name: "end before start", mutate: func(d *auction.Draft) { d.End = d.Start.Add(-time.Minute) }, wantErr: "End date must be greater than start date"},
		{name: "end equals start", mutate: func(d *auction.Draft) { d.End = d.Start }, wantErr: "End date must be greater than start date"},
		{name: "start in the past", mutate: func(d *auction.Draft) { d.Start = now.Add(-time.Minute) }, wantErr: "Start date must be greater than current date"},
		{
			name:    "fails fast on first rule",
			mutate:  func(d *auction.Draft) { d.BuyNowPrice = "1"; d.MinimumBid = "1"; d.Start = now.Add(-time.Hour) },
			wantErr: "Buy now price must be greater than opening price",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			got, err := auction.ValidateDraft(d, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d.Name, got.Name)
			assert.True(t, got.MinimumBid.Equal(dec(10000)))
		})
	}
}
