package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// ListBids returns the viewer's bids, newest first.
func (c *Client) ListBids(ctx context.Context) ([]domain.Bid, error) {
	env, err := call[[]domain.Bid](ctx, c, request{method: http.MethodGet, path: "/bids"})
	return env.Data, err
}

type bidBody struct {
	Amount decimal.Decimal `json:"amount"`
}

// PlaceBid bids amount on the auction. The response carries a transaction
// when the bid closed the auction.
func (c *Client) PlaceBid(ctx context.Context, auctionID string, amount decimal.Decimal) (domain.Envelope[*domain.Transaction], error) {
	return call[*domain.Transaction](ctx, c, request{
		method:   http.MethodPost,
		path:     "/bids/" + auctionID,
		json:     bidBody{Amount: amount},
		resource: "auction",
		id:       auctionID,
	})
}
