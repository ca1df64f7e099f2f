package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// ListAuctions returns the public catalog.
func (c *Client) ListAuctions(ctx context.Context) ([]domain.Auction, error) {
	env, err := call[[]domain.Auction](ctx, c, request{method: http.MethodGet, path: "/auctions"})
	return env.Data, err
}

// GetAuction returns one auction with viewer-relative flags.
func (c *Client) GetAuction(ctx context.Context, id string) (*domain.Auction, error) {
	env, err := call[*domain.Auction](ctx, c, request{
		method: http.MethodGet, path: "/auctions/" + id,
		resource: "auction", id: id,
	})
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &domain.NotFoundError{Resource: "auction", ID: id, Message: env.Message}
	}
	return env.Data, nil
}

// OwnedAuctions returns the auctions the viewer sells.
func (c *Client) OwnedAuctions(ctx context.Context) ([]domain.Auction, error) {
	env, err := call[[]domain.Auction](ctx, c, request{method: http.MethodGet, path: "/auctions/owned"})
	return env.Data, err
}

// CreateAuction submits a validated listing with its images.
func (c *Client) CreateAuction(ctx context.Context, l auction.Listing) (domain.Envelope[*domain.Auction], error) {
	r := request{
		method: http.MethodPost,
		path:   "/auctions",
		fields: map[string]string{
			"name":         l.Name,
			"description":  l.Description,
			"location":     l.Location,
			"openingPrice": l.OpeningPrice.String(),
			"buyNowPrice":  l.BuyNowPrice.String(),
			"minimumBid":   l.MinimumBid.String(),
			"category":     string(l.Category),
			"start":        l.Start.UTC().Format(time.RFC3339),
			"end":          l.End.UTC().Format(time.RFC3339),
		},
	}
	for _, img := range l.Images {
		r.files = append(r.files, part{field: "images", upload: img})
	}
	return call[*domain.Auction](ctx, c, r)
}

// FinishAuction asks the server to close the auction and open its
// transaction.
func (c *Client) FinishAuction(ctx context.Context, id string) (domain.Envelope[*domain.Auction], error) {
	return call[*domain.Auction](ctx, c, request{
		method: http.MethodPatch, path: "/auctions/" + id,
		resource: "auction", id: id,
	})
}
