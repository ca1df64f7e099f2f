package api

import (
	"context"
	"net/http"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/withdraw"
)

// RequestWithdraw submits a payout request.
func (c *Client) RequestWithdraw(ctx context.Context, r withdraw.Request) (domain.Envelope[*domain.Withdraw], error) {
	return call[*domain.Withdraw](ctx, c, request{method: http.MethodPost, path: "/withdraws", json: r})
}

// ListWithdraws returns the viewer's payout history.
func (c *Client) ListWithdraws(ctx context.Context) ([]domain.Withdraw, error) {
	env, err := call[[]domain.Withdraw](ctx, c, request{method: http.MethodGet, path: "/withdraws"})
	return env.Data, err
}
