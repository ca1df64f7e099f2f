package api

import (
	"context"
	"net/http"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// ListTransactions returns the viewer's purchases.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	env, err := call[[]domain.Transaction](ctx, c, request{method: http.MethodGet, path: "/transactions"})
	return env.Data, err
}

// GetTransaction returns one transaction with its auction.
func (c *Client) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	env, err := call[*domain.Transaction](ctx, c, request{
		method: http.MethodGet, path: "/transactions/" + id,
		resource: "transaction", id: id,
	})
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &domain.NotFoundError{Resource: "transaction", ID: id, Message: env.Message}
	}
	return env.Data, nil
}

type locationBody struct {
	Location string `json:"location"`
}

// SetTransactionLocation stores the shipping address.
func (c *Client) SetTransactionLocation(ctx context.Context, id, location string) (domain.Envelope[*domain.Transaction], error) {
	return call[*domain.Transaction](ctx, c, request{
		method: http.MethodPatch, path: "/transactions/" + id + "/location",
		json:     locationBody{Location: location},
		resource: "transaction", id: id,
	})
}

// MarkDelivered moves a paid transaction to Delivered.
func (c *Client) MarkDelivered(ctx context.Context, id string) (domain.Envelope[*domain.Transaction], error) {
	return call[*domain.Transaction](ctx, c, request{
		method: http.MethodPatch, path: "/transactions/" + id + "/delivery",
		resource: "transaction", id: id,
	})
}

// MarkCompleted moves a delivered transaction to Completed.
func (c *Client) MarkCompleted(ctx context.Context, id string) (domain.Envelope[*domain.Transaction], error) {
	return call[*domain.Transaction](ctx, c, request{
		method: http.MethodPatch, path: "/transactions/" + id + "/completed",
		resource: "transaction", id: id,
	})
}
