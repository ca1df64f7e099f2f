package api

import (
	"context"
	"net/http"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// Login exchanges credentials for a user carrying an access token.
func (c *Client) Login(ctx context.Context, l account.Login) (domain.Envelope[domain.User], error) {
	return call[domain.User](ctx, c, request{method: http.MethodPost, path: "/account/login", json: l})
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, r account.Register) (domain.Envelope[domain.User], error) {
	return call[domain.User](ctx, c, request{method: http.MethodPost, path: "/account/register", json: r})
}

// GetAccount returns the signed-in user.
func (c *Client) GetAccount(ctx context.Context) (domain.User, error) {
	env, err := call[domain.User](ctx, c, request{method: http.MethodGet, path: "/account", resource: "account"})
	return env.Data, err
}

// UpdateAccount replaces name, email and phone.
func (c *Client) UpdateAccount(ctx context.Context, p account.EditProfile) (domain.Envelope[domain.User], error) {
	return call[domain.User](ctx, c, request{method: http.MethodPut, path: "/account", json: p})
}

// UpdateImage replaces the profile picture.
func (c *Client) UpdateImage(ctx context.Context, img domain.Upload) (domain.Envelope[domain.User], error) {
	return call[domain.User](ctx, c, request{
		method: http.MethodPatch, path: "/account",
		files: []part{{field: "image", upload: img}},
	})
}

// DeleteImage removes the profile picture.
func (c *Client) DeleteImage(ctx context.Context) (domain.Envelope[domain.User], error) {
	return call[domain.User](ctx, c, request{method: http.MethodDelete, path: "/account"})
}

// ChangePassword updates the password.
func (c *Client) ChangePassword(ctx context.Context, p account.ChangePassword) (domain.Envelope[domain.User], error) {
	return call[domain.User](ctx, c, request{method: http.MethodPut, path: "/account/change-password", json: p})
}

// CheckKYC returns the latest verification record, or nil when none was
// ever submitted.
func (c *Client) CheckKYC(ctx context.Context) (*domain.Kyc, error) {
	env, err := call[*domain.Kyc](ctx, c, request{method: http.MethodGet, path: "/account/check-kyc"})
	return env.Data, err
}

// SubmitKYC uploads an identity document.
func (c *Client) SubmitKYC(ctx context.Context, img domain.Upload) (domain.Envelope[*domain.Kyc], error) {
	return call[*domain.Kyc](ctx, c, request{
		method: http.MethodPost, path: "/account/verify-kyc",
		files: []part{{field: "image", upload: img}},
	})
}
