package api

import (
	"context"
	"net/http"

	"github.com/nhle/maildesk/internal/model"
)

// LoginResult is the token pair and identity returned on sign-in.
type LoginResult struct {
	User         model.User `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

// Login exchanges credentials for tokens. It is the only unauthenticated call.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.get(ctx, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the service the session is over. Local state is cleared by
// the caller regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

// Health checks that the service is reachable. It needs no session.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, false)
}
