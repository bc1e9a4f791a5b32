package api

import (
	"context"

	"github.com/nhle/maildesk/internal/model"
)

// AccountUpdate changes an existing account. Nil fields are left alone.
type AccountUpdate struct {
	Password   *string `json:"password,omitempty"`
	IMAPServer *string `json:"imap_server,omitempty"`
	IMAPPort   *int    `json:"imap_port,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// Accounts lists every configured account. Admin only.
func (c *Client) Accounts(ctx context.Context) ([]model.Account, error) {
	var out []model.Account
	if err := c.get(ctx, "/settings/email-accounts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddAccount registers an IMAP account. The service verifies the login
// before saving.
func (c *Client) AddAccount(ctx context.Context, a model.NewAccount) error {
	return c.post(ctx, "/settings/email-accounts", a, nil)
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(ctx context.Context, email string) error {
	return c.delete(ctx, "/settings/email-accounts/"+escape(email), nil)
}

// UpdateAccount changes an account's credentials, server or active flag.
func (c *Client) UpdateAccount(ctx context.Context, email string, u AccountUpdate) error {
	return c.put(ctx, "/settings/email-accounts/"+escape(email)+"/update", u, nil)
}

// SetAccountActive enables or disables fetching for an account.
func (c *Client) SetAccountActive(ctx context.Context, email string, active bool) error {
	return c.UpdateAccount(ctx, email, AccountUpdate{Active: &active})
}

// TestAccount asks the service to try logging in to the account's server.
func (c *Client) TestAccount(ctx context.Context, email string) error {
	return c.post(ctx, "/settings/email-accounts/"+escape(email)+"/test", nil, nil)
}
