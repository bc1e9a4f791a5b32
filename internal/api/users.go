package api

import (
	"context"

	"github.com/nhle/maildesk/internal/model"
)

// Users lists console users. Admin only.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out struct {
		Users []model.User `json:"users"`
	}
	if err := c.get(ctx, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateUser adds a user. Name, email and password are required.
func (c *Client) CreateUser(ctx context.Context, in model.UserInput) error {
	return c.post(ctx, "/admin/users", in, nil)
}

// UpdateUser changes a user's profile or role. Empty fields are left alone.
func (c *Client) UpdateUser(ctx context.Context, id model.ID, in model.UserInput) error {
	return c.put(ctx, "/admin/users/"+escape(id), in, nil)
}

// SetUserActive enables or disables a user.
func (c *Client) SetUserActive(ctx context.Context, id model.ID, active bool) error {
	return c.put(ctx, "/admin/users/"+escape(id)+"/status", map[string]bool{"is_active": active}, nil)
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	return c.delete(ctx, "/admin/users/"+escape(id), nil)
}
