package api

import (
	"context"

	"github.com/nhle/maildesk/internal/model"
)

// TemplateInput is the payload for creating or updating a reply template.
type TemplateInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// Templates lists saved reply templates.
func (c *Client) Templates(ctx context.Context) ([]model.Template, error) {
	var out struct {
		Templates []model.Template `json:"templates"`
	}
	if err := c.get(ctx, "/replies/", nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// CreateTemplate saves a new template and returns its id.
func (c *Client) CreateTemplate(ctx context.Context, in TemplateInput) (model.ID, error) {
	var out struct {
		ID model.ID `json:"template_id"`
	}
	if err := c.post(ctx, "/replies/", in, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// UpdateTemplate replaces a template's fields.
func (c *Client) UpdateTemplate(ctx context.Context, id model.ID, in TemplateInput) error {
	return c.put(ctx, "/replies/"+escape(id), in, nil)
}

// DeleteTemplate removes a template.
func (c *Client) DeleteTemplate(ctx context.Context, id model.ID) error {
	return c.delete(ctx, "/replies/"+escape(id), nil)
}

// ReplySeed returns the server's suggested reply to a message: recipient,
// prefixed subject and quoted body.
func (c *Client) ReplySeed(ctx context.Context, emailID model.ID) (*model.ReplySeed, error) {
	var out struct {
		Template model.ReplySeed `json:"template"`
	}
	if err := c.get(ctx, "/replies/template/"+escape(emailID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Template, nil
}

// SendReply sends a composed reply through one of the configured accounts.
func (c *Client) SendReply(ctx context.Context, r model.Reply) error {
	return c.post(ctx, "/replies/compose", r, nil)
}

// SendingAccounts lists the active accounts a reply can be sent from.
func (c *Client) SendingAccounts(ctx context.Context) ([]model.Account, error) {
	var out struct {
		Accounts []struct {
			Email       string `json:"email"`
			AccountType string `json:"account_type"`
			IMAPServer  string `json:"imap_server"`
			Active      bool   `json:"is_active"`
		} `json:"accounts"`
	}
	if err := c.get(ctx, "/replies/accounts", nil, &out); err != nil {
		return nil, err
	}

	accounts := make([]model.Account, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		accounts = append(accounts, model.Account{
			Email:       a.Email,
			Active:      a.Active,
			IMAPServer:  a.IMAPServer,
			AccountType: a.AccountType,
		})
	}
	return accounts, nil
}
