package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nhle/maildesk/internal/model"
)

// FetchResult summarizes a manual fetch across all accounts.
type FetchResult struct {
	TotalAccounts      int      `json:"total_accounts"`
	SuccessfulAccounts int      `json:"successful_accounts"`
	FailedAccounts     int      `json:"failed_accounts"`
	TotalFetched       int      `json:"total_emails_fetched"`
	Errors             []string `json:"errors"`
}

func messageQuery(f model.MessageFilter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}

	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("folder", f.Folder)
	set("search", f.Search)
	set("category", f.Category)
	set("main_category", f.MainCategory)
	set("sub_category", f.SubCategory)
	set("account", f.Account)
	return q
}

// ListMessages returns one page of messages matching f.
func (c *Client) ListMessages(ctx context.Context, f model.MessageFilter) (*model.MessagePage, error) {
	var out model.MessagePage
	if err := c.get(ctx, "/emails/", messageQuery(f), &out); err != nil {
		return nil, err
	}
	if out.Messages == nil {
		out.Messages = []model.Message{}
	}
	return &out, nil
}

// GetMessage returns a single message.
func (c *Client) GetMessage(ctx context.Context, id model.ID) (*model.Message, error) {
	var out model.Message
	if err := c.get(ctx, "/emails/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkRead sets the read flag.
func (c *Client) MarkRead(ctx context.Context, id model.ID) error {
	return c.post(ctx, "/emails/"+escape(id)+"/read", nil, nil)
}

// MarkUnread clears the read flag.
func (c *Client) MarkUnread(ctx context.Context, id model.ID) error {
	return c.post(ctx, "/emails/"+escape(id)+"/unread", nil, nil)
}

// ApplyAction posts a named action with an optional value.
func (c *Client) ApplyAction(ctx context.Context, id model.ID, action model.Action, value any) error {
	body := map[string]any{"action": action}
	if value != nil {
		body["value"] = value
	}
	return c.post(ctx, "/emails/"+escape(id)+"/action", body, nil)
}

// AddTags appends tags to a message. Duplicates are ignored by the service.
func (c *Client) AddTags(ctx context.Context, id model.ID, tags []string) error {
	return c.post(ctx, "/emails/"+escape(id)+"/tags", map[string][]string{"tags": tags}, nil)
}

// DeleteMessage permanently deletes a trashed message.
func (c *Client) DeleteMessage(ctx context.Context, id model.ID) error {
	return c.delete(ctx, "/emails/"+escape(id), nil)
}

// MarkAllRead marks every message read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.post(ctx, "/emails/mark_all_read", nil, nil)
}

// Stats returns aggregate counts.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var out struct {
		Stats model.Stats `json:"stats"`
	}
	if err := c.get(ctx, "/emails/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// FetchNow asks the service to poll every account for new mail, taking at
// most limit messages per account. Zero uses the service default.
func (c *Client) FetchNow(ctx context.Context, limit int) (*FetchResult, error) {
	var body any
	if limit > 0 {
		body = map[string]int{"limit": limit}
	}

	var out struct {
		Results FetchResult `json:"results"`
	}
	if err := c.post(ctx, "/emails/fetch", body, &out); err != nil {
		return nil, err
	}
	return &out.Results, nil
}

// MailAccounts lists the accounts messages can be filtered by.
func (c *Client) MailAccounts(ctx context.Context) ([]model.Account, error) {
	var out []model.Account
	if err := c.get(ctx, "/emails/accounts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
