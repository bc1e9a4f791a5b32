package api

import (
	"context"
	"net/url"

	"github.com/nhle/maildesk/internal/model"
)

// NotificationList is the notifications feed with its unread count.
type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int                  `json:"total"`
	UnreadCount   int                  `json:"unread_count"`
}

// Notifications returns the user's notifications, optionally only unread.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool) (*NotificationList, error) {
	var q url.Values
	if unreadOnly {
		q = url.Values{"unread_only": {"true"}}
	}

	var out NotificationList
	if err := c.get(ctx, "/notifications/", q, &out); err != nil {
		return nil, err
	}
	if out.Notifications == nil {
		out.Notifications = []model.Notification{}
	}
	return &out, nil
}

// MarkNotificationRead marks a notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id model.ID) error {
	return c.post(ctx, "/notifications/"+escape(id)+"/read", nil, nil)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id model.ID) error {
	return c.delete(ctx, "/notifications/"+escape(id), nil)
}
