package resource

import (
	"context"
	"log"
	"slices"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
)

// Notifications is the notification feed unit.
type Notifications struct {
	client *api.Client
	q      query[[]model.Notification]
}

func NewNotifications(client *api.Client) *Notifications {
	return &Notifications{client: client}
}

func (n *Notifications) Snapshot() State[[]model.Notification] {
	return n.q.snapshot()
}

// Unread counts unread notifications in the cache.
func (n *Notifications) Unread() int {
	count := 0
	for _, item := range n.q.snapshot().Data {
		if !item.IsRead {
			count++
		}
	}
	return count
}

// Load re-reads the feed.
func (n *Notifications) Load(ctx context.Context) error {
	seq := n.q.begin()
	list, err := n.client.Notifications(ctx, false)

	var data []model.Notification
	if list != nil {
		data = list.Notifications
	}
	if !n.q.finish(seq, data, err) {
		return nil
	}
	return err
}

// MarkRead marks a notification read on the server, then in the cache.
func (n *Notifications) MarkRead(ctx context.Context, id model.ID) error {
	if err := n.client.MarkNotificationRead(ctx, id); err != nil {
		n.q.fail(err)
		return err
	}
	n.q.patch(func(items *[]model.Notification) {
		i := slices.IndexFunc(*items, func(x model.Notification) bool { return x.ID == id })
		if i < 0 {
			return
		}
		next := slices.Clone(*items)
		next[i].IsRead = true
		*items = next
	})
	return nil
}

// Delete removes a notification from the cache immediately and then from
// the server. If the server refuses, the entry is put back where it was.
func (n *Notifications) Delete(ctx context.Context, id model.ID) error {
	var (
		removed model.Notification
		at      = -1
	)
	n.q.patch(func(items *[]model.Notification) {
		i := slices.IndexFunc(*items, func(x model.Notification) bool { return x.ID == id })
		if i < 0 {
			return
		}
		removed, at = (*items)[i], i
		*items = slices.Delete(slices.Clone(*items), i, i+1)
	})

	if err := n.client.DeleteNotification(ctx, id); err != nil {
		log.Printf("deleting notification %s: %v", id, err)
		if at >= 0 {
			n.q.patch(func(items *[]model.Notification) {
				pos := min(at, len(*items))
				*items = slices.Insert(slices.Clone(*items), pos, removed)
			})
		}
		n.q.fail(err)
		return err
	}
	return nil
}
