package resource

import (
	"context"
	"sync"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/nav"
)

// Browser pairs the message list with the list/detail navigator.
type Browser struct {
	Messages *Messages

	mu  sync.Mutex
	nav nav.Navigator
}

func NewBrowser(m *Messages) *Browser {
	return &Browser{Messages: m}
}

// Nav returns a copy of the navigation state.
func (b *Browser) Nav() nav.Navigator {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nav
}

// Current returns the open message.
func (b *Browser) Current() (model.Message, bool) {
	b.mu.Lock()
	idx := b.nav.Index()
	b.mu.Unlock()
	if idx < 0 {
		return model.Message{}, false
	}

	msgs := b.Messages.Snapshot().Data.Messages
	if idx >= len(msgs) {
		return model.Message{}, false
	}
	return msgs[idx], true
}

// Open views entry i. When that message is unread the read flag is flipped
// in the cache and the returned function performs the server call;
// otherwise it is nil.
func (b *Browser) Open(i int) (model.Message, func(context.Context) error) {
	msgs := b.Messages.Snapshot().Data.Messages

	b.mu.Lock()
	b.nav.Reconcile(len(msgs))
	ok := b.nav.Select(i)
	b.mu.Unlock()
	if !ok {
		return model.Message{}, nil
	}

	msg := msgs[i]
	if msg.IsRead {
		return msg, nil
	}
	return msg, b.Messages.SetRead(msg.ID, true)
}

// Step moves to the next (delta > 0) or previous message and opens it.
func (b *Browser) Step(delta int) (model.Message, func(context.Context) error, bool) {
	b.mu.Lock()
	var moved bool
	if delta > 0 {
		moved = b.nav.Next()
	} else {
		moved = b.nav.Prev()
	}
	idx := b.nav.Index()
	b.mu.Unlock()
	if !moved {
		return model.Message{}, nil, false
	}

	msg, run := b.Open(idx)
	return msg, run, true
}

// Close returns to the list.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nav.Close()
}

// Reset returns to the list after a fresh load.
func (b *Browser) Reset() {
	n := len(b.Messages.Snapshot().Data.Messages)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nav.Reset(n)
}

// Reconcile keeps the open view valid after a refetch.
func (b *Browser) Reconcile() {
	n := len(b.Messages.Snapshot().Data.Messages)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nav.Reconcile(n)
}
