package resource

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
)

// DefaultConfirmDelay is how long after an action the statistics signal is
// published a second time, giving the server's aggregates time to settle.
const DefaultConfirmDelay = 500 * time.Millisecond

// actionFailed is shown when the server gives no reason.
const actionFailed = "Action failed"

// Dispatcher applies named actions to single messages and re-synchronizes
// the list and statistics afterwards. It applies nothing optimistically.
type Dispatcher struct {
	client   *api.Client
	messages *Messages
	bus      *refresh.Bus

	// ConfirmDelay is the gap before the second statistics signal.
	ConfirmDelay time.Duration

	// afterFunc schedules the delayed signal; swapped out in tests.
	afterFunc func(time.Duration, func())

	mu  sync.Mutex
	err string
}

// NewDispatcher creates a dispatcher that refetches messages and publishes
// on bus. A non-positive delay uses DefaultConfirmDelay.
func NewDispatcher(client *api.Client, messages *Messages, bus *refresh.Bus, delay time.Duration) *Dispatcher {
	if delay <= 0 {
		delay = DefaultConfirmDelay
	}
	return &Dispatcher{
		client:       client,
		messages:     messages,
		bus:          bus,
		ConfirmDelay: delay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Err returns the message recorded by the last failed Apply, or "".
func (d *Dispatcher) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// ClearErr dismisses the recorded error.
func (d *Dispatcher) ClearErr() {
	d.setErr("")
}

func (d *Dispatcher) setErr(msg string) {
	d.mu.Lock()
	d.err = msg
	d.mu.Unlock()
}

// Apply runs action against message id. value is optional: a tag list for
// ActionTag, unused otherwise. On success the message list is refetched once
// and the statistics signal is published twice, immediately and after
// ConfirmDelay. On failure the error text is recorded and returned; nothing
// is retried.
func (d *Dispatcher) Apply(ctx context.Context, id model.ID, name string, value any) error {
	action, err := model.ParseAction(name)
	if err != nil {
		d.setErr(err.Error())
		return err
	}

	if err := d.send(ctx, id, action, value); err != nil {
		d.setErr(ErrorText(err, actionFailed))
		return err
	}
	d.setErr("")

	if err := d.messages.Refetch(ctx); err != nil {
		log.Printf("refetching messages after %s: %v", action, err)
	}

	d.bus.Publish(refresh.Stats)
	d.afterFunc(d.ConfirmDelay, func() {
		d.bus.Publish(refresh.Stats)
	})
	return nil
}

func (d *Dispatcher) send(ctx context.Context, id model.ID, action model.Action, value any) error {
	if action != model.ActionTag {
		return d.client.ApplyAction(ctx, id, action, value)
	}

	tags, ok := value.([]string)
	if !ok || len(tags) == 0 {
		return fmt.Errorf("tag action needs a non-empty tag list")
	}
	return d.client.AddTags(ctx, id, tags)
}
