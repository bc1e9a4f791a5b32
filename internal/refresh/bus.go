// Package refresh carries cross-component "re-read your data" signals, such
// as the request to re-aggregate statistics after a message changes state.
package refresh

import "sync"

// Signal names what should be refreshed.
type Signal string

const (
	Stats         Signal = "stats"
	Messages      Signal = "messages"
	Notifications Signal = "notifications"
)

const subscriberBuffer = 8

// Bus fans a published signal out to every subscriber of that signal.
// Publishing never blocks; a subscriber that has fallen behind by more than
// its buffer misses signals, which is harmless since any one of them causes
// the same refetch.
type Bus struct {
	mu   sync.RWMutex
	subs map[Signal]map[chan Signal]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Signal]map[chan Signal]struct{})}
}

// Subscribe registers for sig. The returned function unregisters and closes
// the channel.
func (b *Bus) Subscribe(sig Signal) (<-chan Signal, func()) {
	ch := make(chan Signal, subscriberBuffer)
	b.mu.Lock()
	if _, ok := b.subs[sig]; !ok {
		b.subs[sig] = make(map[chan Signal]struct{})
	}
	b.subs[sig][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if subscribers, ok := b.subs[sig]; ok {
				delete(subscribers, ch)
				if len(subscribers) == 0 {
					delete(b.subs, sig)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers sig to its current subscribers.
func (b *Bus) Publish(sig Signal) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[sig] {
		select {
		case ch <- sig:
		default:
		}
	}
}
