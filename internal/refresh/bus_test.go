package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribersOfSignal(t *testing.T) {
	assert := assert.New(t)
	b := NewBus()

	stats, unsubStats := b.Subscribe(Stats)
	defer unsubStats()
	other, unsubOther := b.Subscribe(Notifications)
	defer unsubOther()

	b.Publish(Stats)
	b.Publish(Stats)

	assert.Len(stats, 2)
	assert.Len(other, 0)
	assert.Equal(Stats, <-stats)
}

func TestUnsubscribe(t *testing.T) {
	assert := assert.New(t)
	b := NewBus()

	ch, unsub := b.Subscribe(Stats)
	assert.Equal(1, subscriberCount(b, Stats))

	unsub()
	unsub()
	assert.Equal(0, subscriberCount(b, Stats))

	_, open := <-ch
	assert.False(open)

	b.Publish(Stats)
}

func TestPublishDoesNotBlock(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe(Stats)
	defer unsub()

	for i := 0; i < subscriberBuffer*3; i++ {
		b.Publish(Stats)
	}
	assert.Len(t, ch, subscriberBuffer)
}

func subscriberCount(b *Bus, sig Signal) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sig])
}
