package authstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesEverySubscriberInOrder(t *testing.T) {
	b := NewBroadcaster()
	var got []string
	b.Subscribe(func(e Event) { got = append(got, "first:"+string(e.Type)) })
	b.Subscribe(func(e Event) { got = append(got, "second:"+string(e.Type)) })

	b.Publish(Event{Type: SignedIn, UserID: 4})

	assert.Equal(t, []string{"first:signed_in", "second:signed_in"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroadcaster()
	calls := 0
	unsubscribe := b.Subscribe(func(Event) { calls++ })

	b.Publish(Event{Type: SignedIn})
	unsubscribe()
	unsubscribe()
	b.Publish(Event{Type: SignedOut})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len())
}

func TestListenerCanUnsubscribeDuringPublish(t *testing.T) {
	b := NewBroadcaster()
	var unsubscribe func()
	calls := 0
	unsubscribe = b.Subscribe(func(Event) {
		calls++
		unsubscribe()
	})
	other := 0
	b.Subscribe(func(Event) { other++ })

	b.Publish(Event{Type: Registered})
	b.Publish(Event{Type: Registered})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestPublishStampsTime(t *testing.T) {
	b := NewBroadcaster()
	var got Event
	b.Subscribe(func(e Event) { got = e })
	b.Publish(Event{Type: SignedIn})
	require.False(t, got.At.IsZero())
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	b := NewBroadcaster()
	var mu sync.Mutex
	seen := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsubscribe := b.Subscribe(func(Event) {
				mu.Lock()
				seen++
				mu.Unlock()
			})
			b.Publish(Event{Type: SignedIn})
			unsubscribe()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, b.Len())
	assert.GreaterOrEqual(t, seen, 20)
}
