package authstate

import (
	"sync"
	"time"
)

type EventType string

const (
	Registered EventType = "registered"
	SignedIn   EventType = "signed_in"
	SignedOut  EventType = "signed_out"
)

// Event 认证状态变更
type Event struct {
	Type   EventType
	UserID uint
	Role   string
	At     time.Time
}

type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Broadcaster 将认证状态变更通知给所有订阅者，由 App 创建并持有
type Broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers fn and returns the function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Broadcaster) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every listener synchronously, in subscription order.
// Listeners may unsubscribe while being called.
func (b *Broadcaster) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.fn(e)
	}
}

// Len 当前订阅者数量
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
