package events

import "sync"

const subscriberBuffer = 64

// Bus is the in-process Emitter. Subscribers get a buffered channel;
// events to a full channel are dropped rather than blocking the
// lifecycle.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan LifecycleEvent
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan LifecycleEvent)}
}

// Subscribe returns a channel of events and a cancel func. The channel
// is closed on cancel or bus Close.
func (b *Bus) Subscribe() (<-chan LifecycleEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan LifecycleEvent, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *Bus) Emit(event LifecycleEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			// slow observer, drop
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
