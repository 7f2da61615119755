package broadcast

import "sync"

// Broadcast fans values out to any number of subscribers with replay-latest
// semantics: a new subscriber immediately receives the most recently
// published value, and a slow subscriber never blocks Publish. Each
// subscriber channel holds at most one pending value; an unread value is
// replaced by the newer one rather than queued.
type Broadcast[T any] struct {
	mu     sync.Mutex
	latest T
	has    bool
	subs   map[chan T]struct{}
}

// New creates an empty Broadcast with no published value.
func New[T any]() *Broadcast[T] {
	return &Broadcast[T]{subs: make(map[chan T]struct{})}
}

// Publish records v as the latest value and delivers it to every subscriber
// without blocking.
func (b *Broadcast[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = v
	b.has = true

	for ch := range b.subs {
		select {
		case ch <- v:
		default:
			// Subscriber still holds an unread value; conflate.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Subscribe registers a subscriber and returns its channel together with a
// cancel function. The channel is closed by cancel; cancel is idempotent.
func (b *Broadcast[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	b.mu.Lock()
	if b.has {
		ch <- b.latest
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Latest returns the most recently published value and whether one exists.
func (b *Broadcast[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.has
}
