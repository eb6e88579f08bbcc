package core

import "sync"

// Broadcaster fans state snapshots out to subscribers. Publish delivers
// synchronously in subscription order, one snapshot at a time, and skips any
// version older than or equal to one already delivered. Subscribers must not
// publish or subscribe from inside their callback.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
	order  []int

	deliver   sync.Mutex
	last      uint64
	delivered bool
}

func (b *Broadcaster[T]) Subscribe(fn func(T)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(T))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers v, taken at version, and reports whether it went out.
func (b *Broadcaster[T]) Publish(version uint64, v T) bool {
	b.deliver.Lock()
	defer b.deliver.Unlock()
	if b.delivered && version <= b.last {
		return false
	}
	b.last, b.delivered = version, true

	b.mu.Lock()
	fns := make([]func(T), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return true
}
