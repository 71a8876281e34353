package cache

import (
	"context"
	"sync"
)

// Observer is a mounted view of one cache key
type Observer[T any] struct {
	cache   *Cache[T]
	key     Key
	updates chan Snapshot[T]

	mu     sync.Mutex
	latest Snapshot[T]
	closed bool
}

func newObserver[T any](c *Cache[T], key Key) *Observer[T] {
	return &Observer[T]{
		cache:   c,
		key:     key,
		updates: make(chan Snapshot[T], 1),
		latest:  Snapshot[T]{Key: key},
	}
}

// push delivers s, replacing an undelivered older snapshot. Called with the cache lock held.
func (o *Observer[T]) push(s Snapshot[T]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.latest = s

	select {
	case <-o.updates:
	default:
	}
	o.updates <- s
}

// Key returns the observed key
func (o *Observer[T]) Key() Key {
	return o.key
}

// Updates delivers snapshots as the key changes; only the newest undelivered
// snapshot is kept. The channel is closed by Close.
func (o *Observer[T]) Updates() <-chan Snapshot[T] {
	return o.updates
}

// Snapshot returns the newest state seen by this observer
func (o *Observer[T]) Snapshot() Snapshot[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest
}

// Refresh re-invalidates the observed key, the retry path after a fetch error
func (o *Observer[T]) Refresh(ctx context.Context) error {
	o.mu.Lock()
	closed := o.closed
	o.mu.Unlock()
	if closed {
		return ErrObserverClosed
	}
	o.cache.Invalidate(ctx, o.key)
	return nil
}

// Close unmounts the view. Results of a fetch still in flight for it are not applied
// when no other observer remains.
func (o *Observer[T]) Close() {
	o.cache.unobserve(o)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	close(o.updates)
}
