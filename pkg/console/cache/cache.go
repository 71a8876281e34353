package cache

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/utils/async"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the authoritative collection for key from the remote service
type Fetcher[T any] func(ctx context.Context, key Key) ([]T, error)

// Snapshot is the state of one key as seen by a view. Items stay populated after a
// failed refetch; Err carries the failure separately.
type Snapshot[T any] struct {
	Key        Key
	Items      []T
	HasValue   bool
	Err        error
	Stale      bool
	Loading    bool
	Generation uint64
	FetchedAt  time.Time
}

type entry[T any] struct {
	items     []T
	hasValue  bool
	err       error
	stale     bool
	loading   bool
	fetchedAt time.Time

	// generation identifies the newest fetch started for this key. A completing
	// fetch is applied only while its generation is still the newest.
	generation uint64
	observers  map[*Observer[T]]struct{}
}

// Cache is a keyed, invalidatable store of remote collections. It is written only by
// fetch completion and invalidation; callers never put values into it.
type Cache[T any] struct {
	name    string
	fetch   Fetcher[T]
	now     func() time.Time
	group   singleflight.Group
	mu      sync.Mutex
	entries map[Key]*entry[T]
}

// Option configures a Cache
type Option[T any] func(*Cache[T])

// WithClock replaces the clock used for FetchedAt
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.now = now
	}
}

// New creates a cache named name (used in logs) backed by fetch
func New[T any](name string, fetch Fetcher[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		name:    name,
		fetch:   fetch,
		now:     time.Now,
		entries: make(map[Key]*entry[T]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// entry returns the entry for key, creating it. Caller holds the lock.
func (c *Cache[T]) entry(key Key) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{observers: make(map[*Observer[T]]struct{})}
		c.entries[key] = e
	}
	return e
}

func (c *Cache[T]) snapshot(key Key, e *entry[T]) Snapshot[T] {
	return Snapshot[T]{
		Key:        key,
		Items:      slices.Clone(e.items),
		HasValue:   e.hasValue,
		Err:        e.err,
		Stale:      e.stale,
		Loading:    e.loading,
		Generation: e.generation,
		FetchedAt:  e.fetchedAt,
	}
}

// Peek returns the current state of key without fetching
func (c *Cache[T]) Peek(key Key) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(key, c.entry(key))
}

// Fetch returns the collection for key. A fresh cached value is returned directly;
// otherwise the caller joins the fetch in flight or starts one. Concurrent callers
// share a single remote call.
func (c *Cache[T]) Fetch(ctx context.Context, key Key) ([]T, error) {
	c.mu.Lock()
	e := c.entry(key)
	if e.hasValue && !e.stale && !e.loading {
		items := slices.Clone(e.items)
		c.mu.Unlock()
		return items, nil
	}
	gen := c.begin(key, e)
	c.mu.Unlock()

	return c.wait(ctx, key, gen)
}

// begin returns the generation the caller should wait for, starting a new one unless
// a fetch is already in flight. Caller holds the lock.
func (c *Cache[T]) begin(key Key, e *entry[T]) uint64 {
	if e.loading {
		return e.generation
	}
	return c.advance(key, e)
}

// advance starts a new generation, superseding any fetch in flight. Caller holds the lock.
func (c *Cache[T]) advance(key Key, e *entry[T]) uint64 {
	e.generation++
	e.loading = true
	c.publish(key, e)
	return e.generation
}

func flightKey(key Key, gen uint64) string {
	return key.String() + "#" + strconv.FormatUint(gen, 10)
}

func (c *Cache[T]) flight(ctx context.Context, key Key, gen uint64) <-chan singleflight.Result {
	fetchCtx := context.WithoutCancel(ctx)
	return c.group.DoChan(flightKey(key, gen), func() (any, error) {
		return c.run(fetchCtx, key, gen)
	})
}

func (c *Cache[T]) wait(ctx context.Context, key Key, gen uint64) ([]T, error) {
	for {
		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "fetch abandoned", goerr.V(KeyKey, key.String()))
		case res = <-c.flight(ctx, key, gen):
		}

		out := res.Val.(*fetchResult[T])
		if out.applied {
			return slices.Clone(out.items), out.err
		}

		items, next, done, err := c.superseded(key, gen, out)
		if done {
			return items, err
		}
		gen = next
	}
}

// superseded decides what a waiter whose generation was retired gets: it follows a
// newer fetch in flight, starts one when the key was invalidated meanwhile, or
// answers with what the cache holds now.
func (c *Cache[T]) superseded(key Key, gen uint64, out *fetchResult[T]) ([]T, uint64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(key)
	switch {
	case e.loading && e.generation > gen:
		return nil, e.generation, false, nil
	case e.stale, out.skipped && !e.hasValue && e.err == nil:
		return nil, c.advance(key, e), false, nil
	case e.hasValue:
		return slices.Clone(e.items), 0, true, nil
	case out.skipped:
		return nil, 0, true, e.err
	default:
		return slices.Clone(out.items), 0, true, out.err
	}
}

type fetchResult[T any] struct {
	items   []T
	err     error
	applied bool
	// skipped is set when the generation was already retired before calling the remote
	skipped bool
}

func (c *Cache[T]) run(ctx context.Context, key Key, gen uint64) (*fetchResult[T], error) {
	logger := logging.From(ctx).With(
		slog.String("cache", c.name),
		slog.String(KeyKey, key.String()),
		slog.Uint64(GenerationKey, gen),
	)
	if !c.current(key, gen) {
		logger.Debug("skipped fetch of retired generation")
		return &fetchResult[T]{skipped: true}, nil
	}
	logger.Debug("fetch started")

	items, err := c.fetch(ctx, key)
	if err != nil {
		err = goerr.Wrap(err, "failed to fetch collection",
			goerr.V(KeyKey, key.String()),
			goerr.V(GenerationKey, gen))
	}

	applied := c.apply(key, gen, items, err)
	if !applied {
		logger.Debug("discarded superseded fetch result")
	} else if err != nil {
		logger.Warn("fetch failed, keeping previous value", "error", err)
	} else {
		logger.Debug("fetch applied", "count", len(items))
	}

	// singleflight only reports the error through Result.Err, which we do not use:
	// the error travels inside fetchResult so superseded results can be told apart.
	return &fetchResult[T]{items: items, err: err, applied: applied}, nil
}

// current reports whether gen is the generation key is loading
func (c *Cache[T]) current(key Key, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	return e.loading && e.generation == gen
}

// apply stores a fetch result when gen is still the newest generation of key
func (c *Cache[T]) apply(key Key, gen uint64, items []T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(key)
	if gen != e.generation || !e.loading {
		return false
	}

	e.loading = false
	if err != nil {
		e.err = err
	} else {
		e.items = slices.Clone(items)
		e.hasValue = true
		e.err = nil
		e.stale = false
		e.fetchedAt = c.now()
	}
	c.publish(key, e)
	return true
}

// Invalidate marks key stale and retires any fetch still in flight for it, whose
// result predates the invalidation. When the key is observed, exactly one refetch
// is scheduled.
func (c *Cache[T]) Invalidate(ctx context.Context, key Key) {
	c.mu.Lock()
	e := c.entry(key)
	e.stale = true
	if len(e.observers) == 0 {
		if e.loading {
			e.generation++
			e.loading = false
		}
		c.mu.Unlock()
		logging.From(ctx).Debug("invalidated unobserved key", "cache", c.name, KeyKey, key.String())
		return
	}
	gen := c.advance(key, e)
	c.mu.Unlock()

	logging.From(ctx).Debug("invalidated observed key, refetching",
		"cache", c.name, KeyKey, key.String(), GenerationKey, gen)
	c.refetch(ctx, key, gen)
}

func (c *Cache[T]) refetch(ctx context.Context, key Key, gen uint64) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		// failures are kept on the entry and published to observers. A retired
		// generation is not retried: whoever retired it owns the next fetch.
		res := <-c.flight(ctx, key, gen)
		if out := res.Val.(*fetchResult[T]); out.err != nil {
			logging.From(ctx).Debug("background refetch failed", "cache", c.name, KeyKey, key.String())
		}
		return nil
	})
}

// publish pushes the current snapshot to every observer of key. Caller holds the lock.
func (c *Cache[T]) publish(key Key, e *entry[T]) {
	if len(e.observers) == 0 {
		return
	}
	snap := c.snapshot(key, e)
	for o := range e.observers {
		o.push(snap)
	}
}

// Observe mounts a view on key. A missing or stale value is fetched in the
// background; updates are delivered through the returned observer until Close.
func (c *Cache[T]) Observe(ctx context.Context, key Key) *Observer[T] {
	o := newObserver(c, key)

	c.mu.Lock()
	e := c.entry(key)
	e.observers[o] = struct{}{}
	needsFetch := (!e.hasValue || e.stale) && !e.loading
	var gen uint64
	if needsFetch {
		gen = c.advance(key, e)
	} else {
		o.push(c.snapshot(key, e))
	}
	c.mu.Unlock()

	if needsFetch {
		c.refetch(ctx, key, gen)
	}
	return o
}

// unobserve removes o. When the last observer leaves while a fetch is in flight,
// that fetch is abandoned: its result will not be applied.
func (c *Cache[T]) unobserve(o *Observer[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[o.key]
	if !ok {
		return
	}
	delete(e.observers, o)
	if len(e.observers) == 0 && e.loading {
		e.generation++
		e.loading = false
	}
}
