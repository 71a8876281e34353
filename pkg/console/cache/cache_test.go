package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/console/cache"
)

type result struct {
	items []string
	err   error
}

type call struct {
	key     cache.Key
	release chan result
}

// stubRemote blocks every fetch until the test releases it
type stubRemote struct {
	calls chan *call
	count atomic.Int32
}

func newStubRemote() *stubRemote {
	return &stubRemote{calls: make(chan *call, 16)}
}

func (s *stubRemote) fetch(ctx context.Context, key cache.Key) ([]string, error) {
	c := &call{key: key, release: make(chan result, 1)}
	s.count.Add(1)
	s.calls <- c
	r := <-c.release
	return r.items, r.err
}

func (s *stubRemote) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for fetch")
		return nil
	}
}

func (s *stubRemote) noCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected fetch for %s", c.key)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitFor(t *testing.T, o *cache.Observer[string], pred func(cache.Snapshot[string]) bool) cache.Snapshot[string] {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case s, ok := <-o.Updates():
			if !ok {
				t.Fatal("observer closed")
			}
			if pred(s) {
				return s
			}
		case <-timeout:
			t.Fatalf("timeout waiting for snapshot, latest: %+v", o.Snapshot())
		}
	}
}

func hasItems(want ...string) func(cache.Snapshot[string]) bool {
	return func(s cache.Snapshot[string]) bool {
		if !s.HasValue || s.Loading || len(s.Items) != len(want) {
			return false
		}
		for i := range want {
			if s.Items[i] != want[i] {
				return false
			}
		}
		return true
	}
}

var sourcesKey = cache.NewKey("sources")

func TestKey(t *testing.T) {
	gt.Value(t, cache.NewKey("sources").String()).Equal("sources")
	gt.Value(t, cache.NewKey("sections", "a1").String()).Equal("sections/a1")
	gt.Value(t, cache.NewKey("sections", "a1")).Equal(cache.Key{Kind: "sections", Param: "a1"})
}

func TestFetchDeduplicates(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([][]string, 3)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := c.Fetch(ctx, sourcesKey)
			gt.NoError(t, err)
			results[i] = items
		}()
	}

	first := remote.next(t)
	// give the other callers time to join the flight
	time.Sleep(50 * time.Millisecond)
	first.release <- result{items: []string{"a", "b"}}
	wg.Wait()

	gt.Number(t, remote.count.Load()).Equal(1)
	for _, items := range results {
		gt.Array(t, items).Equal([]string{"a", "b"})
	}

	t.Run("fresh value is served without fetching", func(t *testing.T) {
		items, err := c.Fetch(ctx, sourcesKey)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Equal([]string{"a", "b"})
		gt.Number(t, remote.count.Load()).Equal(1)
	})

	t.Run("different keys fetch separately", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = c.Fetch(ctx, cache.NewKey("sections", "a1"))
		}()
		cl := remote.next(t)
		gt.Value(t, cl.key).Equal(cache.NewKey("sections", "a1"))
		cl.release <- result{}
		<-done
	})
}

func TestFetchCancelledCallerDoesNotAbortFetch(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, sourcesKey)
		errCh <- err
	}()

	cl := remote.next(t)
	cancel()
	gt.Error(t, <-errCh).Is(context.Canceled)

	o := c.Observe(context.Background(), sourcesKey)
	defer o.Close()
	cl.release <- result{items: []string{"late"}}
	waitFor(t, o, hasItems("late"))
}

func TestObserve(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)
	ctx := context.Background()

	o := c.Observe(ctx, sourcesKey)
	defer o.Close()

	loading := waitFor(t, o, func(s cache.Snapshot[string]) bool { return s.Loading })
	gt.Bool(t, loading.HasValue).False()

	remote.next(t).release <- result{items: []string{"a"}}
	snap := waitFor(t, o, hasItems("a"))
	gt.Bool(t, snap.Stale).False()
	gt.Value(t, snap.Err).Nil()
	gt.Value(t, o.Snapshot().Items).Equal([]string{"a"})

	t.Run("second observer reuses fresh value", func(t *testing.T) {
		o2 := c.Observe(ctx, sourcesKey)
		defer o2.Close()
		waitFor(t, o2, hasItems("a"))
		remote.noCall(t)
	})
}

func TestInvalidate(t *testing.T) {
	t.Run("observed key is refetched exactly once", func(t *testing.T) {
		remote := newStubRemote()
		c := cache.New("test", remote.fetch)
		ctx := context.Background()

		o := c.Observe(ctx, sourcesKey)
		defer o.Close()
		remote.next(t).release <- result{items: []string{"a"}}
		waitFor(t, o, hasItems("a"))

		c.Invalidate(ctx, sourcesKey)
		remote.next(t).release <- result{items: []string{"a", "b"}}
		waitFor(t, o, hasItems("a", "b"))
		remote.noCall(t)
		gt.Number(t, remote.count.Load()).Equal(2)
	})

	t.Run("unobserved key is only marked stale", func(t *testing.T) {
		remote := newStubRemote()
		c := cache.New("test", remote.fetch)
		ctx := context.Background()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = c.Fetch(ctx, sourcesKey)
		}()
		remote.next(t).release <- result{items: []string{"a"}}
		<-done

		c.Invalidate(ctx, sourcesKey)
		remote.noCall(t)
		snap := c.Peek(sourcesKey)
		gt.Bool(t, snap.Stale).True()
		gt.Array(t, snap.Items).Equal([]string{"a"})

		fetched := make(chan []string, 1)
		go func() {
			items, err := c.Fetch(ctx, sourcesKey)
			gt.NoError(t, err)
			fetched <- items
		}()
		remote.next(t).release <- result{items: []string{"b"}}
		gt.Array(t, <-fetched).Equal([]string{"b"})
	})

	t.Run("unobserved key invalidated during a fetch", func(t *testing.T) {
		remote := newStubRemote()
		c := cache.New("test", remote.fetch)
		ctx := context.Background()

		fetched := make(chan []string, 1)
		go func() {
			items, err := c.Fetch(ctx, sourcesKey)
			gt.NoError(t, err)
			fetched <- items
		}()
		before := remote.next(t)

		c.Invalidate(ctx, sourcesKey)
		before.release <- result{items: []string{"before"}}

		// the waiter refetches instead of taking the response that predates the invalidation
		remote.next(t).release <- result{items: []string{"after"}}
		gt.Array(t, <-fetched).Equal([]string{"after"})

		snap := c.Peek(sourcesKey)
		gt.Array(t, snap.Items).Equal([]string{"after"})
		gt.Bool(t, snap.Stale).False()
		gt.Bool(t, snap.Loading).False()

		items, err := c.Fetch(ctx, sourcesKey)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Equal([]string{"after"})
		remote.noCall(t)
		gt.Number(t, remote.count.Load()).Equal(2)
	})
}

func TestRetiredGenerationIsNotFetched(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Fetch(ctx, sourcesKey)
	}()
	remote.next(t).release <- result{items: []string{"a"}}
	<-done

	gen := c.Peek(sourcesKey).Generation
	applied, skipped := cache.RunGeneration(ctx, c, sourcesKey, gen)
	gt.Bool(t, applied).False()
	gt.Bool(t, skipped).True()

	applied, skipped = cache.RunGeneration(ctx, c, sourcesKey, gen-1)
	gt.Bool(t, applied).False()
	gt.Bool(t, skipped).True()

	remote.noCall(t)
	gt.Number(t, remote.count.Load()).Equal(1)
	gt.Array(t, c.Peek(sourcesKey).Items).Equal([]string{"a"})
}

func TestStaleWhileError(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)
	ctx := context.Background()

	o := c.Observe(ctx, sourcesKey)
	defer o.Close()
	remote.next(t).release <- result{items: []string{"a"}}
	waitFor(t, o, hasItems("a"))

	gt.NoError(t, o.Refresh(ctx)).Required()
	remote.next(t).release <- result{err: errors.New("connection refused")}

	snap := waitFor(t, o, func(s cache.Snapshot[string]) bool { return s.Err != nil && !s.Loading })
	gt.Array(t, snap.Items).Equal([]string{"a"})
	gt.Bool(t, snap.HasValue).True()
	gt.Bool(t, snap.Stale).True()
	gt.String(t, snap.Err.Error()).Contains("connection refused")

	gt.NoError(t, o.Refresh(ctx)).Required()
	remote.next(t).release <- result{items: []string{"a", "b"}}
	snap = waitFor(t, o, hasItems("a", "b"))
	gt.Value(t, snap.Err).Nil()
}

func TestSupersededResultIsDiscarded(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)
	ctx := context.Background()

	fetched := make(chan []string, 1)
	go func() {
		items, err := c.Fetch(ctx, sourcesKey)
		gt.NoError(t, err)
		fetched <- items
	}()
	older := remote.next(t)

	o := c.Observe(ctx, sourcesKey)
	defer o.Close()

	c.Invalidate(ctx, sourcesKey)
	newer := remote.next(t)

	newer.release <- result{items: []string{"new"}}
	waitFor(t, o, hasItems("new"))

	older.release <- result{items: []string{"old"}}
	gt.Array(t, <-fetched).Equal([]string{"new"})
	gt.Array(t, c.Peek(sourcesKey).Items).Equal([]string{"new"})
	gt.Array(t, o.Snapshot().Items).Equal([]string{"new"})
}

func TestClosedObserverSuppressesResult(t *testing.T) {
	remote := newStubRemote()
	c := cache.New("test", remote.fetch)
	ctx := context.Background()

	fetched := make(chan struct{})
	go func() {
		defer close(fetched)
		_, _ = c.Fetch(ctx, sourcesKey)
	}()
	pending := remote.next(t)

	o := c.Observe(ctx, sourcesKey)
	o.Close()
	for range o.Updates() {
	}

	pending.release <- result{items: []string{"late"}}
	<-fetched

	snap := c.Peek(sourcesKey)
	gt.Bool(t, snap.HasValue).False()
	gt.Bool(t, snap.Loading).False()
	gt.Error(t, o.Refresh(ctx)).Is(cache.ErrObserverClosed)

	// closing twice is harmless
	o.Close()
}

func TestFetchedAtUsesClock(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	remote := newStubRemote()
	c := cache.New("test", remote.fetch, cache.WithClock[string](func() time.Time { return now }))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Fetch(context.Background(), sourcesKey)
	}()
	remote.next(t).release <- result{items: []string{"a"}}
	<-done

	gt.Value(t, c.Peek(sourcesKey).FetchedAt).Equal(now)
}
