package common

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Status is the lifecycle state of a cached query.
type Status int

const (
	// StatusIdle is reported for disabled queries. No fetch was made.
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "idle"
	}
}

// Entry is a snapshot of a cache key.
type Entry struct {
	Status    Status
	Data      any
	Err       error
	UpdatedAt time.Time
}

// Settled reports whether the entry is no longer waiting on a fetch.
func (e Entry) Settled() bool {
	return e.Status != StatusLoading
}

// FetchFunc loads the value for a key.
type FetchFunc func(ctx context.Context) (any, error)

// item is what go-cache holds. Loading items are compared by pointer so that
// a fetch which outlived an invalidation cannot overwrite the newer state.
type item struct {
	entry Entry
}

// Cache is a keyed request cache. A read of a missing key starts exactly one
// fetch and reports the key as loading until the fetch settles.
type Cache struct {
	items *cache.Cache

	mu   sync.Mutex
	subs map[string]map[chan Entry]struct{}
	wg   sync.WaitGroup
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{
		items: cache.New(expirationTime, cleanupTime),
		subs:  make(map[string]map[chan Entry]struct{}),
	}
}

// Query returns the current entry for key, starting a fetch with fn if the
// key holds nothing. The fetch runs detached from ctx cancellation and
// always runs to completion.
func (c *Cache) Query(ctx context.Context, key string, fn FetchFunc) Entry {
	c.mu.Lock()
	if v, ok := c.items.Get(key); ok {
		c.mu.Unlock()
		return v.(*item).entry
	}

	it := &item{entry: Entry{Status: StatusLoading, UpdatedAt: time.Now()}}
	c.items.Set(key, it, cache.NoExpiration)
	c.notifyLocked(key, it.entry)
	c.mu.Unlock()

	c.wg.Add(1)
	go c.fetch(context.WithoutCancel(ctx), key, it, fn)

	return it.entry
}

func (c *Cache) fetch(ctx context.Context, key string, it *item, fn FetchFunc) {
	defer c.wg.Done()

	data, err := fn(ctx)

	entry := Entry{Status: StatusSuccess, Data: data, UpdatedAt: time.Now()}
	if err != nil {
		entry = Entry{Status: StatusError, Err: err, UpdatedAt: time.Now()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// the key was invalidated while the fetch was in flight
	cur, ok := c.items.Get(key)
	if !ok || cur.(*item) != it {
		return
	}

	c.items.Set(key, &item{entry: entry}, cache.DefaultExpiration)
	c.notifyLocked(key, entry)
}

// Peek returns the entry for key without starting a fetch.
func (c *Cache) Peek(key string) (Entry, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return Entry{}, false
	}
	return v.(*item).entry, true
}

// Wait blocks until the entry for key is settled or ctx is done. It does not
// start a fetch; call Query first.
func (c *Cache) Wait(ctx context.Context, key string) (Entry, error) {
	updates, unsubscribe := c.Subscribe(key)
	defer unsubscribe()

	if e, ok := c.Peek(key); !ok || e.Settled() {
		return e, nil
	}

	for {
		select {
		case e := <-updates:
			if e.Settled() {
				return e, nil
			}
		case <-ctx.Done():
			e, _ := c.Peek(key)
			return e, ctx.Err()
		}
	}
}

// Fetch is Query followed by Wait.
func (c *Cache) Fetch(ctx context.Context, key string, fn FetchFunc) (Entry, error) {
	if e := c.Query(ctx, key, fn); e.Settled() {
		return e, nil
	}
	return c.Wait(ctx, key)
}

// Invalidate drops the entry for key so that the next Query refetches it.
// A fetch in flight for key is discarded when it completes.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Delete(key)
	c.notifyLocked(key, Entry{Status: StatusIdle, UpdatedAt: time.Now()})
}

// ClearError drops the entry for key only if its last fetch failed.
func (c *Cache) ClearError(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items.Get(key)
	if !ok || v.(*item).entry.Status != StatusError {
		return false
	}

	c.items.Delete(key)
	return true
}

// Subscribe returns a channel that receives the latest entry for key each
// time it changes. Slow readers only see the most recent entry.
func (c *Cache) Subscribe(key string) (<-chan Entry, func()) {
	ch := make(chan Entry, 1)

	c.mu.Lock()
	if c.subs[key] == nil {
		c.subs[key] = make(map[chan Entry]struct{})
	}
	c.subs[key][ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[key], ch)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
			c.mu.Unlock()
		})
	}

	return ch, unsubscribe
}

func (c *Cache) notifyLocked(key string, e Entry) {
	for ch := range c.subs[key] {
		select {
		case <-ch:
		default:
		}
		ch <- e
	}
}

// Drain waits for fetches in flight to finish. Used on shutdown and in tests.
func (c *Cache) Drain() {
	c.wg.Wait()
}

func CacheKeyBlogs() string {
	return "blogs"
}

func CacheKeyBlog(id string) string {
	return "blog:" + id
}
