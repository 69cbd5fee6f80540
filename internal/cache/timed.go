package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Freshness is the outcome of a cache read.
type Freshness int

const (
	// Miss means nothing is cached for the key.
	Miss Freshness = iota
	// Stale means the value is older than the TTL but still servable.
	Stale
	// Fresh means the value is within the TTL.
	Fresh
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

// DefaultCapacity bounds the number of keys a Timed cache keeps.
const DefaultCapacity = 1024

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Timed is a TTL cache that keeps expired values around so callers can serve
// them when a refresh fails. Entries are only replaced, never expired out;
// the LRU capacity is the only eviction.
type Timed[K comparable, V any] struct {
	ttl    time.Duration
	clock  Clock
	store  gcache.Cache
	flight singleflight.Group
}

// NewTimed creates a cache with the given TTL. A nil clock means SystemClock
// and a non-positive capacity means DefaultCapacity.
func NewTimed[K comparable, V any](ttl time.Duration, clock Clock, capacity int) *Timed[K, V] {
	if clock == nil {
		clock = SystemClock
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Timed[K, V]{
		ttl:   ttl,
		clock: clock,
		store: gcache.New(capacity).LRU().Build(),
	}
}

// TTL returns the freshness window.
func (c *Timed[K, V]) TTL() time.Duration {
	return c.ttl
}

func (c *Timed[K, V]) load(key K) (entry[V], bool) {
	raw, err := c.store.GetIFPresent(key)
	if err != nil {
		return entry[V]{}, false
	}
	e, ok := raw.(entry[V])
	return e, ok
}

// Get returns the cached value and whether it is fresh, stale or missing.
func (c *Timed[K, V]) Get(key K) (V, Freshness) {
	e, ok := c.load(key)
	if !ok {
		var zero V
		return zero, Miss
	}
	if c.clock.Now().Sub(e.fetchedAt) < c.ttl {
		return e.value, Fresh
	}
	return e.value, Stale
}

// Put stores value under key, replacing any previous entry wholesale.
func (c *Timed[K, V]) Put(key K, value V) {
	// gcache only fails Set for a nil key, which K cannot express usefully.
	_ = c.store.Set(key, entry[V]{value: value, fetchedAt: c.clock.Now()})
}

// Age reports how long ago the entry for key was stored.
func (c *Timed[K, V]) Age(key K) (time.Duration, bool) {
	e, ok := c.load(key)
	if !ok {
		return 0, false
	}
	return c.clock.Now().Sub(e.fetchedAt), true
}

// Do runs fn for key, sharing a single execution among concurrent callers.
// It is the guard against duplicate upstream calls for the same key.
//
// fn gets ctx without its cancellation, so one caller giving up does not
// fail the others; fn must bound its own work. A caller whose ctx is done
// stops waiting and gets ctx.Err() while the shared call carries on.
func (c *Timed[K, V]) Do(ctx context.Context, key K, fn func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fmt.Sprint(key), func() (interface{}, error) {
		return fn(shared)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Val == nil {
			return zero, nil
		}
		value, ok := res.Val.(V)
		if !ok {
			return zero, errors.New("cache: shared result has unexpected type")
		}
		return value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
