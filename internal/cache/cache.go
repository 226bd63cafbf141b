// Package cache provides a fixed-capacity memoization cache with
// least-recently-used eviction.
//
// A Sized cache is meant for pure computations: the value stored under a key
// must be a function of the key alone, so eviction only costs a recompute and
// never changes results. Concurrent misses on the same key are not coalesced;
// each caller computes and the last one to finish wins the slot.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Sized is a bounded LRU cache safe for concurrent use.
type Sized[K comparable, V any] struct {
	lru    *lru.Cache[K, V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewSized creates a cache holding at most size entries.
func NewSized[K comparable, V any](size int) (*Sized[K, V], error) {
	c, err := lru.New[K, V](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache of size %d: %w", size, err)
	}
	return &Sized[K, V]{lru: c}, nil
}

// MustNewSized is like NewSized but panics on an invalid size.
func MustNewSized[K comparable, V any](size int) *Sized[K, V] {
	c, err := NewSized[K, V](size)
	if err != nil {
		panic(err)
	}
	return c
}

// GetOrInsert returns the cached value for key, or calls compute, stores its
// result and returns it. Errors from compute are returned and nothing is
// stored.
func (c *Sized[K, V]) GetOrInsert(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.lru.Add(key, v)
	return v, nil
}

// Get returns the cached value for key without computing it.
func (c *Sized[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Len returns the number of cached entries.
func (c *Sized[K, V]) Len() int {
	return c.lru.Len()
}

// Stats holds hit and miss counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns the hit and miss counters.
func (c *Sized[K, V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
