package util

import (
	"sync"
	"sync/atomic"
)

// SlicePool hands out zeroed slices bucketed by length. Used for scratch
// buffers that never outlive a single operation.
type SlicePool[T any] struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex

	// Metrics
	hits   atomic.Int64
	misses atomic.Int64
}

var float64Pool = NewSlicePool[float64]()

func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{pools: make(map[int]*sync.Pool)}
}

// Get retrieves a slice of the given length from the pool or creates a new one
func (p *SlicePool[T]) Get(length int) []T {
	if length == 0 {
		return make([]T, 0)
	}

	// Fast path: read lock
	p.mu.RLock()
	pool, exists := p.pools[length]
	p.mu.RUnlock()

	if exists {
		if s := pool.Get(); s != nil {
			p.hits.Add(1)
			return *(s.(*[]T))
		}
	} else {
		// Slow path: create new pool
		p.mu.Lock()
		// Double-check after acquiring write lock
		if _, exists = p.pools[length]; !exists {
			p.pools[length] = &sync.Pool{}
		}
		p.mu.Unlock()
	}

	p.misses.Add(1)
	return make([]T, length)
}

// Put returns a slice to the pool after clearing it
func (p *SlicePool[T]) Put(s []T) {
	if len(s) == 0 {
		return
	}

	p.mu.RLock()
	pool, exists := p.pools[len(s)]
	p.mu.RUnlock()

	if exists {
		var zero T
		for i := range s {
			s[i] = zero
		}
		pool.Put(&s)
	}
}

// GetMetrics returns pool usage statistics
func (p *SlicePool[T]) GetMetrics() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}

// GetFloat64Slice returns a zeroed scratch slice from the shared pool.
func GetFloat64Slice(length int) []float64 {
	return float64Pool.Get(length)
}

// ReturnFloat64Slice hands a scratch slice back to the shared pool.
func ReturnFloat64Slice(s []float64) {
	float64Pool.Put(s)
}

// GetPoolMetrics returns metrics for the shared pool
func GetPoolMetrics() map[string]int64 {
	hits, misses := float64Pool.GetMetrics()
	return map[string]int64{
		"hits":   hits,
		"misses": misses,
	}
}
