package client

import (
	"context"
	"sync"
)

// Query is a cached read of one resource. It exposes the last successful
// data, a loading flag and the last error, mirroring the read side of the
// original data-fetch hooks.
type Query[T any] struct {
	cache *Cache
	key   string
	fetch func(ctx context.Context) (T, error)

	mu      sync.Mutex
	data    T
	has     bool
	loading bool
	err     error
}

func NewQuery[T any](cache *Cache, key string, fetch func(ctx context.Context) (T, error)) *Query[T] {
	return &Query[T]{cache: cache, key: key, fetch: fetch}
}

func (q *Query[T]) Key() string { return q.key }

// Get returns the cached value when fresh, otherwise fetches. Concurrent
// callers for the same key share a single in-flight fetch.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	if v, ok := q.cache.fresh(q.key); ok {
		data := v.(T)
		q.record(data, nil)
		return data, nil
	}

	q.mu.Lock()
	q.loading = true
	q.mu.Unlock()

	v, err := q.cache.flight(q.key, func() (any, error) {
		data, err := q.fetch(ctx)
		if err != nil {
			return nil, err
		}
		q.cache.set(q.key, data)
		return data, nil
	})

	if err != nil {
		var zero T
		q.record(zero, err)
		return zero, err
	}
	data := v.(T)
	q.record(data, nil)
	return data, nil
}

// Refetch bypasses the freshness window and reloads from the API.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.cache.Invalidate(q.key)
	return q.Get(ctx)
}

// Data returns the last successfully fetched value; ok is false before the
// first success.
func (q *Query[T]) Data() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.data, q.has
}

func (q *Query[T]) Loading() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loading
}

func (q *Query[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

func (q *Query[T]) record(data T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.loading = false
	q.err = err
	if err == nil {
		q.data = data
		q.has = true
	}
}
