package client

import (
	"context"
	"errors"
	"sync"
)

// ErrMutationPending is returned when Trigger is called while a previous
// trigger on the same mutation instance is still in flight.
var ErrMutationPending = errors.New("mutation already pending")

// Mutation is a write against the API. A successful trigger invalidates the
// configured cache keys so the next read refetches.
type Mutation[In, Out any] struct {
	cache       *Cache
	invalidates []string
	run         func(ctx context.Context, in In) (Out, error)

	mu        sync.Mutex
	pending   bool
	succeeded bool
	err       error
}

func NewMutation[In, Out any](cache *Cache, run func(ctx context.Context, in In) (Out, error), invalidates ...string) *Mutation[In, Out] {
	return &Mutation[In, Out]{cache: cache, run: run, invalidates: invalidates}
}

// Trigger executes the mutation. Only one trigger may be in flight at a
// time per instance; callers should check Pending first.
func (m *Mutation[In, Out]) Trigger(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	if m.pending {
		m.mu.Unlock()
		var zero Out
		return zero, ErrMutationPending
	}
	m.pending = true
	m.succeeded = false
	m.err = nil
	m.mu.Unlock()

	out, err := m.run(ctx, in)

	m.mu.Lock()
	m.pending = false
	m.err = err
	m.succeeded = err == nil
	m.mu.Unlock()

	if err == nil {
		for _, key := range m.invalidates {
			m.cache.Invalidate(key)
		}
	}
	return out, err
}

func (m *Mutation[In, Out]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *Mutation[In, Out]) Succeeded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.succeeded
}

func (m *Mutation[In, Out]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Reset clears the mutation status. It does not cancel an in-flight
// trigger.
func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending {
		return
	}
	m.succeeded = false
	m.err = nil
}
