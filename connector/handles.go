package connector

import (
	"errors"
	"sync"
)

// Handles keeps one driver handle (a *sql.DB or a *pgxpool.Pool) per
// connection string, so per-invocation connections come from the driver's
// own pool.
type Handles[T any] struct {
	mu      sync.Mutex
	handles map[string]T
	close   func(T) error
}

// NewHandles returns an empty set whose handles are released with closeFn.
func NewHandles[T any](closeFn func(T) error) *Handles[T] {
	return &Handles[T]{handles: make(map[string]T), close: closeFn}
}

// Get returns the handle for dsn, opening it on first use.
func (h *Handles[T]) Get(dsn string, open func() (T, error)) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.handles[dsn]; ok {
		return v, nil
	}
	v, err := open()
	if err != nil {
		var zero T
		return zero, err
	}
	h.handles[dsn] = v
	return v, nil
}

// Len reports how many handles are open.
func (h *Handles[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handles)
}

// CloseAll releases and forgets every handle.
func (h *Handles[T]) CloseAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var errs []error
	for dsn, v := range h.handles {
		if err := h.close(v); err != nil {
			errs = append(errs, err)
		}
		delete(h.handles, dsn)
	}
	return errors.Join(errs...)
}
