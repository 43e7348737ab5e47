// Package memo provides compute-once values for adapter caches.
package memo

import "sync"

// Value holds the result of a computation that runs at most once.
//
// The zero value is ready to use. Errors are cached along with values:
// sources are immutable for the lifetime of an adapter, so a failed
// computation would fail again.
type Value[T any] struct {
	once sync.Once
	val  T
	err  error
}

// Get returns the cached result, running compute on first use.
// Concurrent callers block until the first computation finishes.
func (v *Value[T]) Get(compute func() (T, error)) (T, error) {
	v.once.Do(func() {
		v.val, v.err = compute()
	})
	return v.val, v.err
}
