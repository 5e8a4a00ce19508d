// Package budget limits how much memory an Allocator may hand out.
package budget

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/pavanmanishd/dynarray"
)

// ErrBudgetExceeded is returned when a request would take the allocator
// past its limit.
var ErrBudgetExceeded = errors.New("budget: memory limit exceeded")

// Allocator wraps another Allocator and refuses requests that would push the
// bytes it has outstanding past a limit. Requests never wait for memory to
// be freed. It is safe for concurrent use if the wrapped allocator is.
type Allocator struct {
	inner dynarray.Allocator
	sem   *semaphore.Weighted
	limit int64
	used  atomic.Int64
}

// New wraps inner with a limit of limit bytes. A nil inner selects
// dynarray.Heap().
func New(inner dynarray.Allocator, limit int64) *Allocator {
	if inner == nil {
		inner = dynarray.Heap()
	}
	if limit < 0 {
		limit = 0
	}
	return &Allocator{
		inner: inner,
		sem:   semaphore.NewWeighted(limit),
		limit: limit,
	}
}

// Allocate charges size bytes to the budget and allocates from the wrapped
// allocator.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	if err := a.acquire(int64(size)); err != nil {
		return nil, err
	}
	b, err := a.inner.Allocate(size)
	if err != nil {
		a.release(int64(size))
		return nil, err
	}
	return b, nil
}

// Reallocate charges or refunds the difference between len(buf) and size.
func (a *Allocator) Reallocate(buf []byte, size int) ([]byte, error) {
	delta := int64(size) - int64(len(buf))
	if delta > 0 {
		if err := a.acquire(delta); err != nil {
			return nil, err
		}
	}
	b, err := a.inner.Reallocate(buf, size)
	if err != nil {
		if delta > 0 {
			a.release(delta)
		}
		return nil, err
	}
	if delta < 0 {
		a.release(-delta)
	}
	return b, nil
}

// Free returns buf to the wrapped allocator and refunds its size.
func (a *Allocator) Free(buf []byte) {
	a.inner.Free(buf)
	a.release(int64(len(buf)))
}

// Used returns the bytes currently charged to the budget.
func (a *Allocator) Used() int64 {
	return a.used.Load()
}

// Limit returns the budget in bytes.
func (a *Allocator) Limit() int64 {
	return a.limit
}

func (a *Allocator) acquire(n int64) error {
	if n <= 0 {
		return nil
	}
	if !a.sem.TryAcquire(n) {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrBudgetExceeded, n, a.used.Load(), a.limit)
	}
	a.used.Add(n)
	return nil
}

func (a *Allocator) release(n int64) {
	if n <= 0 {
		return
	}
	a.sem.Release(n)
	a.used.Add(-n)
}
