// Package trace wraps an Allocator with zap logging and call counters.
//
// Successful calls are logged at debug level, failures at warn level:
//
//	log, _ := zap.NewDevelopment()
//	alloc := trace.New(arena.NewArena(0), log.Named("arena"))
//	arr := dynarray.New[float64](dynarray.WithAllocator(alloc))
package trace

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/pavanmanishd/dynarray"
)

// Stats counts the calls an Allocator has seen.
type Stats struct {
	Allocs   uint64
	Reallocs uint64
	Frees    uint64
	Failures uint64
	Bytes    int64 // Bytes outstanding, by requested size
}

// Allocator logs every call before delegating to the wrapped allocator.
type Allocator struct {
	inner dynarray.Allocator
	log   *zap.Logger

	allocs   atomic.Uint64
	reallocs atomic.Uint64
	frees    atomic.Uint64
	failures atomic.Uint64
	bytes    atomic.Int64
}

// New wraps inner. A nil inner selects dynarray.Heap(); a nil log selects
// Logger().
func New(inner dynarray.Allocator, log *zap.Logger) *Allocator {
	if inner == nil {
		inner = dynarray.Heap()
	}
	if log == nil {
		log = Logger()
	}
	return &Allocator{inner: inner, log: log}
}

// Allocate delegates to the wrapped allocator.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	b, err := a.inner.Allocate(size)
	if err != nil {
		a.failures.Add(1)
		a.log.Warn("allocate failed", zap.Int("size", size), zap.Error(err))
		return nil, err
	}
	a.allocs.Add(1)
	a.bytes.Add(int64(size))
	a.log.Debug("allocate", zap.Int("size", size))
	return b, nil
}

// Reallocate delegates to the wrapped allocator.
func (a *Allocator) Reallocate(buf []byte, size int) ([]byte, error) {
	b, err := a.inner.Reallocate(buf, size)
	if err != nil {
		a.failures.Add(1)
		a.log.Warn("reallocate failed",
			zap.Int("from", len(buf)),
			zap.Int("to", size),
			zap.Error(err))
		return nil, err
	}
	a.reallocs.Add(1)
	a.bytes.Add(int64(size - len(buf)))
	a.log.Debug("reallocate",
		zap.Int("from", len(buf)),
		zap.Int("to", size),
		zap.Bool("moved", moved(buf, b)))
	return b, nil
}

// Free delegates to the wrapped allocator.
func (a *Allocator) Free(buf []byte) {
	a.inner.Free(buf)
	a.frees.Add(1)
	a.bytes.Add(-int64(len(buf)))
	a.log.Debug("free", zap.Int("size", len(buf)))
}

// Stats returns a snapshot of the call counters.
func (a *Allocator) Stats() Stats {
	return Stats{
		Allocs:   a.allocs.Load(),
		Reallocs: a.reallocs.Load(),
		Frees:    a.frees.Load(),
		Failures: a.failures.Load(),
		Bytes:    a.bytes.Load(),
	}
}

// moved compares addresses only; old may no longer be readable.
func moved(old, cur []byte) bool {
	return len(old) == 0 || len(cur) == 0 || &old[0] != &cur[0]
}
