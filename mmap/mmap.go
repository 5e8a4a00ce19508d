// Package mmap provides an Allocator backed by anonymous memory mappings.
//
// Each block is its own private mapping rounded up to the page size, so the
// memory lives outside the Go heap and is returned to the OS on Free.
// Element types stored in it must not hold Go pointers.
package mmap

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
)

// ErrInvalidSize is returned for non-positive block sizes.
var ErrInvalidSize = errors.New("mmap: invalid size")

// Stats describes the mappings an Allocator currently owns.
type Stats struct {
	Mappings    int // Live mappings
	MappedBytes int // Bytes mapped, page-rounded
	FreeErrors  int // Free calls whose unmap failed
}

// Allocator hands out page-aligned blocks from anonymous mappings. It is
// safe for concurrent use.
type Allocator struct {
	mu      sync.Mutex
	stats   Stats
	lastErr error
}

// New returns an Allocator.
func New() *Allocator {
	return &Allocator{}
}

// Allocate maps a zeroed block of size bytes.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	if size <= 0 || size > math.MaxInt-os.Getpagesize() {
		return nil, ErrInvalidSize
	}
	b, err := mapAnon(roundUp(size))
	if err != nil {
		return nil, err
	}
	a.track(1, cap(b))
	return b[:size], nil
}

// Reallocate resizes buf. The mapping is reused while it has room;
// otherwise the contents move to a new mapping and the old one is unmapped.
func (a *Allocator) Reallocate(buf []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if size <= cap(buf) {
		return buf[:size], nil
	}
	nb, err := a.Allocate(size)
	if err != nil {
		return nil, err
	}
	copy(nb, buf)
	a.Free(buf)
	return nb, nil
}

// Free unmaps buf. Free has no error result: if the unmap fails, buf is
// left mapped, still counted in Stats, and FreeErrors is incremented. LastError
// returns the cause.
func (a *Allocator) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	full := buf[:cap(buf)]
	if err := unmap(full); err != nil {
		a.mu.Lock()
		a.stats.FreeErrors++
		a.lastErr = fmt.Errorf("mmap: unmap %d bytes: %w", len(full), err)
		a.mu.Unlock()
		return
	}
	a.track(-1, -len(full))
}

// LastError returns the most recent unmap failure seen by Free, or nil.
func (a *Allocator) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Stats returns the current mapping statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func (a *Allocator) track(mappings, bytes int) {
	a.mu.Lock()
	a.stats.Mappings += mappings
	a.stats.MappedBytes += bytes
	a.mu.Unlock()
}

func roundUp(n int) int {
	page := os.Getpagesize()
	return (n + page - 1) &^ (page - 1)
}
