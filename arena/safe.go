package arena

import "sync"

// SafeArena is a mutex-protected wrapper around Arena for concurrent access.
// It lets arrays owned by different goroutines draw from one arena.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a new thread-safe arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewSafeArena(chunkSize int, opts ...Option) *SafeArena {
	return &SafeArena{a: NewArena(chunkSize, opts...)}
}

// Allocate thread-safely returns a block of size bytes.
func (s *SafeArena) Allocate(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size)
}

// Reallocate thread-safely resizes buf to size bytes.
func (s *SafeArena) Reallocate(buf []byte, size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Reallocate(buf, size)
}

// Free thread-safely rolls back buf if it is the most recent block.
func (s *SafeArena) Free(buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Free(buf)
}

// EnsureCapacity thread-safely ensures n bytes can be allocated without growing.
func (s *SafeArena) EnsureCapacity(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.EnsureCapacity(n)
}

// Reset thread-safely resets allocation offsets to zero for arena reuse.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release thread-safely drops all chunks and makes the arena unusable.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}
