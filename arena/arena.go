package arena

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// Alignment is the alignment of every block handed out by an arena. No Go
// value needs more.
const Alignment = 8

var (
	// ErrArenaFull is returned when a new chunk would exceed the arena's
	// WithMaxBytes limit.
	ErrArenaFull = errors.New("arena: max bytes exceeded")
	// ErrReleased is returned when allocating from a released arena.
	ErrReleased = errors.New("arena: use after Release()")
	// ErrInvalidSize is returned for non-positive or unrepresentable sizes.
	ErrInvalidSize = errors.New("arena: invalid size")
)

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// Arena is a chunked bump allocator. Not goroutine-safe by default.
// Use SafeArena for concurrent access.
//
// Blocks are only reclaimed in bulk by Reset or Release, except the most
// recent block, which Reallocate can grow or shrink in place and Free can
// roll back.
type Arena struct {
	chunks    []*chunk
	cur       int
	chunkSize int
	maxBytes  int

	// most recent block; its chunk need not be chunks[cur]
	last    *chunk
	lastPtr *byte
	lastOff uintptr
	lastLen int
}

// Option configures an Arena.
type Option func(*Arena)

// WithMaxBytes caps the total size of all chunks. Zero means unlimited.
func WithMaxBytes(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used. The first chunk is allocated
// eagerly and clamped to WithMaxBytes.
func NewArena(chunkSize int, opts ...Option) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize, chunks: []*chunk{}}
	for _, opt := range opts {
		opt(a)
	}
	_, _ = a.grow(0)
	return a
}

// Allocate returns a block of size bytes aligned to Alignment. Memory from a
// fresh chunk is zeroed; memory reused after Free or Reset is not.
func (a *Arena) Allocate(size int) ([]byte, error) {
	if a.chunks == nil {
		return nil, ErrReleased
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	// Fast path: the current chunk has room
	if len(a.chunks) > 0 {
		c := a.chunks[a.cur]
		if off, ok := fit(c, size); ok {
			return a.take(c, off, size), nil
		}
	}

	// Slow path: a later chunk left over from Reset, or a new one
	for i := a.cur + 1; i < len(a.chunks); i++ {
		if off, ok := fit(a.chunks[i], size); ok {
			a.cur = i
			return a.take(a.chunks[i], off, size), nil
		}
	}
	c, err := a.grow(size)
	if err != nil {
		return nil, err
	}
	off, _ := fit(c, size)
	return a.take(c, off, size), nil
}

// Reallocate resizes buf to size bytes. The most recent block is resized in
// place while its chunk has room; any other block is copied into a new one
// and its old space stays in use until Reset.
func (a *Arena) Reallocate(buf []byte, size int) ([]byte, error) {
	if a.chunks == nil {
		return nil, ErrReleased
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if a.isLast(buf) {
		c := a.last
		if end := a.lastOff + uintptr(size); end <= uintptr(len(c.buf)) {
			c.offset = end
			a.lastLen = size
			return c.buf[a.lastOff:end:end], nil
		}
	} else if size <= len(buf) {
		return buf[:size:size], nil
	}
	nb, err := a.Allocate(size)
	if err != nil {
		return nil, err
	}
	copy(nb, buf)
	return nb, nil
}

// Free rolls the arena back over buf if it is the most recent block.
// Other blocks are reclaimed by Reset.
func (a *Arena) Free(buf []byte) {
	if a.chunks == nil || !a.isLast(buf) {
		return
	}
	a.last.offset = a.lastOff
	a.forgetLast()
}

// EnsureCapacity makes sure a block of n bytes can be allocated without
// growing the arena, adding a chunk now if needed.
func (a *Arena) EnsureCapacity(n int) error {
	a.panicIfReleased()
	if n <= 0 {
		return nil
	}
	for i := a.cur; i < len(a.chunks); i++ {
		if _, ok := fit(a.chunks[i], n); ok {
			return nil
		}
	}
	_, err := a.grow(n)
	return err
}

// Reset resets allocation offsets to zero but keeps allocated chunks for reuse.
// All blocks handed out so far become invalid.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for _, c := range a.chunks {
		c.offset = 0
	}
	a.cur = 0
	a.forgetLast()
}

// Release drops all chunks and makes the arena unusable.
// Subsequent allocations fail with ErrReleased; Reset panics.
func (a *Arena) Release() {
	a.chunks = nil
	a.cur = 0
	a.forgetLast()
}

func (a *Arena) take(c *chunk, off uintptr, size int) []byte {
	end := off + uintptr(size)
	c.offset = end
	a.last = c
	a.lastPtr = &c.buf[off]
	a.lastOff = off
	a.lastLen = size
	return c.buf[off:end:end]
}

func (a *Arena) isLast(buf []byte) bool {
	return a.last != nil && len(buf) == a.lastLen && unsafe.SliceData(buf) == a.lastPtr
}

func (a *Arena) forgetLast() {
	a.last, a.lastPtr, a.lastLen = nil, nil, 0
}

// grow appends a new chunk that can hold an aligned block of at least min
// bytes. Under WithMaxBytes the chunk is clamped to the remaining room.
func (a *Arena) grow(min int) (*chunk, error) {
	if min > math.MaxInt-Alignment {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, min)
	}
	need := min + Alignment - 1
	size := a.chunkSize
	if min > 0 && need > size {
		size = need
	}
	if a.maxBytes > 0 {
		have := a.Capacity()
		room := a.maxBytes - have
		if size > room {
			if room <= 0 || need > room {
				return nil, fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrArenaFull, need, have, a.maxBytes)
			}
			size = room
		}
	}
	buf, err := makeBuf(size)
	if err != nil {
		return nil, err
	}
	c := &chunk{buf: buf}
	a.chunks = append(a.chunks, c)
	a.cur = len(a.chunks) - 1
	return c, nil
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.chunks == nil {
		panic("arena: use after Release()")
	}
}

// fit returns the aligned offset of a size-byte block in c, if there is room.
func fit(c *chunk, size int) (uintptr, bool) {
	if len(c.buf) == 0 {
		return 0, false
	}
	off := alignPtr(c.buf, c.offset)
	if off > uintptr(len(c.buf)) || uintptr(size) > uintptr(len(c.buf))-off {
		return 0, false
	}
	return off, true
}

// alignPtr returns the smallest offset >= off whose address in buf is a
// multiple of Alignment.
func alignPtr(buf []byte, off uintptr) uintptr {
	const mask = Alignment - 1
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return ((base+off+mask)&^mask - base)
}

func makeBuf(n int) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("%w: cannot allocate chunk of %d bytes: %v", ErrInvalidSize, n, r)
		}
	}()
	return make([]byte, n), nil
}
