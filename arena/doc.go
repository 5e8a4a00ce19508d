// Package arena implements a chunked bump allocator that satisfies
// dynarray.Allocator.
//
// # Basic Usage
//
//	a := arena.NewArena(0) // Use default chunk size
//	defer a.Release()      // Clean up when done
//
//	arr := dynarray.New[int64](dynarray.WithAllocator(a))
//	_ = arr.Append(1, 2, 3)
//
//	// Reset for reuse; every array built on the arena must be dropped first
//	a.Reset()
//
// # Memory Layout
//
// The arena allocates memory in chunks (default 64KB). When a chunk fills up,
// a new chunk is allocated. Blocks within a chunk are handed out sequentially
// and aligned to Alignment.
//
// The most recent block is special: growing it reuses the rest of its chunk
// and freeing it rolls the chunk back. An array that is the only user of an
// arena therefore grows in place until a chunk boundary.
//
// # Thread Safety
//
// Arena is not thread-safe. SafeArena serializes every call with a mutex.
//
// # Limits
//
// WithMaxBytes caps the memory held by all chunks; allocations beyond it
// fail with ErrArenaFull, which dynarray reports as an allocation failure.
package arena
