// Package dynarray implements a growable array with explicit capacity
// control and a pluggable allocator.
//
// # Overview
//
// Array[T] manages a contiguous buffer of T together with its length and
// capacity. On top of the usual append it offers the primitives a vector
// engine is built from:
//
//   - Reserve: grow capacity by doubling, amortized O(1) per element
//   - SetCap: set the exact capacity, or free the storage with 0
//   - Resize: change the length, filling new slots with a value
//   - Insert / Remove: open or close a range at any index, shifting the tail
//   - SetLen: raw length bookkeeping for callers writing through Buffer
//
// # Basic Usage
//
//	a := dynarray.New[byte]()
//	defer a.Release()
//
//	_ = a.Reserve(13)
//	_ = a.Insert(0, 5, []byte("Hello"))
//	_ = a.Insert(a.Len(), 8, []byte(", World!"))
//	fmt.Println(string(a.Slice())) // Hello, World!
//
// # Errors
//
// Every operation reports failure through its error result and never
// partially applies a change. Errors wrap one of ErrNullPointer,
// ErrAllocationFailure or ErrOutOfRange:
//
//	if err := a.SetCap(2); errors.Is(err, dynarray.ErrOutOfRange) {
//		// capacity below the current length; a is unchanged
//	}
//
// # Allocators
//
// Storage comes from an Allocator. The default heap allocator keeps a typed
// buffer and accepts any element type. Other allocators hand out raw memory
// and therefore only accept element types without Go pointers:
//
//	ar := arena.NewArena(0)
//	defer ar.Release()
//	a := dynarray.New[uint64](dynarray.WithAllocator(ar))
//
// The arena, mmap, budget and trace subpackages provide a chunked bump
// allocator, anonymous memory mappings, a byte limit, and zap logging.
//
// # Thread Safety
//
// An Array is owned by one goroutine at a time. Storage views returned by
// Slice and Buffer must not be used after a call that may reallocate.
package dynarray
