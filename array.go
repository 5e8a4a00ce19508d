package dynarray

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"
)

// Array is a growable array of T. Not goroutine-safe.
//
// The zero value is an empty array backed by the Go heap. An empty array
// owns no memory; the first call that needs capacity allocates it.
//
// Slices returned by Slice and Buffer alias the array's storage and become
// stale after any call that may reallocate: SetCap, Reserve, Resize, Insert
// and Append.
type Array[T any] struct {
	hdr      header
	alloc    Allocator
	block    []byte // raw allocator block; nil when the heap keeps data typed
	data     []T    // len(data) == hdr.capacity
	reallocs int
}

// New returns an empty array.
//
// Element types that contain Go pointers can only be stored in heap memory;
// New panics if such a type is combined with any other allocator.
func New[T any](opts ...Option) *Array[T] {
	o := options{alloc: Heap()}
	for _, opt := range opts {
		opt(&o)
	}
	if !isHeap(o.alloc) {
		if t := reflect.TypeFor[T](); hasPointers(t) {
			panic(fmt.Sprintf("dynarray: element type %v holds pointers and cannot live in %T memory", t, o.alloc))
		}
	}
	return &Array[T]{alloc: o.alloc}
}

// Release returns the storage to the allocator and leaves an empty array
// that may be reused. It is a no-op on a nil or empty array.
func (a *Array[T]) Release() {
	if a == nil {
		return
	}
	a.free()
}

// Len returns the number of elements in the array.
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.hdr.length
}

// SetLen sets the length without initializing or clearing any element.
// Slots exposed by growing the length hold whatever was last stored there.
func (a *Array[T]) SetLen(n int) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrNullPointer)
	}
	if n < 0 || n > a.hdr.capacity {
		return fmt.Errorf("%w: length %d outside capacity %d", ErrOutOfRange, n, a.hdr.capacity)
	}
	a.hdr.length = n
	return nil
}

// Cap returns the number of elements the array can hold without
// reallocating.
func (a *Array[T]) Cap() int {
	if a == nil {
		return 0
	}
	return a.hdr.capacity
}

// MaxCap returns MaxCapacity for the size of T.
func (a *Array[T]) MaxCap() int {
	return MaxCapacity(elemSize[T]())
}

// SetCap resizes the backing storage to exactly n elements, keeping the
// length and the first min(Cap(), n) elements. Setting the capacity to zero
// frees the storage. On failure the array is unchanged.
func (a *Array[T]) SetCap(n int) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrNullPointer)
	}
	size := elemSize[T]()
	switch {
	case size == 0:
		return fmt.Errorf("%w: zero-sized element type", ErrOutOfRange)
	case n < a.hdr.length:
		return fmt.Errorf("%w: capacity %d below length %d", ErrOutOfRange, n, a.hdr.length)
	case n > MaxCapacity(size):
		return fmt.Errorf("%w: capacity %d exceeds maximum %d", ErrOutOfRange, n, MaxCapacity(size))
	}
	if n == a.hdr.capacity {
		return nil
	}
	if n == 0 {
		a.free()
		a.reallocs++
		return nil
	}
	if err := a.realloc(n, size); err != nil {
		return fmt.Errorf("%w: capacity %d: %w", ErrAllocationFailure, n, err)
	}
	a.hdr.capacity = n
	a.reallocs++
	return nil
}

// Reserve makes room for at least n elements. Capacity grows by doubling,
// starting from 1 for an empty array, and is clamped to MaxCap.
func (a *Array[T]) Reserve(n int) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrNullPointer)
	}
	size := elemSize[T]()
	if size == 0 {
		return fmt.Errorf("%w: zero-sized element type", ErrOutOfRange)
	}
	if n < 0 || n > MaxCapacity(size) {
		return fmt.Errorf("%w: reserve %d exceeds maximum %d", ErrOutOfRange, n, MaxCapacity(size))
	}
	if n <= a.hdr.capacity {
		return nil
	}
	return a.SetCap(growCapacity(a.hdr.capacity, n, MaxCapacity(size)))
}

// Resize sets the length to n. New elements are copies of *fill, which may
// only be nil when the array does not grow. Shrinking leaves the dropped
// elements in place.
func (a *Array[T]) Resize(n int, fill *T) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrNullPointer)
	}
	if fill == nil && n > a.hdr.length {
		return fmt.Errorf("%w: no fill value to grow from %d to %d", ErrNullPointer, a.hdr.length, n)
	}
	if elemSize[T]() == 0 {
		return fmt.Errorf("%w: zero-sized element type", ErrOutOfRange)
	}
	if n < 0 {
		return fmt.Errorf("%w: length %d", ErrOutOfRange, n)
	}
	if n == a.hdr.length {
		return nil
	}
	if err := a.Reserve(n); err != nil {
		return err
	}
	for i := a.hdr.length; i < n; i++ {
		a.data[i] = *fill
	}
	a.hdr.length = n
	return nil
}

// Insert opens count slots at index, shifting the tail right, and fills them
// from values. A nil values leaves the opened slots as they are; otherwise
// values must hold at least count elements.
func (a *Array[T]) Insert(index, count int, values []T) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrNullPointer)
	}
	length := a.hdr.length
	switch {
	case index < 0 || index > length:
		return fmt.Errorf("%w: index %d outside length %d", ErrOutOfRange, index, length)
	case count < 0 || length > math.MaxInt-count:
		return fmt.Errorf("%w: cannot insert %d elements into length %d", ErrOutOfRange, count, length)
	case values != nil && len(values) < count:
		return fmt.Errorf("%w: %d values for %d slots", ErrOutOfRange, len(values), count)
	}
	if err := a.Reserve(length + count); err != nil {
		return err
	}
	copy(a.data[index+count:length+count], a.data[index:length])
	if values != nil {
		copy(a.data[index:index+count], values[:count])
	}
	a.hdr.length = length + count
	return nil
}

// Append inserts values at the end of the array.
func (a *Array[T]) Append(values ...T) error {
	return a.Insert(a.Len(), len(values), values)
}

// Remove deletes count elements starting at index, shifting the tail left.
// If out is non-nil the removed elements are copied into it first; it must
// hold at least count elements. Capacity is never reduced.
func (a *Array[T]) Remove(index, count int, out []T) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrNullPointer)
	}
	if elemSize[T]() == 0 {
		return fmt.Errorf("%w: zero-sized element type", ErrOutOfRange)
	}
	length := a.hdr.length
	switch {
	case index < 0 || index > length:
		return fmt.Errorf("%w: index %d outside length %d", ErrOutOfRange, index, length)
	case count < 0 || count > length-index:
		return fmt.Errorf("%w: cannot remove %d elements at %d from length %d", ErrOutOfRange, count, index, length)
	case out != nil && len(out) < count:
		return fmt.Errorf("%w: %d out slots for %d elements", ErrOutOfRange, len(out), count)
	}
	if out != nil {
		copy(out, a.data[index:index+count])
	}
	copy(a.data[index:], a.data[index+count:length])
	a.hdr.length = length - count
	return nil
}

// At returns the element at i. It panics if i is outside [0, Len()).
func (a *Array[T]) At(i int) T {
	return a.Slice()[i]
}

// Set stores v at i. It panics if i is outside [0, Len()).
func (a *Array[T]) Set(i int, v T) {
	a.Slice()[i] = v
}

// Slice returns the elements [0, Len()) as a slice sharing the array's
// storage. Its capacity is clipped so appending to it never writes into the
// array.
func (a *Array[T]) Slice() []T {
	if a == nil {
		return nil
	}
	return a.data[:a.hdr.length:a.hdr.length]
}

// Buffer returns the whole storage [0, Cap()). Write past Len() and then
// call SetLen to publish the new elements.
func (a *Array[T]) Buffer() []T {
	if a == nil {
		return nil
	}
	return a.data
}

func (a *Array[T]) realloc(n, size int) error {
	if isHeap(a.alloc) {
		data, err := makeSlice[T](n)
		if err != nil {
			return err
		}
		copy(data, a.data)
		a.data = data
		return nil
	}
	var (
		block []byte
		err   error
	)
	if a.block == nil {
		block, err = a.alloc.Allocate(n * size)
	} else {
		block, err = a.alloc.Reallocate(a.block, n*size)
	}
	if err != nil {
		return err
	}
	a.block = block
	a.data = view[T](block, n)
	return nil
}

func (a *Array[T]) free() {
	if a.block != nil {
		a.alloc.Free(a.block)
	}
	a.block = nil
	a.data = nil
	a.hdr = header{}
}

// elemSize is unsafe.Sizeof(T) without materializing a T.
func elemSize[T any]() int {
	var p *T
	return int(unsafe.Sizeof(*p))
}
