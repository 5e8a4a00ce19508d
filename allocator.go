package dynarray

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Allocator supplies the backing memory of an Array.
//
// Blocks must be aligned to MaxAlign and have len equal to the requested
// size. Reallocate preserves the first min(len(buf), size) bytes. If it fails
// buf is untouched and still owned by the caller; if it succeeds buf belongs
// to the allocator again and must not be used.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Reallocate(buf []byte, size int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap. Arrays created with it keep a
// typed buffer, so any element type can be stored, including types holding
// pointers.
type HeapAllocator struct{}

var heap = &HeapAllocator{}

// Heap returns the shared heap allocator. It is the default for New and for
// the zero Array.
func Heap() *HeapAllocator {
	return heap
}

// Allocate returns a zeroed block of size bytes.
func (h *HeapAllocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrOutOfRange, size)
	}
	return makeSlice[byte](size)
}

// Reallocate copies buf into a fresh block of size bytes.
func (h *HeapAllocator) Reallocate(buf []byte, size int) ([]byte, error) {
	nb, err := h.Allocate(size)
	if err != nil {
		return nil, err
	}
	copy(nb, buf)
	return nb, nil
}

// Free is a no-op; the garbage collector reclaims heap blocks.
func (h *HeapAllocator) Free([]byte) {}

// makeSlice is make([]T, n) with the runtime's "len out of range" panic
// turned into an error.
func makeSlice[T any](n int) (s []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("heap: cannot allocate %d elements: %v", n, r)
		}
	}()
	return make([]T, n), nil
}

// view reinterprets the first n*sizeof(T) bytes of b as a []T.
func view[T any](b []byte, n int) []T {
	if n == 0 || len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// isHeap reports whether arrays on a should keep a typed buffer.
func isHeap(a Allocator) bool {
	if a == nil {
		return true
	}
	_, ok := a.(*HeapAllocator)
	return ok
}

// hasPointers reports whether values of t contain Go pointers the garbage
// collector has to see.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
