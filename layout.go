package dynarray

import (
	"math"
	"unsafe"
)

// header is the array's bookkeeping. It lives in the Array value itself
// rather than in front of the element buffer.
type header struct {
	capacity int
	length   int
}

// maxAligned has the strictest alignment of any Go value.
type maxAligned struct {
	_ complex128
	_ int64
	_ uintptr
	_ unsafe.Pointer
	_ func()
}

// MaxAlign is the alignment every Allocator must guarantee for its blocks.
const MaxAlign = int(unsafe.Alignof(maxAligned{}))

// HeaderSize is the size of the array header rounded up to MaxAlign. It is
// reserved out of the addressable range when computing MaxCapacity.
const HeaderSize = (int(unsafe.Sizeof(header{})) + MaxAlign - 1) &^ (MaxAlign - 1)

// MaxCapacity returns the largest capacity an array of elements of elemSize
// bytes can have without HeaderSize + capacity*elemSize overflowing an int.
// It returns 0 if elemSize <= 0.
func MaxCapacity(elemSize int) int {
	if elemSize <= 0 {
		return 0
	}
	return (math.MaxInt - HeaderSize) / elemSize
}

// growCapacity doubles current (or 1 when there is no buffer yet) until it
// covers target, clamping to max when another doubling would pass it.
// Callers guarantee target <= max.
func growCapacity(current, target, max int) int {
	c := current
	if c == 0 {
		c = 1
	}
	for c < target {
		if c > max/2 {
			return max
		}
		c *= 2
	}
	return c
}
