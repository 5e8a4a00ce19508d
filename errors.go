package dynarray

import "errors"

// Errors returned by Array operations. Call sites wrap them with the
// offending values, so compare with errors.Is.
var (
	// ErrNullPointer is returned when a required argument is absent: a nil
	// *Array receiver, or a nil fill value when Resize has to grow.
	ErrNullPointer = errors.New("dynarray: null pointer")

	// ErrAllocationFailure is returned when the allocator could not satisfy a
	// request. The array is left exactly as it was before the call.
	ErrAllocationFailure = errors.New("dynarray: allocation failure")

	// ErrOutOfRange is returned when a length, capacity, index or count
	// violates the array's bounds or would overflow size arithmetic.
	ErrOutOfRange = errors.New("dynarray: out of range")
)
