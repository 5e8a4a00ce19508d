package dynarray

type options struct {
	alloc Allocator
}

// Option configures an Array created by New.
type Option func(*options)

// WithAllocator sets the allocator that backs the array. A nil allocator
// selects Heap().
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = Heap()
		}
		o.alloc = a
	}
}
