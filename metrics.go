package dynarray

// Metrics is a snapshot of an array's storage.
type Metrics struct {
	Len         int     // Elements in use
	Cap         int     // Elements the storage can hold
	MaxCap      int     // Capacity ceiling for the element size
	ElemSize    int     // Bytes per element
	Bytes       int     // Storage size in bytes (Cap * ElemSize)
	Utilization float64 // Len / Cap, 0 when the array has no storage
	Reallocs    int     // Successful capacity changes so far
}

// Utilization returns Len()/Cap(), or 0 if the array holds no storage.
func (a *Array[T]) Utilization() float64 {
	c := a.Cap()
	if c == 0 {
		return 0
	}
	return float64(a.Len()) / float64(c)
}

// Reallocs returns how many times the storage has been replaced, grown,
// shrunk or freed through SetCap.
func (a *Array[T]) Reallocs() int {
	if a == nil {
		return 0
	}
	return a.reallocs
}

// Metrics returns a snapshot of the array's statistics.
func (a *Array[T]) Metrics() Metrics {
	size := elemSize[T]()
	return Metrics{
		Len:         a.Len(),
		Cap:         a.Cap(),
		MaxCap:      MaxCapacity(size),
		ElemSize:    size,
		Bytes:       a.Cap() * size,
		Utilization: a.Utilization(),
		Reallocs:    a.Reallocs(),
	}
}
