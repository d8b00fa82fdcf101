package alloc

// RedoubtVec is an AllockedVec sibling that grows on demand instead of
// requiring an upfront capacity: ExtendFromMutSlice reallocates to the next
// power of two whenever the current allocation runs out of room. Use this
// where no known upper bound on element count exists; use AllockedVec
// directly where one does, since a sealed, fixed capacity is cheaper and
// gives CapacityExceeded instead of unbounded growth.
type RedoubtVec[T any] struct {
	inner AllockedVec[T]
}

// NewRedoubtVec returns an empty growable vector.
func NewRedoubtVec[T any]() *RedoubtVec[T] {
	return &RedoubtVec[T]{}
}

func (v *RedoubtVec[T]) Len() int     { return v.inner.Len() }
func (v *RedoubtVec[T]) Cap() int     { return v.inner.Cap() }
func (v *RedoubtVec[T]) Slice() []T   { return v.inner.Slice() }

// ExtendFromMutSlice appends every element of src, growing the backing
// allocation to the next power of two first if needed, and zeroizes src in
// place regardless of whether a grow happened.
func (v *RedoubtVec[T]) ExtendFromMutSlice(src []T) {
	need := v.inner.Len() + len(src)
	if need > v.inner.Cap() {
		v.inner.ReallocWithCapacity(nextPowerOfTwo(need))
	}
	if err := v.inner.DrainFrom(src); err != nil {
		// Unreachable: the grow above guarantees room for len(src).
		panic("alloc: RedoubtVec grow invariant violated: " + err.Error())
	}
}

// Release zeroizes the full backing allocation and resets the vector.
func (v *RedoubtVec[T]) Release() {
	v.inner.Release()
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
