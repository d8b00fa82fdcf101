// Package alloc provides the vault's bounded zeroizing containers: a
// sealed-capacity vector whose only controlled growth path zeroizes the
// allocation it replaces, plus lightweight owning wrappers (vec, string,
// array, option, secret) built on top of it.
//
// Go has no user-controlled allocator hooks the way the original systems
// code does, so "zeroize old buffer, install new" here means: allocate a
// new Go slice, copy, overwrite the old slice's backing array with zero,
// and drop the reference. The garbage collector reclaims the old array's
// storage in its own time, same as any other unreferenced allocation.
package alloc

import (
	"runtime"

	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
)

// AllockedVec is a sealed-capacity vector. Before the first call to
// WithCapacity/ReserveExact it is unsealed and has zero capacity, so Push
// always fails until a capacity is fixed. Once sealed, capacity is frozen
// except through ReallocWithCapacity.
type AllockedVec[T any] struct {
	buf    []T
	sealed bool
}

// NewAllockedVec returns an empty, unsealed vector.
func NewAllockedVec[T any]() *AllockedVec[T] {
	return &AllockedVec[T]{}
}

// NewAllockedVecWithCapacity returns a vector sealed at capacity n.
func NewAllockedVecWithCapacity[T any](n int) *AllockedVec[T] {
	return &AllockedVec[T]{buf: make([]T, 0, n), sealed: true}
}

// Len returns the number of live elements.
func (v *AllockedVec[T]) Len() int { return len(v.buf) }

// Cap returns the current capacity.
func (v *AllockedVec[T]) Cap() int { return cap(v.buf) }

// Sealed reports whether the vector's capacity is frozen.
func (v *AllockedVec[T]) Sealed() bool { return v.sealed }

// Slice returns the live elements. The returned slice aliases the vector's
// backing array; callers must not retain it past a mutating call.
func (v *AllockedVec[T]) Slice() []T { return v.buf }

// ReserveExact seals the vector with capacity at least n. Fails with
// AlreadySealed if the vector is already sealed.
func (v *AllockedVec[T]) ReserveExact(n int) error {
	if v.sealed {
		return vaulterrors.NewOpError("alloc.ReserveExact", vaulterrors.ErrAlreadySealed)
	}
	buf := make([]T, len(v.buf), n)
	copy(buf, v.buf)
	v.buf = buf
	v.sealed = true
	return nil
}

// Push appends value, failing with CapacityExceeded once len equals cap.
// On failure the vector is left untouched: its existing elements are
// still fully valid, so nothing is zeroized.
func (v *AllockedVec[T]) Push(value T) error {
	if len(v.buf) == cap(v.buf) {
		return vaulterrors.NewOpError("alloc.Push", vaulterrors.ErrCapacityExceeded)
	}
	v.buf = append(v.buf, value)
	return nil
}

// DrainFrom moves every element of src into the vector and zeroizes src in
// place. If the vector cannot hold all of src's elements, both the
// vector's existing contents and src are zeroized before CapacityExceeded
// is returned: a partial move would leave the caller holding a vector
// whose true length it cannot trust, so nothing is exposed instead.
func (v *AllockedVec[T]) DrainFrom(src []T) error {
	room := cap(v.buf) - len(v.buf)
	if room < 0 || len(src) > room {
		v.Release()
		zeroizeSlice(src)
		return vaulterrors.NewOpError("alloc.DrainFrom", vaulterrors.ErrCapacityExceeded)
	}
	v.buf = append(v.buf, src...)
	zeroizeSlice(src)
	return nil
}

// Truncate zeroizes elements n..len before shortening the vector to n. A
// no-op if n is not less than the current length.
func (v *AllockedVec[T]) Truncate(n int) {
	if n < 0 || n >= len(v.buf) {
		return
	}
	zeroizeSlice(v.buf[n:])
	v.buf = v.buf[:n]
}

// ReallocWithCapacity replaces the backing allocation with one of capacity
// n when n exceeds the current capacity: it copies live data across,
// zeroizes the old allocation across its full capacity (not just the live
// elements), then installs the new one. A no-op when n does not exceed the
// current capacity.
func (v *AllockedVec[T]) ReallocWithCapacity(n int) {
	if n <= cap(v.buf) {
		return
	}
	old := v.buf
	buf := make([]T, len(old), n)
	copy(buf, old)
	zeroizeSlice(old[:cap(old)])
	v.buf = buf
	v.sealed = true
}

// Release zeroizes the full capacity, not just the live elements, and
// resets the vector to its unsealed, empty state.
func (v *AllockedVec[T]) Release() {
	zeroizeSlice(v.buf[:cap(v.buf)])
	v.buf = nil
	v.sealed = false
}

func zeroizeSlice[T any](s []T) {
	var zero T
	for i := range s {
		s[i] = zero
	}
	runtime.KeepAlive(&s)
}
