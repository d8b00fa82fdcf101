package zeroize

import (
	"reflect"
	"runtime"
)

// Plain adapts an arbitrary T for use inside a Guard without requiring the
// caller's own type to implement FastZeroizable. CipherBox's open/open_mut
// hand the caller's callback return value back this way, and LeakField
// hands back a field's plaintext the same way: neither the vault nor the
// caller's business-logic type is expected to carry its own Zeroize
// implementation the way a dedicated secret type would.
//
// FastZeroize special-cases []byte — the common shape for anything a
// CipherBox actually guards — overwriting its backing array in place.
// For any other T it falls back to resetting the field to T's zero value,
// which drops references (letting the GC reclaim what they pointed at)
// but does not recursively scrub nested heap buffers the way a
// hand-written composite FastZeroize would. This is the same class of gap
// documented for codec.Encoder.EncodeString: Go gives no mutable view onto
// an arbitrary T's backing storage the way it does for a byte slice.
type Plain[T any] struct {
	Value T
}

// NewPlain wraps v, returning a pointer so Plain[T] can be used as the type
// argument for Guard via its pointer (*Plain[T] satisfies FastZeroizable;
// Plain[T] itself does not, since FastZeroize must mutate through a
// pointer to reach the real stored value).
func NewPlain[T any](v T) *Plain[T] {
	return &Plain[T]{Value: v}
}

// FastZeroize overwrites p.Value's backing bytes when T is []byte,
// otherwise resets it to its zero value.
func (p *Plain[T]) FastZeroize() {
	if b, ok := any(p.Value).([]byte); ok {
		Bytes(b)
	}
	var zero T
	p.Value = zero
	runtime.KeepAlive(p)
}

// IsZeroized reports whether p.Value is currently zero. For []byte this is
// an exact byte-level check; for any other T it compares against T's zero
// value via reflect.DeepEqual, since T is not required to be comparable
// (Plain[[]byte] is the most common instantiation, and slices can never
// satisfy Go's comparable constraint).
func (p *Plain[T]) IsZeroized() bool {
	if b, ok := any(p.Value).([]byte); ok {
		return IsZeroBytes(b)
	}
	var zero T
	return reflect.DeepEqual(p.Value, zero)
}
