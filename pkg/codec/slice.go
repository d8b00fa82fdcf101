package codec

import (
	"math"

	"github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// ElementCodec describes how to encode, decode, and size a single element
// of type E — the per-element counterpart to Field[F], letting EncodeSlice
// and DecodeSlice drive a "Slice/Vec/String" wire value whose elements are
// anything from a uint64 to a nested Record, not just raw bytes.
type ElementCodec[E any] struct {
	// Encode writes *value to e.
	Encode func(e *Encoder, value *E) error

	// Decode reads a value of type E from d into *value.
	Decode func(d *Decoder, value *E) error

	// BytesRequired reports how many wire bytes Encode will write for
	// *value, without writing anything. EncodeSlice sums this across every
	// element to populate the header's bytes_required field before any
	// element is actually written.
	BytesRequired func(value *E) (uint64, error)
}

// zeroizeElement drives value to its zero state: FastZeroize if E carries
// one, otherwise a plain reset to E's zero value. This is the same
// fallback Plain[T].FastZeroize uses for an arbitrary T — Go gives no
// generic way to recursively scrub a type that doesn't opt in.
func zeroizeElement[E any](value *E) {
	if z, ok := any(value).(zeroize.FastZeroizable); ok {
		z.FastZeroize()
		return
	}
	var zero E
	*value = zero
}

func zeroizeElements[E any](s []E) {
	for i := range s {
		zeroizeElement(&s[i])
	}
}

// EncodeSlice writes *src in the num_elements/bytes_required/payload form
// shared by EncodeBytes and EncodeString, generalized to an arbitrary
// element type via ec. Every element of *src is zeroized in place before
// returning, success or failure, matching EncodeBytes's source-clearing
// discipline; a failed writeHeader also zeroizes the destination buffer.
func EncodeSlice[E any](e *Encoder, src *[]E, ec ElementCodec[E]) error {
	var total uint64
	for i := range *src {
		n, err := ec.BytesRequired(&(*src)[i])
		if err != nil {
			zeroizeElements(*src)
			return err
		}
		if total > math.MaxUint64-n {
			zeroizeElements(*src)
			return errors.NewOpError("codec.EncodeSlice", errors.ErrOverflow)
		}
		total += n
	}

	if err := e.writeHeader(uint64(len(*src)), total); err != nil {
		zeroizeElements(*src)
		return err
	}

	for i := range *src {
		if err := ec.Encode(e, &(*src)[i]); err != nil {
			e.buf.Zeroize()
			zeroizeElements(*src)
			return err
		}
	}
	zeroizeElements(*src)
	return nil
}

// PreAlloc allocates a slice of length n the way a decode path should
// before filling it element by element: a single bulk pass when E is
// bulk-zeroizable (its zero representation is already all-zero bytes),
// otherwise one default-constructed element at a time. Go's make always
// zero-fills a fresh slice regardless of which branch runs, so the two
// paths are observably identical here — the dispatch exists to honor the
// same capability check a non-GC'd language's PreAlloc uses to decide
// whether a bulk memset is even sound, not because Go needs it to be safe.
func PreAlloc[E any](n int) []E {
	var zero E
	if bz, ok := any(zero).(zeroize.BulkZeroizable); ok && bz.CanBulkZeroize() {
		return make([]E, n)
	}
	out := make([]E, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, zero)
	}
	return out
}

// DecodeSlice reads the num_elements/bytes_required/payload form written
// by EncodeSlice. numElements is checked against the decoder's remaining
// bytes before PreAlloc runs, bounding how much a maliciously large header
// can make this allocate (every element is at least one byte on the
// wire). A mismatch between advertised and actually-consumed bytes is an
// InvariantViolated, matching DecodeBytes and DecodeString.
func DecodeSlice[E any](d *Decoder, ec ElementCodec[E]) ([]E, error) {
	numElements, bytesRequired, start, err := d.readHeader()
	if err != nil {
		return nil, err
	}
	if numElements > uint64(d.Remaining()) {
		d.zeroConsumedSince(start)
		return nil, errors.NewOpError("codec.DecodeSlice", errors.ErrPreconditionViolated)
	}

	out := PreAlloc[E](int(numElements))
	payloadStart := d.cursor
	for i := range out {
		if err := ec.Decode(d, &out[i]); err != nil {
			d.zeroConsumedSince(start)
			zeroizeElements(out)
			return nil, err
		}
	}

	consumed := uint64(d.cursor - payloadStart)
	if consumed != bytesRequired {
		d.zeroConsumedSince(start)
		zeroizeElements(out)
		return nil, errors.NewOpError("codec.DecodeSlice", errors.ErrInvariantViolated)
	}

	// Each element decode already zeroized its own consumed region (the
	// existing DecodeUint*/DecodeBytes/DecodeString discipline); only the
	// 16-byte header itself remains.
	zeroize.Bytes(d.src[start:payloadStart])
	return out, nil
}
