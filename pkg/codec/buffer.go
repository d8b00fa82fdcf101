// Package codec implements the vault's wire format: little-endian,
// length-prefixed encoding of primitives, byte strings, and nested
// structs into a fixed-capacity buffer, with the source zeroized as it is
// consumed on both the encode and decode paths.
//
// Go has no procedural macros, so there is no derive step generating a
// per-type field tuple the way the original does. Instead a type
// implements Record by hand, and field-indexed access (used by the vault
// layer's OpenField/LeakField) goes through an explicit Field descriptor
// rather than a compiler-checked const-generic index.
package codec

import (
	"github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// MemEncodeBuf is a cursor-bearing byte buffer of fixed capacity. It is
// the concrete backing store the encoder writes into; the vault's ciphertext
// scratch space and the codec's own staging buffers are both MemEncodeBufs.
type MemEncodeBuf struct {
	buf    []byte
	cursor int
}

// NewMemEncodeBuf allocates a buffer with the given fixed capacity.
func NewMemEncodeBuf(capacity int) *MemEncodeBuf {
	return &MemEncodeBuf{buf: make([]byte, capacity)}
}

// Len returns the number of bytes written so far.
func (b *MemEncodeBuf) Len() int { return b.cursor }

// Cap returns the buffer's fixed capacity.
func (b *MemEncodeBuf) Cap() int { return len(b.buf) }

// PushSlice appends src at the cursor, failing with CapacityExceeded if
// doing so would exceed the buffer's capacity. The buffer is left
// unchanged on failure; the caller's encode-error path is responsible for
// zeroizing it (see Zeroize).
func (b *MemEncodeBuf) PushSlice(src []byte) error {
	if b.cursor+len(src) > len(b.buf) {
		return errors.NewOpError("codec.PushSlice", errors.ErrCapacityExceeded)
	}
	copy(b.buf[b.cursor:], src)
	b.cursor += len(src)
	return nil
}

// Bytes returns the written prefix without transferring ownership. The
// returned slice aliases the buffer's backing array and must not be
// retained past a call to ExportAsVec or Zeroize.
func (b *MemEncodeBuf) Bytes() []byte { return b.buf[:b.cursor] }

// ExportAsVec transfers the written prefix out as a freshly owned slice,
// then zeroizes the buffer's entire backing array — including any spare
// capacity beyond the cursor — before releasing its own reference.
func (b *MemEncodeBuf) ExportAsVec() []byte {
	out := make([]byte, b.cursor)
	copy(out, b.buf[:b.cursor])
	zeroize.Bytes(b.buf)
	b.buf = nil
	b.cursor = 0
	return out
}

// Zeroize overwrites the full backing array without exporting it and
// resets the cursor. Called on the encode-error path per the wire format's
// any-encode-error-zeroizes-the-buffer rule.
func (b *MemEncodeBuf) Zeroize() {
	zeroize.Bytes(b.buf)
	b.cursor = 0
}

// Open invokes f with a read-only view of the written prefix and returns
// its result. This, together with OpenMut, is the small Buffer contract a
// fixed byte buffer and a protected-page buffer both satisfy; this module
// only implements the fixed byte buffer side.
func Open[R any](b *MemEncodeBuf, f func([]byte) R) R {
	return f(b.buf[:b.cursor])
}

// OpenMut invokes f with a mutable view of the written prefix and returns
// its result.
func OpenMut[R any](b *MemEncodeBuf, f func([]byte) R) R {
	return f(b.buf[:b.cursor])
}
