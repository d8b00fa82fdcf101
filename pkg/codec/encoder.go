package codec

import (
	"encoding/binary"

	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// Encoder writes values into a MemEncodeBuf in the vault's little-endian
// wire format: bare bytes for primitives, a two-header
// (num_elements, bytes_required) prefix for byte strings and text.
type Encoder struct {
	buf *MemEncodeBuf
}

// NewEncoder returns an Encoder writing into buf.
func NewEncoder(buf *MemEncodeBuf) *Encoder {
	return &Encoder{buf: buf}
}

func (e *Encoder) writeHeader(numElements, bytesRequired uint64) error {
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:8], numElements)
	binary.LittleEndian.PutUint64(hdr[8:16], bytesRequired)
	if err := e.buf.PushSlice(hdr[:]); err != nil {
		e.buf.Zeroize()
		return err
	}
	return nil
}

// EncodeUint8 writes a single byte.
func (e *Encoder) EncodeUint8(v uint8) error {
	if err := e.buf.PushSlice([]byte{v}); err != nil {
		e.buf.Zeroize()
		return err
	}
	return nil
}

// EncodeUint32 writes v as 4 little-endian bytes.
func (e *Encoder) EncodeUint32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	if err := e.buf.PushSlice(b[:]); err != nil {
		e.buf.Zeroize()
		return err
	}
	return nil
}

// EncodeUint64 writes v as 8 little-endian bytes.
func (e *Encoder) EncodeUint64(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	if err := e.buf.PushSlice(b[:]); err != nil {
		e.buf.Zeroize()
		return err
	}
	return nil
}

// EncodeBytes writes the two-header-plus-payload form of src, then
// zeroizes src in place: the source is an owned buffer (ciphertext, key
// material, ...) the caller no longer needs once it has been copied onto
// the wire.
func (e *Encoder) EncodeBytes(src *[]byte) error {
	n := uint64(len(*src))
	if err := e.writeHeader(n, n); err != nil {
		zeroize.Bytes(*src)
		return err
	}
	if err := e.buf.PushSlice(*src); err != nil {
		e.buf.Zeroize()
		zeroize.Bytes(*src)
		return err
	}
	zeroize.Bytes(*src)
	return nil
}

// EncodeString writes src's UTF-8 bytes in the two-header-plus-payload
// form, then clears src. Go strings are immutable, so "zeroize the
// source" here means dropping the reference rather than overwriting the
// backing bytes in place — a real gap relative to the byte-slice case,
// documented in DESIGN.md.
func (e *Encoder) EncodeString(src *string) error {
	payload := []byte(*src)
	n := uint64(len(payload))
	if err := e.writeHeader(n, n); err != nil {
		*src = ""
		return err
	}
	if err := e.buf.PushSlice(payload); err != nil {
		e.buf.Zeroize()
		*src = ""
		return err
	}
	*src = ""
	return nil
}

// EncodeStruct recursively encodes src's fields via Record.EncodeFields.
// A struct contributes no framing of its own beyond the fields it writes.
func (e *Encoder) EncodeStruct(src Record) error {
	if err := src.EncodeFields(e); err != nil {
		e.buf.Zeroize()
		return err
	}
	return nil
}
