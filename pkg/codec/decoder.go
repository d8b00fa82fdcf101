package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// Decoder reads values out of a byte slice in the vault's wire format,
// zeroizing each consumed region (header plus payload) once it has been
// copied into the decoded value. A Decoder is single-use: once exhausted
// the source it decoded is no longer fit to read from again.
type Decoder struct {
	src    []byte
	cursor int
}

// NewDecoder returns a Decoder reading from src. src is consumed and
// zeroized progressively as decode calls succeed; the caller retains
// ownership of src itself (not a copy).
func NewDecoder(src []byte) *Decoder {
	return &Decoder{src: src}
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int { return len(d.src) - d.cursor }

func (d *Decoder) consume(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, errors.NewOpError("codec.Decoder", errors.ErrInvariantViolated)
	}
	b := d.src[d.cursor : d.cursor+n]
	d.cursor += n
	return b, nil
}

func (d *Decoder) zeroConsumedSince(start int) {
	zeroize.Bytes(d.src[start:d.cursor])
}

// DecodeUint8 reads a single byte.
func (d *Decoder) DecodeUint8() (uint8, error) {
	start := d.cursor
	b, err := d.consume(1)
	if err != nil {
		return 0, err
	}
	v := b[0]
	d.zeroConsumedSince(start)
	return v, nil
}

// DecodeUint32 reads 4 little-endian bytes.
func (d *Decoder) DecodeUint32() (uint32, error) {
	start := d.cursor
	b, err := d.consume(4)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(b)
	d.zeroConsumedSince(start)
	return v, nil
}

// DecodeUint64 reads 8 little-endian bytes.
func (d *Decoder) DecodeUint64() (uint64, error) {
	start := d.cursor
	b, err := d.consume(8)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(b)
	d.zeroConsumedSince(start)
	return v, nil
}

func (d *Decoder) readHeader() (numElements, bytesRequired uint64, start int, err error) {
	start = d.cursor
	hdr, err := d.consume(16)
	if err != nil {
		return 0, 0, start, err
	}
	numElements = binary.LittleEndian.Uint64(hdr[0:8])
	bytesRequired = binary.LittleEndian.Uint64(hdr[8:16])
	return numElements, bytesRequired, start, nil
}

// DecodeBytes reads the two-header-plus-payload form written by
// EncodeBytes. The advertised num_elements and bytes_required must agree
// (both equal the payload length, since each element is one byte);
// disagreement is an InvariantViolated, and the source from the start of
// the header to its end is zeroized before returning.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	numElements, bytesRequired, start, err := d.readHeader()
	if err != nil {
		return nil, err
	}
	if numElements != bytesRequired {
		zeroize.Bytes(d.src[start:])
		return nil, errors.NewOpError("codec.DecodeBytes", errors.ErrInvariantViolated)
	}
	payload, err := d.consume(int(bytesRequired))
	if err != nil {
		d.zeroConsumedSince(start)
		return nil, err
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	d.zeroConsumedSince(start)
	return out, nil
}

// DecodeString reads the two-header-plus-payload form written by
// EncodeString and validates the payload as UTF-8.
func (d *Decoder) DecodeString() (string, error) {
	numElements, bytesRequired, start, err := d.readHeader()
	if err != nil {
		return "", err
	}
	if numElements != bytesRequired {
		d.zeroConsumedSince(start)
		return "", errors.NewOpError("codec.DecodeString", errors.ErrInvariantViolated)
	}
	payload, err := d.consume(int(bytesRequired))
	if err != nil {
		d.zeroConsumedSince(start)
		return "", err
	}
	if !utf8.Valid(payload) {
		d.zeroConsumedSince(start)
		return "", errors.NewOpError("codec.DecodeString", errors.ErrPreconditionViolated)
	}
	out := string(payload)
	d.zeroConsumedSince(start)
	return out, nil
}

// DecodeStruct decodes dst's fields via Record.DecodeFields.
func (d *Decoder) DecodeStruct(dst Record) error {
	return dst.DecodeFields(d)
}
