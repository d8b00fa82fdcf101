package codec

import (
	"errors"
	"testing"

	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
)

type sample struct {
	ID      uint64
	Label   string
	Payload []byte
}

func (s *sample) EncodeFields(e *Encoder) error {
	if err := e.EncodeUint64(s.ID); err != nil {
		return err
	}
	if err := e.EncodeString(&s.Label); err != nil {
		return err
	}
	if err := e.EncodeBytes(&s.Payload); err != nil {
		return err
	}
	return nil
}

func (s *sample) DecodeFields(d *Decoder) error {
	id, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	label, err := d.DecodeString()
	if err != nil {
		return err
	}
	payload, err := d.DecodeBytes()
	if err != nil {
		return err
	}
	s.ID, s.Label, s.Payload = id, label, payload
	return nil
}

func TestPrimitiveRoundTrip(t *testing.T) {
	buf := NewMemEncodeBuf(64)
	enc := NewEncoder(buf)
	if err := enc.EncodeUint8(0xAB); err != nil {
		t.Fatalf("EncodeUint8 returned error: %v", err)
	}
	if err := enc.EncodeUint32(0xDEADBEEF); err != nil {
		t.Fatalf("EncodeUint32 returned error: %v", err)
	}
	if err := enc.EncodeUint64(0x0123456789ABCDEF); err != nil {
		t.Fatalf("EncodeUint64 returned error: %v", err)
	}

	out := buf.ExportAsVec()
	dec := NewDecoder(out)
	u8, err := dec.DecodeUint8()
	if err != nil || u8 != 0xAB {
		t.Fatalf("DecodeUint8 = (%v, %v), want (0xAB, nil)", u8, err)
	}
	u32, err := dec.DecodeUint32()
	if err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("DecodeUint32 = (%v, %v), want (0xDEADBEEF, nil)", u32, err)
	}
	u64, err := dec.DecodeUint64()
	if err != nil || u64 != 0x0123456789ABCDEF {
		t.Fatalf("DecodeUint64 = (%v, %v), want (0x0123456789ABCDEF, nil)", u64, err)
	}
}

func TestEncodeBytesZeroizesSource(t *testing.T) {
	buf := NewMemEncodeBuf(64)
	enc := NewEncoder(buf)
	src := []byte{1, 2, 3, 4}
	if err := enc.EncodeBytes(&src); err != nil {
		t.Fatalf("EncodeBytes returned error: %v", err)
	}
	for i, b := range src {
		if b != 0 {
			t.Fatalf("src[%d] = %d after EncodeBytes, want 0", i, b)
		}
	}
}

func TestDecodeBytesRoundTrip(t *testing.T) {
	buf := NewMemEncodeBuf(64)
	enc := NewEncoder(buf)
	src := []byte{9, 8, 7, 6, 5}
	want := append([]byte(nil), src...)
	if err := enc.EncodeBytes(&src); err != nil {
		t.Fatalf("EncodeBytes returned error: %v", err)
	}
	out := buf.ExportAsVec()

	dec := NewDecoder(out)
	got, err := dec.DecodeBytes()
	if err != nil {
		t.Fatalf("DecodeBytes returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("DecodeBytes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DecodeBytes = %v, want %v", got, want)
		}
	}
	// the consumed source must be zeroized.
	for i, b := range out {
		if b != 0 {
			t.Fatalf("out[%d] = %d after DecodeBytes, want 0", i, b)
		}
	}
}

func TestEncodeOverflowsCapacityZeroizesBuffer(t *testing.T) {
	buf := NewMemEncodeBuf(4)
	enc := NewEncoder(buf)
	src := []byte{1, 2, 3, 4, 5}
	err := enc.EncodeBytes(&src)
	if !errors.Is(err, vaulterrors.ErrCapacityExceeded) {
		t.Fatalf("EncodeBytes error = %v, want CapacityExceeded", err)
	}
	for i, b := range buf.buf {
		if b != 0 {
			t.Fatalf("buf.buf[%d] = %d after overflow, want 0", i, b)
		}
	}
	for i, b := range src {
		if b != 0 {
			t.Fatalf("src[%d] = %d after overflow, want 0", i, b)
		}
	}
}

func TestDecodeInvariantViolatedOnHeaderMismatch(t *testing.T) {
	buf := NewMemEncodeBuf(32)
	// Hand-craft a header where num_elements != bytes_required.
	hdr := make([]byte, 16)
	hdr[0] = 3 // num_elements = 3
	hdr[8] = 9 // bytes_required = 9
	if err := buf.PushSlice(hdr); err != nil {
		t.Fatalf("PushSlice returned error: %v", err)
	}
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if err := buf.PushSlice(payload); err != nil {
		t.Fatalf("PushSlice returned error: %v", err)
	}
	out := buf.ExportAsVec()

	dec := NewDecoder(out)
	_, err := dec.DecodeBytes()
	if !errors.Is(err, vaulterrors.ErrInvariantViolated) {
		t.Fatalf("DecodeBytes error = %v, want InvariantViolated", err)
	}
	for i, b := range out {
		if b != 0 {
			t.Fatalf("out[%d] = %d after invariant violation, want 0", i, b)
		}
	}
}

func TestStructRoundTrip(t *testing.T) {
	buf := NewMemEncodeBuf(128)
	enc := NewEncoder(buf)
	src := &sample{ID: 42, Label: "vault", Payload: []byte{1, 2, 3}}
	if err := enc.EncodeStruct(src); err != nil {
		t.Fatalf("EncodeStruct returned error: %v", err)
	}
	out := buf.ExportAsVec()

	dst := &sample{}
	dec := NewDecoder(out)
	if err := dec.DecodeStruct(dst); err != nil {
		t.Fatalf("DecodeStruct returned error: %v", err)
	}
	if dst.ID != 42 || dst.Label != "vault" || len(dst.Payload) != 3 {
		t.Fatalf("DecodeStruct = %+v, want ID=42 Label=vault Payload len 3", dst)
	}
}

func TestFieldDescriptorEncodesAndDecodesSingleField(t *testing.T) {
	field := Field[uint64]{
		Index: 0,
		Encode: func(e *Encoder, value *uint64) error {
			return e.EncodeUint64(*value)
		},
		Decode: func(d *Decoder, value *uint64) error {
			v, err := d.DecodeUint64()
			if err != nil {
				return err
			}
			*value = v
			return nil
		},
	}

	buf := NewMemEncodeBuf(8)
	enc := NewEncoder(buf)
	v := uint64(7)
	if err := field.Encode(enc, &v); err != nil {
		t.Fatalf("field.Encode returned error: %v", err)
	}
	out := buf.ExportAsVec()

	dec := NewDecoder(out)
	var got uint64
	if err := field.Decode(dec, &got); err != nil {
		t.Fatalf("field.Decode returned error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got = %d, want 7", got)
	}
}
