package aead

import (
	"encoding/binary"

	"github.com/memparanoid/redoubt-go/internal/constants"
	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// AEGIS-128L initialization constants (AEGIS draft, Appendix A.2): two
// low-weight 128-bit blocks used to diversify the eight state words before
// the ten-round absorption of (nonce, key).
var aegisC0 = [16]byte{0x00, 0x01, 0x01, 0x02, 0x03, 0x05, 0x08, 0x0d, 0x15, 0x22, 0x37, 0x59, 0x90, 0xe9, 0x79, 0x62}
var aegisC1 = [16]byte{0xdb, 0x3d, 0x18, 0x55, 0x6d, 0xc2, 0x2f, 0xf1, 0x20, 0x11, 0x31, 0x42, 0x73, 0xb5, 0x28, 0xdd}

// aegisState is the eight-block AEGIS-128L permutation state.
type aegisState [8][16]byte

func xorBlock16(a, b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func andBlock16(a, b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = a[i] & b[i]
	}
	return out
}

// update absorbs two 16-byte message words, advancing all eight state
// blocks by one AES round each.
func (s *aegisState) update(m0, m1 [16]byte) {
	s0 := aesRound(s[7], xorBlock16(s[0], m0))
	s1 := aesRound(s[0], s[1])
	s2 := aesRound(s[1], s[2])
	s3 := aesRound(s[2], s[3])
	s4 := aesRound(s[3], xorBlock16(s[4], m1))
	s5 := aesRound(s[4], s[5])
	s6 := aesRound(s[5], s[6])
	s7 := aesRound(s[6], s[7])
	s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7] = s0, s1, s2, s3, s4, s5, s6, s7
}

func newAegisState(key, nonce [16]byte) *aegisState {
	kn := xorBlock16(key, nonce)
	s := &aegisState{
		kn,
		aegisC1,
		aegisC0,
		aegisC1,
		kn,
		xorBlock16(key, aegisC0),
		xorBlock16(key, aegisC1),
		xorBlock16(key, aegisC0),
	}
	for i := 0; i < constants.AEGIS128LInitRounds; i++ {
		s.update(nonce, key)
	}
	return s
}

// absorbAD folds associated data into the state, 32 bytes per round,
// zero-padding a final short chunk. Empty ad contributes no rounds.
func (s *aegisState) absorbAD(ad []byte) {
	for len(ad) > 0 {
		n := len(ad)
		if n > 32 {
			n = 32
		}
		var buf [32]byte
		copy(buf[:], ad[:n])
		var m0, m1 [16]byte
		copy(m0[:], buf[:16])
		copy(m1[:], buf[16:])
		s.update(m0, m1)
		ad = ad[n:]
	}
}

// keystream returns the two 16-byte keystream words for the current state,
// per the AEGIS-128L block formula z0 = s1^s6^(s2&s3), z1 = s2^s5^(s6&s7).
func (s *aegisState) keystream() (z0, z1 [16]byte) {
	z0 = xorBlock16(xorBlock16(s[1], s[6]), andBlock16(s[2], s[3]))
	z1 = xorBlock16(xorBlock16(s[2], s[5]), andBlock16(s[6], s[7]))
	return
}

// processChunk runs one encrypt or decrypt step over a chunk of up to 32
// bytes (the final chunk of a message may be shorter). It always absorbs
// the zero-padded plaintext — never the ciphertext, and never keystream
// bytes from beyond the chunk's real length — matching the spec's
// full-block and partial-block state updates being distinct but both
// plaintext-based.
func (s *aegisState) processChunk(in []byte, encrypt bool) []byte {
	n := len(in)
	var inBuf [32]byte
	copy(inBuf[:], in)
	var in0, in1 [16]byte
	copy(in0[:], inBuf[:16])
	copy(in1[:], inBuf[16:])

	z0, z1 := s.keystream()

	var p0, p1 [16]byte
	var outBuf [32]byte

	if encrypt {
		p0, p1 = in0, in1
		c0 := xorBlock16(p0, z0)
		c1 := xorBlock16(p1, z1)
		copy(outBuf[:16], c0[:])
		copy(outBuf[16:], c1[:])
	} else {
		full0 := xorBlock16(in0, z0)
		full1 := xorBlock16(in1, z1)
		var fullBuf [32]byte
		copy(fullBuf[:16], full0[:])
		copy(fullBuf[16:], full1[:])
		for i := n; i < 32; i++ {
			fullBuf[i] = 0
		}
		copy(p0[:], fullBuf[:16])
		copy(p1[:], fullBuf[16:])
		copy(outBuf[:], fullBuf[:])
	}

	s.update(p0, p1)
	return append([]byte(nil), outBuf[:n]...)
}

func (s *aegisState) encrypt(plaintext []byte) []byte {
	out := make([]byte, 0, len(plaintext))
	for off := 0; off < len(plaintext); off += 32 {
		end := off + 32
		if end > len(plaintext) {
			end = len(plaintext)
		}
		out = append(out, s.processChunk(plaintext[off:end], true)...)
	}
	return out
}

func (s *aegisState) decrypt(ciphertext []byte) []byte {
	out := make([]byte, 0, len(ciphertext))
	for off := 0; off < len(ciphertext); off += 32 {
		end := off + 32
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		out = append(out, s.processChunk(ciphertext[off:end], false)...)
	}
	return out
}

// finalize absorbs the length block for seven rounds and returns the
// 16-byte tag S0^S1^...^S6 (S7 is excluded, per the draft).
func (s *aegisState) finalize(adLen, msgLen int) [16]byte {
	var lenBlock [16]byte
	binary.LittleEndian.PutUint64(lenBlock[0:8], uint64(adLen)*8)
	binary.LittleEndian.PutUint64(lenBlock[8:16], uint64(msgLen)*8)
	tmp := xorBlock16(s[2], lenBlock)
	for i := 0; i < constants.AEGIS128LFinalRounds; i++ {
		s.update(tmp, tmp)
	}
	tag := s[0]
	for i := 1; i < 7; i++ {
		tag = xorBlock16(tag, s[i])
	}
	return tag
}

// aegis128LSeal encrypts plaintext under (key, nonce, ad), returning the
// ciphertext and its 16-byte tag.
func aegis128LSeal(key, nonce, ad, plaintext []byte) (ciphertext, tag []byte, err error) {
	if len(key) != constants.AEGIS128LKeySize {
		return nil, nil, vaulterrors.NewOpError("aead.aegis128LSeal", vaulterrors.ErrInvalidKeySize)
	}
	if len(nonce) != constants.AEGIS128LNonceSize {
		return nil, nil, vaulterrors.NewOpError("aead.aegis128LSeal", vaulterrors.ErrInvalidNonceSize)
	}
	var k, n [16]byte
	copy(k[:], key)
	copy(n[:], nonce)

	st := newAegisState(k, n)
	st.absorbAD(ad)
	ct := st.encrypt(plaintext)
	tagBlock := st.finalize(len(ad), len(plaintext))
	return ct, tagBlock[:], nil
}

// aegis128LOpen decrypts ciphertext under (key, nonce, ad) and verifies
// tag, zeroizing any recovered plaintext before returning on mismatch.
func aegis128LOpen(key, nonce, ad, ciphertext, tag []byte) ([]byte, error) {
	if len(key) != constants.AEGIS128LKeySize {
		return nil, vaulterrors.NewOpError("aead.aegis128LOpen", vaulterrors.ErrInvalidKeySize)
	}
	if len(nonce) != constants.AEGIS128LNonceSize {
		return nil, vaulterrors.NewOpError("aead.aegis128LOpen", vaulterrors.ErrInvalidNonceSize)
	}
	if len(tag) != constants.AEGIS128LTagSize {
		return nil, vaulterrors.NewOpError("aead.aegis128LOpen", vaulterrors.ErrInvalidTagSize)
	}
	var k, n [16]byte
	copy(k[:], key)
	copy(n[:], nonce)

	st := newAegisState(k, n)
	st.absorbAD(ad)
	pt := st.decrypt(ciphertext)
	gotTag := st.finalize(len(ad), len(ciphertext))

	if !ConstantTimeCompare(gotTag[:], tag) {
		zeroize.Bytes(pt)
		return nil, vaulterrors.NewOpError("aead.aegis128LOpen", vaulterrors.ErrAuthenticationFailed)
	}
	return pt, nil
}
