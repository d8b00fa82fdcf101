package aead

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/memparanoid/redoubt-go/internal/constants"
	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex %q: %v", s, err)
	}
	return b
}

// TestXChaCha20Poly1305KnownAnswer reproduces spec scenario S1
// (draft-irtf-cfrg-xchacha Appendix A.1).
func TestXChaCha20Poly1305KnownAnswer(t *testing.T) {
	key := mustHex(t, "808182838485868788898a8b8c8d8e8f909192939495969798999a9b9c9d9e9f")
	nonce := mustHex(t, "404142434445464748494a4b4c4d4e4f5051525354555657")
	aad := mustHex(t, "50515253c0c1c2c3c4c5c6c7")
	msg := []byte("Ladies and Gentlemen of the class of '99: If I could offer you only one tip for the future, sunscreen would be it.")

	a := NewWithBackend(constants.BackendXChaCha20Poly1305)
	ciphertext, tag, err := a.Encrypt(key, nonce, aad, msg)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	wantCtPrefix := mustHex(t, "bd6d179d3e83d43b9576579493c0e939572a1700252bfaccbed2902c21396cbb")
	if !bytes.Equal(ciphertext[:len(wantCtPrefix)], wantCtPrefix) {
		t.Fatalf("ciphertext prefix = %x, want %x", ciphertext[:len(wantCtPrefix)], wantCtPrefix)
	}
	wantTag := []byte{0xc0, 0x87, 0x59, 0x24, 0xc1, 0xc7, 0x98, 0x79, 0x47, 0xde, 0xaf, 0xd8, 0x78, 0x0a, 0xcf, 0x49}
	if !bytes.Equal(tag, wantTag) {
		t.Fatalf("tag = %x, want %x", tag, wantTag)
	}

	plaintext, err := a.Decrypt(key, nonce, aad, ciphertext, tag)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !bytes.Equal(plaintext, msg) {
		t.Fatalf("Decrypt = %q, want %q", plaintext, msg)
	}
}

// TestAEGIS128LKnownAnswerZeroMessage reproduces spec scenario S2.
func TestAEGIS128LKnownAnswerZeroMessage(t *testing.T) {
	key := mustHex(t, "10010000000000000000000000000000")
	nonce := mustHex(t, "10000200000000000000000000000000")
	msg := make([]byte, 16)

	a := NewWithBackend(constants.BackendAEGIS128L)
	ciphertext, tag, err := a.Encrypt(key, nonce, nil, msg)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	wantCt := []byte{0xc1, 0xc0, 0xe5, 0x8b, 0xd9, 0x13, 0x00, 0x6f, 0xeb, 0xa0, 0x0f, 0x4b, 0x3c, 0xc3, 0x59, 0x4e}
	if !bytes.Equal(ciphertext, wantCt) {
		t.Fatalf("ciphertext = %x, want %x", ciphertext, wantCt)
	}
	wantTag := []byte{0xab, 0xe0, 0xec, 0xe8, 0x0c, 0x24, 0x86, 0x8a, 0x22, 0x6a, 0x35, 0xd1, 0x6b, 0xda, 0xe3, 0x7a}
	if !bytes.Equal(tag, wantTag) {
		t.Fatalf("tag = %x, want %x", tag, wantTag)
	}

	plaintext, err := a.Decrypt(key, nonce, nil, ciphertext, tag)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !bytes.Equal(plaintext, msg) {
		t.Fatalf("Decrypt = %x, want %x", plaintext, msg)
	}
}

// TestAEGIS128LKnownAnswerVector3 reproduces spec scenario S3 (AEGIS RFC
// Test Vector 3: 8-byte AAD, 32-byte incrementing plaintext).
func TestAEGIS128LKnownAnswerVector3(t *testing.T) {
	key := make([]byte, 16)
	key[0] = 0x10
	key[1] = 0x01
	nonce := make([]byte, 16)
	nonce[0] = 0x10
	nonce[2] = 0x02

	aad := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	msg := make([]byte, 32)
	for i := range msg {
		msg[i] = byte(i)
	}

	a := NewWithBackend(constants.BackendAEGIS128L)
	ciphertext, tag, err := a.Encrypt(key, nonce, aad, msg)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	wantCt := []byte{
		0x79, 0xd9, 0x45, 0x93, 0xd8, 0xc2, 0x11, 0x9d,
		0x7e, 0x8f, 0xd9, 0xb8, 0xfc, 0x77, 0x84, 0x5c,
		0x5c, 0x07, 0x7a, 0x05, 0xb2, 0x52, 0x8b, 0x6a,
		0xc5, 0x4b, 0x56, 0x3a, 0xed, 0x8e, 0xfe, 0x84,
	}
	if !bytes.Equal(ciphertext, wantCt) {
		t.Fatalf("ciphertext = %x, want %x", ciphertext, wantCt)
	}
	wantTag := []byte{0xcc, 0x6f, 0x33, 0x72, 0xf6, 0xaa, 0x1b, 0xb8, 0x23, 0x88, 0xd6, 0x95, 0xc3, 0x96, 0x2d, 0x9a}
	if !bytes.Equal(tag, wantTag) {
		t.Fatalf("tag = %x, want %x", tag, wantTag)
	}
}

func TestAEADNegativeBitFlips(t *testing.T) {
	for _, backend := range []constants.Backend{constants.BackendAEGIS128L, constants.BackendXChaCha20Poly1305} {
		t.Run(backend.String(), func(t *testing.T) {
			a := NewWithBackend(backend)
			key := make([]byte, a.KeySize())
			nonce := make([]byte, a.NonceSize())
			for i := range key {
				key[i] = byte(i + 1)
			}
			for i := range nonce {
				nonce[i] = byte(i + 2)
			}
			aad := []byte("associated data")
			msg := []byte("the quick brown fox jumps over the lazy dog")

			ciphertext, tag, err := a.Encrypt(key, nonce, aad, msg)
			if err != nil {
				t.Fatalf("Encrypt returned error: %v", err)
			}

			t.Run("flipped tag", func(t *testing.T) {
				badTag := append([]byte(nil), tag...)
				badTag[0] ^= 0x01
				if _, err := a.Decrypt(key, nonce, aad, ciphertext, badTag); !errors.Is(err, vaulterrors.ErrAuthenticationFailed) {
					t.Fatalf("Decrypt error = %v, want AuthenticationFailed", err)
				}
			})

			t.Run("flipped ciphertext", func(t *testing.T) {
				badCt := append([]byte(nil), ciphertext...)
				badCt[0] ^= 0x01
				if _, err := a.Decrypt(key, nonce, aad, badCt, tag); !errors.Is(err, vaulterrors.ErrAuthenticationFailed) {
					t.Fatalf("Decrypt error = %v, want AuthenticationFailed", err)
				}
			})

			t.Run("flipped aad", func(t *testing.T) {
				badAad := append([]byte(nil), aad...)
				badAad[0] ^= 0x01
				if _, err := a.Decrypt(key, nonce, badAad, ciphertext, tag); !errors.Is(err, vaulterrors.ErrAuthenticationFailed) {
					t.Fatalf("Decrypt error = %v, want AuthenticationFailed", err)
				}
			})
		})
	}
}

func TestAEADRoundTripBothBackends(t *testing.T) {
	for _, backend := range []constants.Backend{constants.BackendAEGIS128L, constants.BackendXChaCha20Poly1305} {
		t.Run(backend.String(), func(t *testing.T) {
			a := NewWithBackend(backend)
			key := make([]byte, a.KeySize())
			nonce := make([]byte, a.NonceSize())
			for i := range key {
				key[i] = byte(i * 3)
			}
			for i := range nonce {
				nonce[i] = byte(i * 5)
			}

			for _, size := range []int{0, 1, 15, 16, 17, 31, 32, 33, 127} {
				msg := make([]byte, size)
				for i := range msg {
					msg[i] = byte(i)
				}
				ciphertext, tag, err := a.Encrypt(key, nonce, []byte("aad"), msg)
				if err != nil {
					t.Fatalf("size %d: Encrypt returned error: %v", size, err)
				}
				plaintext, err := a.Decrypt(key, nonce, []byte("aad"), ciphertext, tag)
				if err != nil {
					t.Fatalf("size %d: Decrypt returned error: %v", size, err)
				}
				if !bytes.Equal(plaintext, msg) {
					t.Fatalf("size %d: Decrypt = %x, want %x", size, plaintext, msg)
				}
			}
		})
	}
}

func TestGenerateNonceDistinct(t *testing.T) {
	a := New()
	seen := make([][]byte, 0, 10)
	for i := 0; i < 10; i++ {
		n, err := a.GenerateNonce()
		if err != nil {
			t.Fatalf("GenerateNonce returned error: %v", err)
		}
		if len(n) != a.NonceSize() {
			t.Fatalf("len(nonce) = %d, want %d", len(n), a.NonceSize())
		}
		for j, prev := range seen {
			if bytes.Equal(prev, n) {
				t.Fatalf("nonce %d collided with nonce %d", i, j)
			}
		}
		seen = append(seen, n)
	}
}

func TestInvalidSizesRejected(t *testing.T) {
	a := NewWithBackend(constants.BackendXChaCha20Poly1305)
	_, _, err := a.Encrypt(make([]byte, 1), make([]byte, a.NonceSize()), nil, []byte("x"))
	if !errors.Is(err, vaulterrors.ErrInvalidKeySize) {
		t.Fatalf("Encrypt with bad key size error = %v, want InvalidKeySize", err)
	}
	_, _, err = a.Encrypt(make([]byte, a.KeySize()), make([]byte, 1), nil, []byte("x"))
	if !errors.Is(err, vaulterrors.ErrInvalidNonceSize) {
		t.Fatalf("Encrypt with bad nonce size error = %v, want InvalidNonceSize", err)
	}
	_, err = a.Decrypt(make([]byte, a.KeySize()), make([]byte, a.NonceSize()), nil, []byte("x"), make([]byte, 1))
	if !errors.Is(err, vaulterrors.ErrInvalidTagSize) {
		t.Fatalf("Decrypt with bad tag size error = %v, want InvalidTagSize", err)
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte{1, 2, 3}, []byte{1, 2, 3}) {
		t.Fatal("equal slices reported unequal")
	}
	if ConstantTimeCompare([]byte{1, 2, 3}, []byte{1, 2, 4}) {
		t.Fatal("unequal slices reported equal")
	}
	if ConstantTimeCompare([]byte{1, 2}, []byte{1, 2, 3}) {
		t.Fatal("different-length slices reported equal")
	}
}
