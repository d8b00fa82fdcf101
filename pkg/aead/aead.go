// Package aead implements the vault's two AEAD backends — AEGIS-128L on
// hardware offering AES instructions, XChaCha20-Poly1305 everywhere else —
// behind a single, size-erased facade. The backend is chosen once, at
// construction, via a one-shot feature detector; the branch inside
// Encrypt/Decrypt is a variant discriminant, never a per-call detection.
package aead

import (
	"crypto/subtle"

	"golang.org/x/sys/cpu"

	"github.com/memparanoid/redoubt-go/internal/constants"
	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/entropy"
)

// API is the capability contract the vault layer drives: encrypt, decrypt,
// nonce generation, and the three backend-dependent sizes.
type API interface {
	Encrypt(key, nonce, aad, plaintext []byte) (ciphertext, tag []byte, err error)
	Decrypt(key, nonce, aad, ciphertext, tag []byte) ([]byte, error)
	GenerateNonce() ([]byte, error)
	KeySize() int
	NonceSize() int
	TagSize() int
}

// Aead is the unified facade over the two backends. Its zero value is not
// usable; construct one with New or NewWithBackend.
type Aead struct {
	backend constants.Backend
}

// New selects a backend via a one-shot feature detector (AES-NI on amd64,
// the ARMv8 crypto extensions on arm64) and returns the facade driving it.
func New() *Aead {
	return &Aead{backend: detectBackend()}
}

// NewWithBackend pins the facade to an explicit backend, bypassing
// detection. Used by known-answer tests that must exercise a specific
// primitive regardless of what the host's hardware offers.
func NewWithBackend(b constants.Backend) *Aead {
	return &Aead{backend: b}
}

// detectBackend runs once per Aead construction, never per operation.
func detectBackend() constants.Backend {
	if cpu.X86.HasAES || cpu.ARM64.HasAES {
		return constants.BackendAEGIS128L
	}
	return constants.BackendXChaCha20Poly1305
}

// Backend reports which primitive this facade drives.
func (a *Aead) Backend() constants.Backend { return a.backend }

// KeySize returns the active backend's required key size in bytes.
func (a *Aead) KeySize() int {
	if a.backend == constants.BackendAEGIS128L {
		return constants.AEGIS128LKeySize
	}
	return constants.XChaCha20Poly1305KeySize
}

// NonceSize returns the active backend's required nonce size in bytes.
func (a *Aead) NonceSize() int {
	if a.backend == constants.BackendAEGIS128L {
		return constants.AEGIS128LNonceSize
	}
	return constants.XChaCha20Poly1305NonceSize
}

// TagSize returns the active backend's authentication tag size in bytes.
func (a *Aead) TagSize() int {
	if a.backend == constants.BackendAEGIS128L {
		return constants.AEGIS128LTagSize
	}
	return constants.XChaCha20Poly1305TagSize
}

// Encrypt validates key/nonce sizes against the active backend, then
// dispatches to it. It returns the ciphertext (same length as plaintext)
// and a separate tag.
func (a *Aead) Encrypt(key, nonce, aad, plaintext []byte) ([]byte, []byte, error) {
	if len(key) != a.KeySize() {
		return nil, nil, vaulterrors.NewOpError("aead.Encrypt", vaulterrors.ErrInvalidKeySize)
	}
	if len(nonce) != a.NonceSize() {
		return nil, nil, vaulterrors.NewOpError("aead.Encrypt", vaulterrors.ErrInvalidNonceSize)
	}
	if a.backend == constants.BackendAEGIS128L {
		return aegis128LSeal(key, nonce, aad, plaintext)
	}
	return xchacha20poly1305Seal(key, nonce, aad, plaintext)
}

// Decrypt validates key/nonce/tag sizes against the active backend, then
// dispatches to it. On authentication failure the backend has already
// zeroized any recovered plaintext before returning ErrAuthenticationFailed.
func (a *Aead) Decrypt(key, nonce, aad, ciphertext, tag []byte) ([]byte, error) {
	if len(key) != a.KeySize() {
		return nil, vaulterrors.NewOpError("aead.Decrypt", vaulterrors.ErrInvalidKeySize)
	}
	if len(nonce) != a.NonceSize() {
		return nil, vaulterrors.NewOpError("aead.Decrypt", vaulterrors.ErrInvalidNonceSize)
	}
	if len(tag) != a.TagSize() {
		return nil, vaulterrors.NewOpError("aead.Decrypt", vaulterrors.ErrInvalidTagSize)
	}
	if a.backend == constants.BackendAEGIS128L {
		return aegis128LOpen(key, nonce, aad, ciphertext, tag)
	}
	return xchacha20poly1305Open(key, nonce, aad, ciphertext, tag)
}

// GenerateNonce returns a fresh random nonce sized for the active backend.
// Nonce freshness across the lifetime of a key is the caller's
// responsibility in principle; every CipherBox encryption generates one,
// so in practice the vault's nonce-reuse risk is bounded to the birthday
// frequency of the CSPRNG.
func (a *Aead) GenerateNonce() ([]byte, error) {
	return entropy.GenerateNonce(a.NonceSize())
}

// ConstantTimeCompare reports whether a and b are equal, in time
// independent of where they first differ. Used to compare computed and
// received authentication tags.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
