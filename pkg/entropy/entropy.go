// Package entropy provides the vault's sole source of randomness: master
// key material and AEAD nonces both flow through here. It wraps crypto/rand
// the way the teacher repo's pkg/crypto package did, with the same
// critical-failure semantics (a CSPRNG failure is never recoverable, so the
// Must variants panic rather than return an error the caller might ignore).
package entropy

import (
	"crypto/rand"
	"io"

	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
)

// Source is the capability to fill a buffer with random bytes. Production
// code uses System; tests can substitute a deterministic Source to make
// fixtures reproducible.
type Source interface {
	Fill(b []byte) error
}

// System is the default Source, backed by the operating system's CSPRNG via
// crypto/rand.
type System struct{}

// Fill reads len(b) cryptographically secure random bytes into b.
func (System) Fill(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return vaulterrors.NewOpError("entropy.Fill", vaulterrors.ErrEntropy)
	}
	return nil
}

// Default is the Source used throughout the vault unless a caller supplies
// its own (tests only; production code should not override this).
var Default Source = System{}

// Fill reads len(b) cryptographically secure random bytes into b using
// Default.
func Fill(b []byte) error {
	return Default.Fill(b)
}

// MustFill is Fill but panics on CSPRNG failure. Used at master-key creation
// time, where there is no meaningful way to proceed without entropy and no
// caller in a position to retry.
func MustFill(b []byte) {
	if err := Fill(b); err != nil {
		panic("entropy: system CSPRNG failure: " + err.Error())
	}
}

// GenerateNonce returns n cryptographically secure random bytes sized for
// use as an AEAD nonce. Each call is independent; the caller is responsible
// for ensuring a given (key, nonce) pair is never reused, which for both
// backends in this module holds with overwhelming probability given a large
// enough nonce space and Default's quality of randomness.
func GenerateNonce(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := Fill(b); err != nil {
		return nil, err
	}
	return b, nil
}
