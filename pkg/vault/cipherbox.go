// Package vault implements CipherBox, the encrypted-at-rest-in-memory
// container every other layer in this module exists to serve: a per-field,
// per-instance holder that exposes its contents only through scoped
// callbacks or ownership-returning leak operations, backed by a
// process-wide master key.
package vault

import (
	"time"

	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/aead"
	"github.com/memparanoid/redoubt-go/pkg/codec"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// FieldSetPtr constrains a CipherBox's second type parameter to be a
// pointer to its first that also implements codec.FieldSet. Go has no
// const generics, so there is no compiler-enforced link between T's field
// count and the N the original's CipherBox<T, A, N> carries as a type
// parameter; N here is simply len(Fields()) at construction time.
type FieldSetPtr[T any] interface {
	*T
	codec.FieldSet
}

// CipherBox holds one encrypted record of type T: a ciphertext, nonce, and
// tag per encryptable field, an AEAD instance, and the initialized/healthy
// state machine. A CipherBox is not safe for concurrent use by multiple
// goroutines — see Global for a serialized wrapper.
type CipherBox[T any, PT FieldSetPtr[T]] struct {
	cfg  Config
	aead *aead.Aead

	ciphertexts [][]byte
	nonces      [][]byte
	tags        [][]byte

	initialized bool
	healthy     bool
}

// New constructs a CipherBox for record type T. The box starts
// uninitialized: the first Open/OpenMut/OpenField/LeakField call
// transparently encrypts T's zero value before doing anything else, so a
// freshly constructed box behaves exactly like one already holding a
// zero-valued record.
func New[T any, PT FieldSetPtr[T]](cfg Config) (*CipherBox[T, PT], error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var a *aead.Aead
	if cfg.Backend != 0 {
		a = aead.NewWithBackend(cfg.Backend)
	} else {
		a = aead.New()
	}

	var zero T
	n := len(PT(&zero).Fields())

	box := &CipherBox[T, PT]{
		cfg:         cfg,
		aead:        a,
		ciphertexts: make([][]byte, n),
		nonces:      make([][]byte, n),
		tags:        make([][]byte, n),
		healthy:     true,
	}
	cfg.Metrics.BoxConstructed()
	return box, nil
}

// Release zeroizes every field's ciphertext, nonce, and tag and reports
// the instance's departure to the configured metrics collector. A
// released CipherBox must not be used again.
func (b *CipherBox[T, PT]) Release() {
	for i := range b.ciphertexts {
		zeroize.Bytes(b.ciphertexts[i])
		zeroize.Bytes(b.nonces[i])
		zeroize.Bytes(b.tags[i])
	}
	b.cfg.Metrics.BoxReleased()
}

// Healthy reports whether the box is still usable.
func (b *CipherBox[T, PT]) Healthy() bool { return b.healthy }

func (b *CipherBox[T, PT]) poison(op string, cause error) error {
	b.healthy = false
	b.cfg.Metrics.BoxPoisoned()
	b.cfg.Logger.Poisoned(op, cause)
	return vaulterrors.NewOpError(op, vaulterrors.ErrPoisoned)
}

// ensureReady runs the lazy-initialization check every top-level entry
// point performs: a poisoned box refuses everything, an uninitialized one
// is brought up by encrypting T's zero value first.
func (b *CipherBox[T, PT]) ensureReady(op string) error {
	if !b.healthy {
		return vaulterrors.NewOpError(op, vaulterrors.ErrPoisoned)
	}
	if b.initialized {
		return nil
	}
	var zero T
	if err := b.encryptStruct(PT(&zero)); err != nil {
		return b.poison(op, err)
	}
	b.initialized = true
	return nil
}

// withMasterKey leaks the master key, runs f with a copy sized for this
// box's backend, and releases the leaked copy unconditionally.
func (b *CipherBox[T, PT]) withMasterKey(f func(key []byte) error) error {
	guard := LeakMasterKey(b.aead.KeySize())
	defer guard.Release()
	return f((*guard.Value()).Value)
}

// encryptField serializes *value through field via the codec, encrypts the
// result under key with a freshly generated nonce, and installs the
// triple at index i.
func (b *CipherBox[T, PT]) encryptField(i int, key []byte, field codec.FieldCodec) error {
	buf := codec.NewMemEncodeBuf(b.cfg.MaxFieldEncodedSize)
	enc := codec.NewEncoder(buf)
	if err := field.EncodeField(enc); err != nil {
		return err
	}
	plaintext := buf.ExportAsVec()

	nonce, err := b.aead.GenerateNonce()
	if err != nil {
		zeroize.Bytes(plaintext)
		return err
	}

	start := time.Now()
	ciphertext, tag, err := b.aead.Encrypt(key, nonce, nil, plaintext)
	b.cfg.Metrics.RecordEncryptLatency(time.Since(start))
	zeroize.Bytes(plaintext)
	if err != nil {
		return err
	}

	b.ciphertexts[i] = ciphertext
	b.nonces[i] = nonce
	b.tags[i] = tag
	return nil
}

// decryptFieldDestructive decrypts index i and decodes the plaintext into
// field, then zeroizes and clears ciphertexts[i] — the struct-level
// decrypt→callback→encrypt discipline treats decryption as destructive,
// relying on the matching encryptField call that always follows to
// reinstall a fresh triple.
func (b *CipherBox[T, PT]) decryptFieldDestructive(i int, key []byte, field codec.FieldCodec) error {
	start := time.Now()
	plaintext, err := b.aead.Decrypt(key, b.nonces[i], nil, b.ciphertexts[i], b.tags[i])
	b.cfg.Metrics.RecordDecryptLatency(time.Since(start))
	zeroize.Bytes(b.ciphertexts[i])
	b.ciphertexts[i] = nil
	if err != nil {
		return err
	}
	dec := codec.NewDecoder(plaintext)
	if err := field.DecodeField(dec); err != nil {
		zeroize.Bytes(plaintext)
		return err
	}
	return nil
}

// decryptFieldPreserve decrypts index i into field without disturbing
// ciphertexts[i]/nonces[i]/tags[i] — the path field-level read-only access
// and LeakField use. Go's AEAD backends return a freshly allocated
// plaintext rather than decrypting the ciphertext in place, so unlike the
// original there is no ciphertext to clone defensively before calling
// decrypt: the stored triple is never touched by a failed or successful
// call.
func (b *CipherBox[T, PT]) decryptFieldPreserve(i int, key []byte, field codec.FieldCodec) error {
	start := time.Now()
	plaintext, err := b.aead.Decrypt(key, b.nonces[i], nil, b.ciphertexts[i], b.tags[i])
	b.cfg.Metrics.RecordDecryptLatency(time.Since(start))
	if err != nil {
		return err
	}
	dec := codec.NewDecoder(plaintext)
	if err := field.DecodeField(dec); err != nil {
		zeroize.Bytes(plaintext)
		return err
	}
	return nil
}

// encryptStruct encrypts every field of ptr in declaration order under a
// freshly leaked master key.
func (b *CipherBox[T, PT]) encryptStruct(ptr PT) error {
	fields := ptr.Fields()
	return b.withMasterKey(func(key []byte) error {
		for i, field := range fields {
			if err := b.encryptField(i, key, field); err != nil {
				return err
			}
		}
		return nil
	})
}

// decryptStruct destructively decrypts every field of ptr in declaration
// order under a freshly leaked master key.
func (b *CipherBox[T, PT]) decryptStruct(ptr PT) error {
	fields := ptr.Fields()
	return b.withMasterKey(func(key []byte) error {
		for i, field := range fields {
			if err := b.decryptFieldDestructive(i, key, field); err != nil {
				return err
			}
		}
		return nil
	})
}
