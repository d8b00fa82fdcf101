package vault

import (
	"errors"

	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/codec"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// Open decrypts every field of box into a fresh T, invokes f with a
// read-only view, then re-encrypts every field with fresh nonces before
// returning. Decryption is destructive on ciphertexts[]: even a read-only
// Open performs the full decrypt→callback→encrypt cycle, so the stored
// ciphertext differs from call to call regardless of whether f mutates
// anything. Any AEAD, codec, or entropy failure poisons the box.
func Open[T any, PT FieldSetPtr[T], R any](box *CipherBox[T, PT], f func(value *T) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	result, err := openInternal(box, "vault.Open", f)
	if err != nil {
		return nil, err
	}
	box.cfg.Metrics.RecordOpen()
	return zeroize.NewGuard[*zeroize.Plain[R]](zeroize.NewPlain(result)), nil
}

// OpenMut is Open with a mutable view of T. The decrypt→callback→encrypt
// discipline is mandatory here too: decryption always drains
// ciphertexts[], so skipping re-encryption (e.g. via a callback panic)
// would leave the box readable-but-empty. CipherBox guards against exactly
// that by poisoning on panic — see the recover in openInternal.
func OpenMut[T any, PT FieldSetPtr[T], R any](box *CipherBox[T, PT], f func(value *T) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	result, err := openInternal(box, "vault.OpenMut", f)
	if err != nil {
		return nil, err
	}
	box.cfg.Metrics.RecordOpenMut()
	return zeroize.NewGuard[*zeroize.Plain[R]](zeroize.NewPlain(result)), nil
}

// openInternal implements both Open and OpenMut: Go has no const-time
// distinction between a callback that only reads and one that writes, so
// both call paths run the identical decrypt/callback/encrypt sequence and
// the caller's own discipline (whether f mutates *value) is the only thing
// separating them.
//
// Resolution of the "open_mut panic safety" question: re-encryption runs
// inside a deferred function that recovers a panic from f, latches the box
// poisoned, and re-panics, so a panicking callback can never leave the box
// healthy with drained ciphertexts.
func openInternal[T any, PT FieldSetPtr[T], R any](box *CipherBox[T, PT], op string, f func(value *T) R) (result R, err error) {
	if err = box.ensureReady(op); err != nil {
		return result, err
	}

	var zero T
	ptr := PT(&zero)

	if derr := box.decryptStruct(ptr); derr != nil {
		return result, box.poison(op, derr)
	}

	defer func() {
		if p := recover(); p != nil {
			box.poison(op, errors.New("panic during callback"))
			panic(p)
		}
		if eerr := box.encryptStruct(ptr); eerr != nil {
			err = box.poison(op, eerr)
		}
	}()

	result = f(ptr2val(ptr))
	return result, nil
}

// ptr2val narrows PT (a *T satisfying codec.FieldSet) back to a plain *T
// for the callback's signature, which should not require callers to know
// about FieldSet at all.
func ptr2val[T any, PT FieldSetPtr[T]](ptr PT) *T {
	return (*T)(ptr)
}

// OpenField decrypts only field index, invokes f with a read-only view,
// and discards the plaintext afterward without touching
// ciphertexts[index]/nonces[index]/tags[index]. Field-level Overflow and
// Entropy failures are returned without poisoning the box; any other
// error poisons it, matching struct-level semantics.
func OpenField[T any, PT FieldSetPtr[T], F any, R any](box *CipherBox[T, PT], index int, field codec.Field[F], f func(value *F) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	const op = "vault.OpenField"
	if err := box.ensureReady(op); err != nil {
		return nil, err
	}

	var value F
	bound := field.Bind(&value)

	err := box.withMasterKey(func(key []byte) error {
		return box.decryptFieldPreserve(index, key, bound)
	})
	if err != nil {
		return nil, fieldFailure(box, op, err)
	}

	result := f(&value)
	zeroizeValue(&value)
	box.cfg.Metrics.RecordFieldOpen()
	return zeroize.NewGuard[*zeroize.Plain[R]](zeroize.NewPlain(result)), nil
}

// OpenFieldMut decrypts field index, invokes f with a mutable view, then
// re-encrypts just that field with a fresh nonce.
func OpenFieldMut[T any, PT FieldSetPtr[T], F any, R any](box *CipherBox[T, PT], index int, field codec.Field[F], f func(value *F) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	const op = "vault.OpenFieldMut"
	if err := box.ensureReady(op); err != nil {
		return nil, err
	}

	var value F
	bound := field.Bind(&value)

	err := box.withMasterKey(func(key []byte) error {
		return box.decryptFieldPreserve(index, key, bound)
	})
	if err != nil {
		return nil, fieldFailure(box, op, err)
	}

	result := f(&value)

	err = box.withMasterKey(func(key []byte) error {
		return box.encryptField(index, key, bound)
	})
	if err != nil {
		return nil, fieldFailure(box, op, err)
	}

	box.cfg.Metrics.RecordFieldOpenMut()
	return zeroize.NewGuard[*zeroize.Plain[R]](zeroize.NewPlain(result)), nil
}

// LeakField decrypts field index and returns ownership of its plaintext in
// a Guard, without disturbing the stored ciphertext/nonce/tag. This is the
// cheap path for reading a single field: no re-encryption, one AEAD call.
func LeakField[T any, PT FieldSetPtr[T], F any](box *CipherBox[T, PT], index int, field codec.Field[F]) (*zeroize.Guard[*zeroize.Plain[F]], error) {
	const op = "vault.LeakField"
	if err := box.ensureReady(op); err != nil {
		return nil, err
	}

	var value F
	bound := field.Bind(&value)

	err := box.withMasterKey(func(key []byte) error {
		return box.decryptFieldPreserve(index, key, bound)
	})
	if err != nil {
		return nil, fieldFailure(box, op, err)
	}

	box.cfg.Metrics.RecordFieldOpen()
	box.cfg.Metrics.RecordLeak()
	return zeroize.NewGuard[*zeroize.Plain[F]](zeroize.NewPlain(value)), nil
}

// fieldFailure implements the field-level poisoning rule: Overflow,
// CapacityExceeded and Entropy errors propagate as-is (they can be
// caller-induced, e.g. a field too large for MaxFieldEncodedSize, and are
// recoverable by retrying with different input); anything else poisons the
// box the same way a struct-level failure would.
func fieldFailure[T any, PT FieldSetPtr[T]](box *CipherBox[T, PT], op string, err error) error {
	if vaulterrors.Is(err, vaulterrors.ErrEntropy) {
		box.cfg.Metrics.RecordEntropyError()
		return err
	}
	if vaulterrors.Is(err, vaulterrors.ErrOverflow) || vaulterrors.Is(err, vaulterrors.ErrCapacityExceeded) {
		box.cfg.Metrics.RecordOverflowError()
		return err
	}
	if vaulterrors.Is(err, vaulterrors.ErrAuthenticationFailed) {
		box.cfg.Metrics.RecordAuthFailure()
	}
	return box.poison(op, err)
}

// zeroizeValue best-effort zeroizes a decoded field value before it is
// discarded by a read-only field access. This mirrors zeroize.Plain's
// []byte special case rather than requiring every field type to implement
// FastZeroizable itself, since F here is whatever type the caller's
// codec.Field[F] names.
func zeroizeValue[F any](v *F) {
	if b, ok := any(*v).([]byte); ok {
		zeroize.Bytes(b)
	}
	var zero F
	*v = zero
}
