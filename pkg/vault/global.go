package vault

import (
	"sync"

	"github.com/memparanoid/redoubt-go/pkg/codec"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// Global wraps a CipherBox behind a mutex so it can be shared across
// goroutines, serializing every operation the same way the teacher's
// connection Pool serializes access to its idle list: one lock, held for
// the duration of the call, released via defer.
//
// Go methods cannot introduce type parameters beyond their receiver's, so
// the field-level operations (which need their own F) are free functions
// taking a *Global, mirroring how Open/OpenMut/OpenField/LeakField are
// free functions over *CipherBox rather than methods.
type Global[T any, PT FieldSetPtr[T]] struct {
	mu  sync.Mutex
	box *CipherBox[T, PT]
}

// NewGlobal constructs a CipherBox for T and wraps it for concurrent use.
func NewGlobal[T any, PT FieldSetPtr[T]](cfg Config) (*Global[T, PT], error) {
	box, err := New[T, PT](cfg)
	if err != nil {
		return nil, err
	}
	return &Global[T, PT]{box: box}, nil
}

// Healthy reports whether the wrapped box is still usable.
func (g *Global[T, PT]) Healthy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.box.Healthy()
}

// Release releases the wrapped box.
func (g *Global[T, PT]) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.box.Release()
}

// GlobalOpen serializes a whole-struct read-only access behind g's mutex.
func GlobalOpen[T any, PT FieldSetPtr[T], R any](g *Global[T, PT], f func(value *T) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Open[T, PT](g.box, f)
}

// GlobalOpenMut serializes a whole-struct mutable access behind g's mutex.
func GlobalOpenMut[T any, PT FieldSetPtr[T], R any](g *Global[T, PT], f func(value *T) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return OpenMut[T, PT](g.box, f)
}

// GlobalOpenField serializes a single-field read-only access behind g's
// mutex.
func GlobalOpenField[T any, PT FieldSetPtr[T], F any, R any](g *Global[T, PT], index int, field codec.Field[F], f func(value *F) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return OpenField[T, PT](g.box, index, field, f)
}

// GlobalOpenFieldMut serializes a single-field mutable access behind g's
// mutex.
func GlobalOpenFieldMut[T any, PT FieldSetPtr[T], F any, R any](g *Global[T, PT], index int, field codec.Field[F], f func(value *F) R) (*zeroize.Guard[*zeroize.Plain[R]], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return OpenFieldMut[T, PT](g.box, index, field, f)
}

// GlobalLeakField serializes a leak access behind g's mutex.
func GlobalLeakField[T any, PT FieldSetPtr[T], F any](g *Global[T, PT], index int, field codec.Field[F]) (*zeroize.Guard[*zeroize.Plain[F]], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return LeakField[T, PT](g.box, index, field)
}
