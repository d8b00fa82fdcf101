package vault

import (
	"sync"

	"github.com/memparanoid/redoubt-go/internal/constants"
	"github.com/memparanoid/redoubt-go/pkg/entropy"
	"github.com/memparanoid/redoubt-go/pkg/metrics"
	"github.com/memparanoid/redoubt-go/pkg/zeroize"
)

// The master key is process-wide state, not per-CipherBox: every instance
// in the process encrypts its fields under the same key, created lazily on
// first use and guarded by a mutex for the lifetime of the process. It is
// always sized at constants.DefaultMasterKeySize (the larger of the two
// backend key sizes) so that a CipherBox running either backend can take
// whatever prefix it needs without ever requiring a re-derive.
var (
	masterKeyOnce sync.Once
	masterKeyMu   sync.Mutex
	masterKey     []byte
)

func ensureMasterKey() {
	masterKeyOnce.Do(func() {
		masterKeyMu.Lock()
		defer masterKeyMu.Unlock()
		masterKey = make([]byte, constants.DefaultMasterKeySize)
		entropy.MustFill(masterKey)
		metrics.Global().RecordMasterKeyInit()
	})
}

// LeakMasterKey returns a copy of the first n bytes of the process-wide
// master key (or the whole key, if n is not smaller), wrapped in a Guard
// the caller must Release. This is the only way to read the master key;
// CipherBox itself goes through this same path for every field-level
// encrypt/decrypt, copying and releasing a key guard around each one.
func LeakMasterKey(n int) *zeroize.Guard[*zeroize.Plain[[]byte]] {
	ensureMasterKey()

	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()

	if n <= 0 || n > len(masterKey) {
		n = len(masterKey)
	}
	cp := make([]byte, n)
	copy(cp, masterKey[:n])
	return zeroize.NewGuard[*zeroize.Plain[[]byte]](zeroize.NewPlain(cp))
}

// ResetMasterKey zeroizes the current master key and forces the next
// LeakMasterKey call to generate a fresh one. Existing CipherBox instances
// keep encrypting under whatever key they last leaked until their next
// operation; this is intended for tests and forensic key rotation drills,
// not routine use.
func ResetMasterKey() {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	zeroize.Bytes(masterKey)
	masterKey = nil
	masterKeyOnce = sync.Once{}
	metrics.Global().RecordMasterKeyReset()
}
