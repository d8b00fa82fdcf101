// Package redoubt provides an in-process sensitive-data vault: primitives
// that keep secrets (keys, seeds, tokens, derived material) confidential
// during the lifetime of a process and scrub every copy of them from
// memory as soon as possible.
//
// # Quick Start
//
// Declare a record type implementing codec.FieldSet, then hold it inside a
// CipherBox:
//
//	import (
//		"github.com/memparanoid/redoubt-go/pkg/codec"
//		"github.com/memparanoid/redoubt-go/pkg/vault"
//	)
//
//	type Account struct {
//		APIKey []byte
//	}
//
//	func (a *Account) EncodeFields(e *codec.Encoder) error {
//		return e.EncodeBytes(&a.APIKey)
//	}
//	func (a *Account) DecodeFields(d *codec.Decoder) error {
//		v, err := d.DecodeBytes()
//		if err != nil {
//			return err
//		}
//		a.APIKey = v
//		return nil
//	}
//	func (a *Account) Fields() []codec.FieldCodec {
//		return []codec.FieldCodec{
//			codec.Field[[]byte]{
//				Encode: func(e *codec.Encoder, v *[]byte) error { return e.EncodeBytes(v) },
//				Decode: func(d *codec.Decoder, v *[]byte) error {
//					b, err := d.DecodeBytes()
//					if err != nil {
//						return err
//					}
//					*v = b
//					return nil
//				},
//			}.Bind(&a.APIKey),
//		}
//	}
//
//	box, _ := vault.New[Account, *Account](vault.Config{})
//	_, _ = vault.OpenMut(box, func(a *Account) any {
//		a.APIKey = []byte("sk-live-...")
//		return nil
//	})
//
// # Package Structure
//
// The library is organized into several packages, leaves first:
//
//   - pkg/zeroize: deterministic zeroization framework (fast zeroization,
//     zeroization probing, drop-guarded sentinels)
//   - pkg/entropy: system CSPRNG source and nonce generation
//   - pkg/alloc: bounded, zeroizing allocation layer (sealed-capacity
//     vector, zeroizing string/array/option/secret wrappers)
//   - pkg/codec: zero-allocation codec that serializes structs to a bounded
//     byte buffer and back
//   - pkg/aead: two AEAD backends (AEGIS-128L, XChaCha20-Poly1305) behind a
//     unified, size-erased facade
//   - pkg/vault: CipherBox, the encrypted-at-rest-in-memory container, and
//     its process-wide master key
//   - pkg/metrics: structured logging, counters, and tracing used by the
//     vault layer
//   - internal/constants: wire-format and AEAD sizing constants
//   - internal/errors: sentinel error kinds shared across layers
//
// # Security Properties and Non-Goals
//
// The vault minimizes the window in which plaintext is addressable by the
// process. It does not persist anything across a process boundary, does
// not defend against an attacker with ptrace/debugger access to the live
// process, and provides no constant-time guarantee beyond what the chosen
// AEAD primitive itself offers.
//
// For more information, see: https://github.com/memparanoid/redoubt-go
package redoubt
