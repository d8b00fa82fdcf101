package main

import (
	"fmt"
	"strings"
)

func showExamples() {
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║      redoubt-go: Interactive Examples                    ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	examples := []struct {
		title       string
		description string
		code        string
	}{
		{
			title:       "Example 1: Declaring a FieldSet record",
			description: "A struct becomes vault-eligible by implementing codec.FieldSet",
			code: `package main

import "github.com/memparanoid/redoubt-go/pkg/codec"

type Account struct {
    APIKey []byte
}

func (a *Account) EncodeFields(e *codec.Encoder) error {
    return e.EncodeBytes(&a.APIKey)
}

func (a *Account) DecodeFields(d *codec.Decoder) error {
    v, err := d.DecodeBytes()
    if err != nil {
        return err
    }
    a.APIKey = v
    return nil
}

func (a *Account) Fields() []codec.FieldCodec {
    return []codec.FieldCodec{
        codec.Field[[]byte]{
            Encode: func(e *codec.Encoder, v *[]byte) error { return e.EncodeBytes(v) },
            Decode: func(d *codec.Decoder, v *[]byte) error {
                b, err := d.DecodeBytes()
                if err != nil {
                    return err
                }
                *v = b
                return nil
            },
        }.Bind(&a.APIKey),
    }
}`,
		},
		{
			title:       "Example 2: Whole-struct access",
			description: "Open and OpenMut decrypt every field, run the callback, then re-encrypt",
			code: `package main

import "github.com/memparanoid/redoubt-go/pkg/vault"

func main() {
    box, _ := vault.New[Account, *Account](vault.Config{})
    defer box.Release()

    _, _ = vault.OpenMut(box, func(a *Account) any {
        a.APIKey = []byte("sk-live-...")
        return nil
    })

    guard, _ := vault.Open(box, func(a *Account) int {
        return len(a.APIKey)
    })
    defer guard.Release()
    fmt.Println("key length:", (*guard.Value()).Value)
}`,
		},
		{
			title:       "Example 3: Single-field access",
			description: "OpenField/LeakField touch only one field's ciphertext; OpenFieldMut re-encrypts it",
			code: `package main

import "github.com/memparanoid/redoubt-go/pkg/vault"

func apiKeyField() codec.Field[[]byte] {
    return codec.Field[[]byte]{
        Encode: func(e *codec.Encoder, v *[]byte) error { return e.EncodeBytes(v) },
        Decode: func(d *codec.Decoder, v *[]byte) error {
            b, err := d.DecodeBytes()
            if err != nil {
                return err
            }
            *v = b
            return nil
        },
    }
}

func main() {
    // box from Example 2, field index 0 is APIKey.
    leaked, _ := vault.LeakField(box, 0, apiKeyField())
    defer leaked.Release()
    sendToRemote((*leaked.Value()).Value) // stored ciphertext is untouched

    _, _ = vault.OpenFieldMut(box, 0, apiKeyField(), func(v *[]byte) any {
        *v = rotateKey(*v)
        return nil
    })
}`,
		},
		{
			title:       "Example 4: Sharing a box across goroutines",
			description: "Global wraps a CipherBox behind a mutex so every operation serializes",
			code: `package main

import "github.com/memparanoid/redoubt-go/pkg/vault"

func main() {
    g, _ := vault.NewGlobal[Account, *Account](vault.Config{})
    defer g.Release()

    go func() {
        _, _ = vault.GlobalOpenMut(g, func(a *Account) any {
            a.APIKey = rotateKey(a.APIKey)
            return nil
        })
    }()

    _, _ = vault.GlobalOpen(g, func(a *Account) int {
        return len(a.APIKey)
    })
}`,
		},
		{
			title:       "Example 5: Poisoning",
			description: "Any AEAD, codec, or entropy failure during a struct-level access latches the box unusable",
			code: `package main

import (
    "errors"
    vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
    "github.com/memparanoid/redoubt-go/pkg/vault"
)

func main() {
    // box from Example 2.
    _, err := vault.Open(box, func(a *Account) any { return nil })
    if errors.Is(err, vaulterrors.ErrPoisoned) {
        // box.Healthy() is now false and stays false permanently.
        // a fresh vault.New call is the only way forward.
    }
}`,
		},
	}

	for i, ex := range examples {
		fmt.Printf("┌%s┐\n", strings.Repeat("─", 58))
		fmt.Printf("│ %s%s │\n", ex.title, strings.Repeat(" ", 58-len(ex.title)-2))
		fmt.Printf("└%s┘\n", strings.Repeat("─", 58))
		fmt.Println()
		fmt.Println(ex.description)
		fmt.Println()
		fmt.Println(ex.code)
		fmt.Println()

		if i < len(examples)-1 {
			fmt.Println()
		}
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                    Next Steps                             ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Try the demo:")
	fmt.Println("  redoubtdemo demo --verbose")
	fmt.Println()
	fmt.Println("Documentation:")
	fmt.Println("  https://github.com/memparanoid/redoubt-go")
	fmt.Println("  https://pkg.go.dev/github.com/memparanoid/redoubt-go")
	fmt.Println()
}
