package vault

import (
	"github.com/memparanoid/redoubt-go/internal/constants"
	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
	"github.com/memparanoid/redoubt-go/pkg/metrics"
)

// Config configures a CipherBox (or a Global wrapping one). The zero value
// is valid: applyDefaults fills in every field a caller left unset.
type Config struct {
	// Backend pins the AEAD primitive a CipherBox drives. Zero means
	// autodetect via aead.New()'s feature probe.
	Backend constants.Backend

	// MaxFieldEncodedSize bounds the codec buffer used to serialize a
	// single field before encryption. Default: 64 KiB.
	MaxFieldEncodedSize int

	// Metrics receives lifecycle and access counters. Default:
	// metrics.Global().
	Metrics *metrics.Collector

	// Logger receives lifecycle log events. Default: metrics.GetLogger().
	Logger *metrics.Logger
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		MaxFieldEncodedSize: 64 * 1024,
		Metrics:             metrics.Global(),
		Logger:              metrics.GetLogger(),
	}
}

// applyDefaults fills in zero-valued fields with DefaultConfig's values.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.MaxFieldEncodedSize == 0 {
		c.MaxFieldEncodedSize = defaults.MaxFieldEncodedSize
	}
	if c.Metrics == nil {
		c.Metrics = defaults.Metrics
	}
	if c.Logger == nil {
		c.Logger = defaults.Logger
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxFieldEncodedSize < 0 {
		return vaulterrors.NewOpError("vault.Config.Validate", vaulterrors.ErrPreconditionViolated)
	}
	if c.Backend != 0 && !c.Backend.IsSupported() {
		return vaulterrors.NewOpError("vault.Config.Validate", vaulterrors.ErrPreconditionViolated)
	}
	return nil
}
