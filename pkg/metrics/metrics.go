// Package metrics provides observability primitives for the redoubt-go
// sensitive-data vault.
//
// The package includes:
//   - Counter and Histogram metric types
//   - OpenTelemetry-compatible tracing support
//   - Structured logging with levels
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates lifecycle metrics from CipherBox instances: opens,
// leaks, poisonings, and master-key operations.
type Collector struct {
	// Lifecycle metrics
	boxesActive   atomic.Uint64
	boxesTotal    atomic.Uint64
	boxesPoisoned atomic.Uint64

	// Access metrics
	opens         atomic.Uint64
	opensMut      atomic.Uint64
	fieldOpens    atomic.Uint64
	fieldOpensMut atomic.Uint64
	leaks         atomic.Uint64

	// Master-key metrics
	masterKeyInits atomic.Uint64
	masterKeyResets atomic.Uint64

	// Error metrics
	authFailures   atomic.Uint64
	entropyErrors  atomic.Uint64
	overflowErrors atomic.Uint64

	// Performance histograms
	encryptLatency *Histogram
	decryptLatency *Histogram

	// Creation time for uptime tracking
	createdAt time.Time

	// Labels for this collector instance
	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		encryptLatency: NewHistogram(LatencyBuckets),
		decryptLatency: NewHistogram(LatencyBuckets),
		createdAt:      time.Now(),
		labels:         labels,
	}
}

// LatencyBuckets are the default bucket boundaries for encrypt/decrypt
// operation latency, in microseconds.
var LatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// --- CipherBox lifecycle metrics ---

// BoxConstructed records a new CipherBox instance coming into existence.
func (c *Collector) BoxConstructed() {
	c.boxesActive.Add(1)
	c.boxesTotal.Add(1)
}

// BoxReleased records a CipherBox instance going out of scope.
func (c *Collector) BoxReleased() {
	for {
		current := c.boxesActive.Load()
		if current == 0 {
			return
		}
		if c.boxesActive.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// BoxPoisoned records a CipherBox latching into its permanent failure
// state.
func (c *Collector) BoxPoisoned() {
	c.boxesPoisoned.Add(1)
}

// --- Access metrics ---

// RecordOpen increments the read-only whole-struct open counter.
func (c *Collector) RecordOpen() {
	c.opens.Add(1)
}

// RecordOpenMut increments the mutable whole-struct open counter.
func (c *Collector) RecordOpenMut() {
	c.opensMut.Add(1)
}

// RecordFieldOpen increments the read-only single-field open counter.
func (c *Collector) RecordFieldOpen() {
	c.fieldOpens.Add(1)
}

// RecordFieldOpenMut increments the mutable single-field open counter.
func (c *Collector) RecordFieldOpenMut() {
	c.fieldOpensMut.Add(1)
}

// RecordLeak increments the leak-field counter: a caller took ownership of
// plaintext outside the encrypted envelope.
func (c *Collector) RecordLeak() {
	c.leaks.Add(1)
}

// --- Master-key metrics ---

// RecordMasterKeyInit increments the lazy master-key initialization
// counter.
func (c *Collector) RecordMasterKeyInit() {
	c.masterKeyInits.Add(1)
}

// RecordMasterKeyReset increments the forced master-key regeneration
// counter (test/forensics path).
func (c *Collector) RecordMasterKeyReset() {
	c.masterKeyResets.Add(1)
}

// --- Error metrics ---

// RecordAuthFailure increments the AEAD authentication-failure counter.
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Add(1)
}

// RecordEntropyError increments the CSPRNG failure counter.
func (c *Collector) RecordEntropyError() {
	c.entropyErrors.Add(1)
}

// RecordOverflowError increments the codec/container overflow counter.
func (c *Collector) RecordOverflowError() {
	c.overflowErrors.Add(1)
}

// --- Performance metrics ---

// RecordEncryptLatency records one field or struct encrypt operation's
// latency.
func (c *Collector) RecordEncryptLatency(d time.Duration) {
	c.encryptLatency.Observe(float64(d.Microseconds()))
}

// RecordDecryptLatency records one field or struct decrypt operation's
// latency.
func (c *Collector) RecordDecryptLatency(d time.Duration) {
	c.decryptLatency.Observe(float64(d.Microseconds()))
}

// --- Snapshot ---

// Snapshot returns a point-in-time snapshot of all metrics.
type Snapshot struct {
	// Timestamp of the snapshot
	Timestamp time.Time

	// Uptime since collector creation
	Uptime time.Duration

	// Lifecycle metrics
	BoxesActive   uint64
	BoxesTotal    uint64
	BoxesPoisoned uint64

	// Access metrics
	Opens         uint64
	OpensMut      uint64
	FieldOpens    uint64
	FieldOpensMut uint64
	Leaks         uint64

	// Master-key metrics
	MasterKeyInits  uint64
	MasterKeyResets uint64

	// Error metrics
	AuthFailures   uint64
	EntropyErrors  uint64
	OverflowErrors uint64

	// Histogram summaries
	EncryptLatency HistogramSummary
	DecryptLatency HistogramSummary

	// Labels
	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:       time.Now(),
		Uptime:          time.Since(c.createdAt),
		BoxesActive:     c.boxesActive.Load(),
		BoxesTotal:      c.boxesTotal.Load(),
		BoxesPoisoned:   c.boxesPoisoned.Load(),
		Opens:           c.opens.Load(),
		OpensMut:        c.opensMut.Load(),
		FieldOpens:      c.fieldOpens.Load(),
		FieldOpensMut:   c.fieldOpensMut.Load(),
		Leaks:           c.leaks.Load(),
		MasterKeyInits:  c.masterKeyInits.Load(),
		MasterKeyResets: c.masterKeyResets.Load(),
		AuthFailures:    c.authFailures.Load(),
		EntropyErrors:   c.entropyErrors.Load(),
		OverflowErrors:  c.overflowErrors.Load(),
		EncryptLatency:  c.encryptLatency.Summary(),
		DecryptLatency:  c.decryptLatency.Summary(),
		Labels:          c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	c.boxesActive.Store(0)
	c.boxesTotal.Store(0)
	c.boxesPoisoned.Store(0)
	c.opens.Store(0)
	c.opensMut.Store(0)
	c.fieldOpens.Store(0)
	c.fieldOpensMut.Store(0)
	c.leaks.Store(0)
	c.masterKeyInits.Store(0)
	c.masterKeyResets.Store(0)
	c.authFailures.Store(0)
	c.entropyErrors.Store(0)
	c.overflowErrors.Store(0)
	c.encryptLatency.Reset()
	c.decryptLatency.Reset()
	c.createdAt = time.Now()
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector.
// Creates one with default settings if not already initialized.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal sets the global metrics collector.
// Should be called during initialization before any metrics are recorded.
func SetGlobal(c *Collector) {
	globalCollectorOnce.Do(func() {})
	globalCollector = c
}
