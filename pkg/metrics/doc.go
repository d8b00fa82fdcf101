// Package metrics provides observability primitives for the redoubt-go
// sensitive-data vault.
//
// # Overview
//
// The metrics package offers:
//   - Metrics collection (counters, histograms) for CipherBox lifecycle
//     events
//   - Distributed tracing support (OpenTelemetry-compatible interface)
//   - Structured logging with levels
//
// # Quick Start
//
// Basic usage with the global collector:
//
//	import "github.com/memparanoid/redoubt-go/pkg/metrics"
//
//	metrics.Global().BoxConstructed()
//	metrics.Global().RecordOpenMut()
//	metrics.Global().RecordEncryptLatency(42 * time.Microsecond)
//
// # Metrics Collection
//
// The Collector type aggregates metrics from one or more CipherBox
// instances sharing it:
//
//	collector := metrics.NewCollector(metrics.Labels{
//		"instance": "node-1",
//	})
//
//	// Lifecycle metrics
//	collector.BoxConstructed()
//	collector.BoxPoisoned()
//
//	// Access metrics
//	collector.RecordOpen()
//	collector.RecordOpenMut()
//	collector.RecordFieldOpen()
//	collector.RecordLeak()
//
//	// Master-key metrics
//	collector.RecordMasterKeyInit()
//
//	// Get snapshot
//	snap := collector.Snapshot()
//
// # Tracing
//
// The package provides a Tracer interface compatible with OpenTelemetry:
//
//	tracer := metrics.NewSimpleTracer()
//	metrics.SetTracer(tracer)
//
//	// OpenTelemetry adapter (uses global provider)
//	otelTracer := metrics.NewOTelTracer("redoubt-go")
//	metrics.SetTracer(otelTracer)
//	// Build with -tags otel to enable the adapter.
//
//	ctx, end := metrics.StartSpan(ctx, "vault.OpenMut")
//	defer end(nil) // or end(err) on error
//
// # Structured Logging
//
// The Logger provides structured logging with levels, shared across every
// CipherBox a Config points at it:
//
//	logger := metrics.NewLogger(
//		metrics.WithLevel(metrics.LevelWarn),
//		metrics.WithFormat(metrics.FormatJSON),
//		metrics.WithName("vault"),
//	)
//
//	logger.Warn("re-encrypting field", metrics.Fields{"field": "secret"})
//
//	// CipherBox calls this directly when it latches into a poisoned state.
//	logger.Poisoned("OpenMut", err)
package metrics
