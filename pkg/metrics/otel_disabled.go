//go:build !otel
// +build !otel

package metrics

import "context"

// OTelTracer is the default build's tracer: a stub whose spans are all
// no-ops, since the otel build tag is off.
type OTelTracer struct{}

// NewOTelTracer returns a no-op tracer. serviceName is accepted only to
// keep this constructor's signature identical to the otel-tagged build's.
func NewOTelTracer(_ string) *OTelTracer {
	return &OTelTracer{}
}

// StartSpan returns ctx unchanged and an end function that does nothing.
func (t *OTelTracer) StartSpan(ctx context.Context, _ string, _ ...SpanOption) (context.Context, SpanEnder) {
	return ctx, func(error) {}
}

// OTelEnabled reports whether this build was compiled with -tags otel.
func OTelEnabled() bool {
	return false
}
