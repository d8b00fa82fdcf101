package metrics

import (
	"math"
	"sort"
	"sync"
)

// defaultPercentiles are the latency percentiles every Histogram summary
// reports: median, the two tail percentiles operators typically alert on,
// and the long tail.
var defaultPercentiles = []float64{0.5, 0.9, 0.95, 0.99}

// Histogram tracks the distribution of observed values (CipherBox encrypt
// and decrypt latencies, in this module) across a fixed set of upper-bound
// buckets. Safe for concurrent use.
type Histogram struct {
	mu      sync.RWMutex
	buckets []float64 // upper bounds, inclusive, ascending
	counts  []uint64  // per-bucket count; counts[len(buckets)] is overflow
	sum     float64
	count   uint64
	min     float64
	max     float64
}

// NewHistogram creates a histogram with the given bucket upper bounds.
// buckets need not already be sorted.
func NewHistogram(buckets []float64) *Histogram {
	b := make([]float64, len(buckets))
	copy(b, buckets)
	sort.Float64s(b)

	return &Histogram{
		buckets: b,
		counts:  make([]uint64, len(b)+1),
		min:     math.MaxFloat64,
		max:     -math.MaxFloat64,
	}
}

// Observe records v, placing it in the first bucket whose upper bound is
// greater than or equal to v (or the overflow bucket if none is).
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := sort.SearchFloat64s(h.buckets, v)
	h.counts[idx]++

	h.sum += v
	h.count++
	if v < h.min {
		h.min = v
	}
	if v > h.max {
		h.max = v
	}
}

// HistogramSummary is a point-in-time snapshot of a Histogram, safe to
// marshal and export independent of the live Histogram's lock.
type HistogramSummary struct {
	Count       uint64              `json:"count"`
	Sum         float64             `json:"sum"`
	Min         float64             `json:"min"`
	Max         float64             `json:"max"`
	Mean        float64             `json:"mean"`
	Buckets     []BucketCount       `json:"buckets"`
	Percentiles map[float64]float64 `json:"percentiles,omitempty"`
}

// BucketCount is one bucket's cumulative observation count.
type BucketCount struct {
	UpperBound float64 `json:"le"`
	Count      uint64  `json:"count"`
}

// Summary snapshots the histogram's cumulative bucket counts, min/max/mean,
// and defaultPercentiles estimated by linear interpolation.
func (h *Histogram) Summary() HistogramSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return HistogramSummary{
			Buckets:     make([]BucketCount, 0),
			Percentiles: make(map[float64]float64),
		}
	}

	buckets := make([]BucketCount, len(h.buckets)+1)
	var cumulative uint64
	for i, bound := range h.buckets {
		cumulative += h.counts[i]
		buckets[i] = BucketCount{UpperBound: bound, Count: cumulative}
	}
	cumulative += h.counts[len(h.buckets)]
	buckets[len(h.buckets)] = BucketCount{UpperBound: math.Inf(1), Count: cumulative}

	return HistogramSummary{
		Count:       h.count,
		Sum:         h.sum,
		Min:         h.min,
		Max:         h.max,
		Mean:        h.sum / float64(h.count),
		Buckets:     buckets,
		Percentiles: h.calculatePercentiles(defaultPercentiles),
	}
}

// calculatePercentiles estimates each p in ps via linear interpolation
// between the two bucket boundaries straddling its rank. Must be called
// with h.mu held.
func (h *Histogram) calculatePercentiles(ps []float64) map[float64]float64 {
	result := make(map[float64]float64, len(ps))
	if h.count == 0 {
		return result
	}

	for _, p := range ps {
		rank := p * float64(h.count)
		var cumulative uint64
		for i, c := range h.counts {
			cumulative += c
			if float64(cumulative) < rank {
				continue
			}
			switch {
			case i == 0:
				result[p] = h.buckets[0] / 2
			case i >= len(h.buckets):
				result[p] = h.max
			default:
				lower, upper := h.buckets[i-1], h.buckets[i]
				prevCumulative := cumulative - c
				fraction := (rank - float64(prevCumulative)) / float64(c)
				result[p] = lower + fraction*(upper-lower)
			}
			break
		}
	}

	return result
}

// Reset clears all recorded observations, returning the histogram to its
// freshly constructed state.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.counts {
		h.counts[i] = 0
	}
	h.sum = 0
	h.count = 0
	h.min = math.MaxFloat64
	h.max = -math.MaxFloat64
}
