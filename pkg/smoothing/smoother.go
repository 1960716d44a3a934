// Package smoothing denoises per-frame angle measurements.
//
// Keypoint estimates jitter frame to frame, occasionally producing
// single-frame spikes. A median over a short rolling window suppresses
// those spikes where a mean would let them through.
package smoothing

import "sort"

// DefaultWindowSize is the number of recent samples kept for smoothing.
const DefaultWindowSize = 5

// Smoother maintains a bounded FIFO window of recent angle samples and
// reports the median of the window. It is not safe for concurrent use;
// the acquisition loop is its only caller.
type Smoother struct {
	window []float64
	size   int
}

// New creates a Smoother with the given window capacity.
// Sizes below 1 fall back to DefaultWindowSize.
func New(size int) *Smoother {
	if size < 1 {
		size = DefaultWindowSize
	}
	return &Smoother{
		window: make([]float64, 0, size),
		size:   size,
	}
}

// Smooth feeds one measurement and returns the denoised estimate.
//
// A missing measurement (ok=false) passes through without touching the
// window: occlusion gaps neither pollute nor advance the history, so the
// estimate stays continuous across brief dropouts.
func (s *Smoother) Smooth(angle float64, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}

	s.window = append(s.window, angle)
	if len(s.window) > s.size {
		s.window = s.window[1:]
	}

	return median(s.window), true
}

// Len returns the number of samples currently in the window.
func (s *Smoother) Len() int {
	return len(s.window)
}

// Reset discards all history.
func (s *Smoother) Reset() {
	s.window = s.window[:0]
}

// median computes the median of a float64 slice.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
