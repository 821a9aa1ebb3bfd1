// backend-go/internal/forecast/features/buffer.go
package features

import "math"

// TrailingBuffer is a fixed-capacity, most-recent-first deque of quantities.
// The tabular strategy pushes each new prediction onto it so later horizon
// steps see earlier predictions in their lag and rolling features.
type TrailingBuffer struct {
	capacity int
	values   []float64 // index 0 is the most recent value
}

// NewTrailingBuffer creates an empty buffer with the given capacity.
func NewTrailingBuffer(capacity int) *TrailingBuffer {
	return &TrailingBuffer{capacity: capacity}
}

// LastN builds a buffer holding the n most recent quantities of the series,
// most recent first.
func LastN(history []Observation, n int) *TrailingBuffer {
	buf := NewTrailingBuffer(n)
	start := len(history) - n
	if start < 0 {
		start = 0
	}
	for _, obs := range history[start:] {
		buf.Push(obs.Quantity)
	}
	return buf
}

// Push inserts v at the front, evicting the oldest value once full.
func (b *TrailingBuffer) Push(v float64) {
	b.values = append([]float64{v}, b.values...)
	if len(b.values) > b.capacity {
		b.values = b.values[:b.capacity]
	}
}

// At returns the value k positions back (k=0 is the most recent).
func (b *TrailingBuffer) At(k int) (float64, bool) {
	if k < 0 || k >= len(b.values) {
		return 0, false
	}
	return b.values[k], true
}

// Len returns the number of buffered values.
func (b *TrailingBuffer) Len() int {
	return len(b.values)
}

// RollingMean averages the w most recent values. Fewer available values mean
// averaging what exists; an empty buffer yields 0.
func (b *TrailingBuffer) RollingMean(w int) float64 {
	n := len(b.values)
	if n == 0 {
		return 0
	}
	if w > n {
		w = n
	}
	var sum float64
	for _, v := range b.values[:w] {
		sum += v
	}
	return sum / float64(w)
}

// RollingStd is the sample standard deviation (n-1 denominator) of the w most
// recent values, 0 when fewer than two values are available.
func (b *TrailingBuffer) RollingStd(w int) float64 {
	n := len(b.values)
	if n < 2 || w < 2 {
		return 0
	}
	if w > n {
		w = n
	}
	window := b.values[:w]
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(w)
	var ss float64
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(w-1))
}
