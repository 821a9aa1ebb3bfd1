// backend-go/internal/forecast/features/scaler.go
package features

import "math"

// StandardScaler standardizes feature columns to zero mean and unit variance.
// It is refit on the current history every forecast invocation and never
// persisted, matching how the tabular models were trained.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// FitStandard fits the scaler on a historical feature matrix. Variance uses
// the population denominator, and zero-variance columns pass through
// unscaled, both matching the training-side transform.
func FitStandard(matrix [][]float64) *StandardScaler {
	if len(matrix) == 0 {
		return &StandardScaler{}
	}

	cols := len(matrix[0])
	mean := make([]float64, cols)
	scale := make([]float64, cols)

	for _, row := range matrix {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(matrix))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range matrix {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &StandardScaler{mean: mean, scale: scale}
}

// Transform standardizes one feature row in place-order (a new slice is
// returned, the input is not modified).
func (s *StandardScaler) Transform(row []float64) []float64 {
	if len(s.mean) == 0 {
		return append([]float64(nil), row...)
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.scale[j]
	}
	return out
}

// MinMaxScaler maps a quantity series onto [0, 1]. The sequential strategy
// fits it on the full history of one medicine per invocation.
type MinMaxScaler struct {
	min float64
	max float64
}

// FitMinMax fits the scaler on the given values. A constant series scales
// to 0 and inverts back to the constant.
func FitMinMax(values []float64) MinMaxScaler {
	s := MinMaxScaler{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range values {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	return s
}

// Scale maps v into [0, 1].
func (s MinMaxScaler) Scale(v float64) float64 {
	if s.max == s.min {
		return 0
	}
	return (v - s.min) / (s.max - s.min)
}

// Inverse maps a normalized value back to original units.
func (s MinMaxScaler) Inverse(v float64) float64 {
	if s.max == s.min {
		return s.min
	}
	return v*(s.max-s.min) + s.min
}
