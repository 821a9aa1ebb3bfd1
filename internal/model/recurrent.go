// backend-go/internal/model/recurrent.go
package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// recurrentArtifact is the exported weight set of a single-layer LSTM
// regressor with a scalar dense head. Gate ordering in the concatenated
// weight matrices is input, forget, cell, output (Keras convention).
type recurrentArtifact struct {
	Window          int         `json:"window"`
	Units           int         `json:"units"`
	Kernel          [][]float64 `json:"kernel"`           // input_dim(1) x 4*units
	RecurrentKernel [][]float64 `json:"recurrent_kernel"` // units x 4*units
	Bias            []float64   `json:"bias"`             // 4*units
	DenseKernel     []float64   `json:"dense_kernel"`     // units
	DenseBias       float64     `json:"dense_bias"`
}

// RecurrentNetwork scores a normalized demand window with an LSTM forward
// pass. The window length is fixed at training time.
type RecurrentNetwork struct {
	window int
	units  int
	w      recurrentArtifact
}

// ParseRecurrentNetwork parses exported LSTM weights and validates their
// internal shapes. Shape problems here are configuration errors.
func ParseRecurrentNetwork(data []byte) (*RecurrentNetwork, error) {
	var art recurrentArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse recurrent network: %w", err)
	}
	if art.Window <= 0 || art.Units <= 0 {
		return nil, fmt.Errorf("%w: window=%d units=%d", ErrShapeMismatch, art.Window, art.Units)
	}
	if len(art.Kernel) != 1 || len(art.Kernel[0]) != 4*art.Units {
		return nil, fmt.Errorf("%w: kernel shape", ErrShapeMismatch)
	}
	if len(art.RecurrentKernel) != art.Units {
		return nil, fmt.Errorf("%w: recurrent kernel shape", ErrShapeMismatch)
	}
	for _, row := range art.RecurrentKernel {
		if len(row) != 4*art.Units {
			return nil, fmt.Errorf("%w: recurrent kernel shape", ErrShapeMismatch)
		}
	}
	if len(art.Bias) != 4*art.Units || len(art.DenseKernel) != art.Units {
		return nil, fmt.Errorf("%w: bias or dense shape", ErrShapeMismatch)
	}

	return &RecurrentNetwork{window: art.Window, units: art.Units, w: art}, nil
}

// WindowSize returns the input length fixed at training time.
func (n *RecurrentNetwork) WindowSize() int {
	return n.window
}

// ScoreNext runs the forward pass over the window and returns the next
// normalized value.
func (n *RecurrentNetwork) ScoreNext(window []float64) (float64, error) {
	if len(window) != n.window {
		return 0, fmt.Errorf("%w: got window of %d, model expects %d",
			ErrShapeMismatch, len(window), n.window)
	}

	u := n.units
	h := make([]float64, u)
	c := make([]float64, u)
	z := make([]float64, 4*u)

	for _, x := range window {
		for j := range z {
			z[j] = x*n.w.Kernel[0][j] + n.w.Bias[j]
		}
		for i := 0; i < u; i++ {
			if h[i] == 0 {
				continue
			}
			for j := range z {
				z[j] += h[i] * n.w.RecurrentKernel[i][j]
			}
		}

		for i := 0; i < u; i++ {
			in := sigmoid(z[i])
			forget := sigmoid(z[u+i])
			cell := math.Tanh(z[2*u+i])
			out := sigmoid(z[3*u+i])

			c[i] = forget*c[i] + in*cell
			h[i] = out * math.Tanh(c[i])
		}
	}

	y := n.w.DenseBias
	for i := 0; i < u; i++ {
		y += h[i] * n.w.DenseKernel[i]
	}
	return y, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
