// backend-go/internal/model/model.go
package model

import (
	"context"
	"errors"
)

var (
	// ErrArtifactNotFound means no trained model exists for a medicine. It is
	// a recoverable per-medicine condition, never fatal to a batch.
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrShapeMismatch means an artifact disagrees with the input shape it is
	// being scored with. This is a configuration error, not a data problem.
	ErrShapeMismatch = errors.New("model input shape mismatch")
)

// Scorer scores one engineered feature row.
type Scorer interface {
	Score(features []float64) (float64, error)
}

// SequenceScorer scores a fixed-length window of normalized quantities and
// returns the next normalized value.
type SequenceScorer interface {
	ScoreNext(window []float64) (float64, error)

	// WindowSize is the input length fixed at training time.
	WindowSize() int
}

// Registry resolves a medicine name to its trained model. Implementations
// are injected into the dispatcher so tests can substitute fakes.
type Registry interface {
	Tabular(ctx context.Context, medicineName string) (Scorer, error)
	Sequential(ctx context.Context, medicineName string) (SequenceScorer, error)
}
