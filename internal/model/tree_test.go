// backend-go/internal/model/tree_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stumpJSON = `{
	"nodeid": 0,
	"split": "f0",
	"split_condition": 5.0,
	"yes": 1,
	"no": 2,
	"missing": 1,
	"children": [
		{"nodeid": 1, "leaf": 1.0},
		{"nodeid": 2, "leaf": 2.0}
	]
}`

func TestParseTreeEnsembleEnvelope(t *testing.T) {
	data := []byte(`{"base_score": 0.5, "num_features": 2, "trees": [` + stumpJSON + `]}`)

	ensemble, err := ParseTreeEnsemble(data)
	require.NoError(t, err)

	// feature < condition follows the yes branch
	score, err := ensemble.Score([]float64{3, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, score, 1e-9)

	score, err = ensemble.Score([]float64{7, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, score, 1e-9)

	// Boundary value is not less than the condition, so it follows no.
	score, err = ensemble.Score([]float64{5, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, score, 1e-9)
}

func TestParseTreeEnsembleBareDump(t *testing.T) {
	// xgboost's dump format is a bare array; the default base score applies.
	ensemble, err := ParseTreeEnsemble([]byte(`[` + stumpJSON + `]`))
	require.NoError(t, err)

	score, err := ensemble.Score([]float64{3})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, score, 1e-9)
}

func TestParseTreeEnsembleInvalid(t *testing.T) {
	for _, data := range []string{``, `not json`, `[]`, `{"trees": []}`} {
		_, err := ParseTreeEnsemble([]byte(data))
		assert.Error(t, err, "input %q", data)
	}
}

func TestTreeEnsembleScoreShapeMismatch(t *testing.T) {
	data := []byte(`{"base_score": 0.5, "num_features": 2, "trees": [` + stumpJSON + `]}`)
	ensemble, err := ParseTreeEnsemble(data)
	require.NoError(t, err)

	_, err = ensemble.Score([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// A split referencing a feature beyond the row is also a shape problem.
	bare, err := ParseTreeEnsemble([]byte(`[` + stumpJSON + `]`))
	require.NoError(t, err)
	_, err = bare.Score([]float64{})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTreeEnsembleMultipleTrees(t *testing.T) {
	data := []byte(`{"base_score": 10, "num_features": 1, "trees": [` +
		stumpJSON + `,` + stumpJSON + `]}`)
	ensemble, err := ParseTreeEnsemble(data)
	require.NoError(t, err)

	score, err := ensemble.Score([]float64{3})
	require.NoError(t, err)
	assert.InDelta(t, 12.0, score, 1e-9)
}
