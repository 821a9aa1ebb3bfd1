// backend-go/internal/forecast/features/buffer_test.go
package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingBufferPush(t *testing.T) {
	buf := NewTrailingBuffer(3)
	buf.Push(1)
	buf.Push(2)
	buf.Push(3)
	buf.Push(4) // evicts 1

	assert.Equal(t, 3, buf.Len())

	v, ok := buf.At(0)
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, ok = buf.At(2)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = buf.At(3)
	assert.False(t, ok)
	_, ok = buf.At(-1)
	assert.False(t, ok)
}

func TestLastN(t *testing.T) {
	history := []Observation{
		{Quantity: 1}, {Quantity: 2}, {Quantity: 3}, {Quantity: 4},
	}

	buf := LastN(history, 3)
	assert.Equal(t, 3, buf.Len())

	// Most recent first.
	v, _ := buf.At(0)
	assert.Equal(t, 4.0, v)
	v, _ = buf.At(2)
	assert.Equal(t, 2.0, v)

	// Shorter history than n keeps everything.
	buf = LastN(history[:2], 5)
	assert.Equal(t, 2, buf.Len())
}

func TestRollingMean(t *testing.T) {
	buf := NewTrailingBuffer(12)
	assert.Equal(t, 0.0, buf.RollingMean(3), "empty buffer")

	buf.Push(30)
	buf.Push(20)
	buf.Push(10) // buffer is now [10, 20, 30]

	assert.Equal(t, 15.0, buf.RollingMean(2))
	assert.Equal(t, 20.0, buf.RollingMean(3))
	assert.Equal(t, 20.0, buf.RollingMean(8), "window clamps to available values")
}

func TestRollingStd(t *testing.T) {
	buf := NewTrailingBuffer(12)
	assert.Equal(t, 0.0, buf.RollingStd(4), "empty buffer")

	buf.Push(5)
	assert.Equal(t, 0.0, buf.RollingStd(4), "single value")

	buf.Push(10)
	buf.Push(20)
	buf.Push(30) // buffer is now [30, 20, 10, 5]

	// Sample std of [30, 20, 10] is 10.
	assert.InDelta(t, 10.0, buf.RollingStd(3), 1e-9)

	// Window clamps to the 4 available values: sample std of [30, 20, 10, 5].
	assert.InDelta(t, 11.0868, buf.RollingStd(6), 0.001)
}
