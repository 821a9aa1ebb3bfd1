// backend-go/internal/forecast/reorder_test.go
package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderLevel(t *testing.T) {
	tests := []struct {
		name         string
		demand       int
		safetyStock  int
		leadTimeDays int
		want         int
	}{
		{"two week lead time", 18, 10, 14, 46},
		{"one week lead time", 18, 10, 7, 28},
		{"fractional result truncates", 10, 0, 10, 14}, // 10 * 10/7 = 14.28..
		{"zero demand keeps safety stock", 0, 25, 14, 25},
		{"zero safety stock", 7, 0, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReorderLevel(tt.demand, tt.safetyStock, tt.leadTimeDays))
		})
	}
}

func TestReorderLevelMonotonicInDemand(t *testing.T) {
	prev := -1
	for demand := 0; demand <= 100; demand += 5 {
		level := ReorderLevel(demand, 10, 14)
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}
