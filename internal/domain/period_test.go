// backend-go/internal/domain/period_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		period Period
		want   string
	}{
		{Period{Year: 2024, Week: 7}, "2024-W07"},
		{Period{Year: 2024, Week: 52}, "2024-W52"},
		{Period{Year: 999, Week: 1}, "0999-W01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.period.Label())
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-W07")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2024, Week: 7}, p)

	// Round trip
	back, err := ParsePeriod(p.Label())
	require.NoError(t, err)
	assert.Equal(t, p, back)

	for _, label := range []string{"", "2024", "2024-W00", "2024-W54", "garbage"} {
		_, err := ParsePeriod(label)
		assert.Error(t, err, "label %q should not parse", label)
	}
}

func TestPeriodNext(t *testing.T) {
	tests := []struct {
		name string
		in   Period
		want Period
	}{
		{"mid year", Period{2024, 30}, Period{2024, 31}},
		{"week before wrap", Period{2024, 51}, Period{2024, 52}},
		{"year wrap at 52", Period{2024, 52}, Period{2025, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Next())
		})
	}
}

func TestPeriodBefore(t *testing.T) {
	assert.True(t, Period{2023, 52}.Before(Period{2024, 1}))
	assert.True(t, Period{2024, 1}.Before(Period{2024, 2}))
	assert.False(t, Period{2024, 2}.Before(Period{2024, 2}))
	assert.False(t, Period{2024, 2}.Before(Period{2024, 1}))
}

func TestPeriodOf(t *testing.T) {
	// 2024-01-04 is a Thursday in ISO week 1.
	p := PeriodOf(time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, Period{Year: 2024, Week: 1}, p)

	// 2022-01-01 belongs to ISO week 52 of 2021.
	p = PeriodOf(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, Period{Year: 2021, Week: 52}, p)
}
