// backend-go/internal/domain/period.go
package domain

import (
	"fmt"
	"time"
)

// Period identifies one ISO week of demand history.
type Period struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Label formats the period as "{4-digit year}-W{2-digit week}", e.g. "2024-W07".
func (p Period) Label() string {
	return fmt.Sprintf("%04d-W%02d", p.Year, p.Week)
}

// ParsePeriod parses a "{year}-W{week}" label back into a Period.
func ParsePeriod(label string) (Period, error) {
	var p Period
	if _, err := fmt.Sscanf(label, "%4d-W%2d", &p.Year, &p.Week); err != nil {
		return Period{}, fmt.Errorf("invalid week label %q: %w", label, err)
	}
	if p.Week < 1 || p.Week > 53 {
		return Period{}, fmt.Errorf("invalid week label %q: week %d out of range", label, p.Week)
	}
	return p, nil
}

// Next returns the following week. The trained models use a fixed 52-week
// wrap (week 53 of a long ISO year never appears in model inputs), so the
// increment deliberately wraps at 52 rather than consulting the calendar.
func (p Period) Next() Period {
	wk := p.Week + 1
	yr := p.Year
	if wk > 52 {
		wk -= 52
		yr++
	}
	return Period{Year: yr, Week: wk}
}

// Before reports whether p falls strictly before other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Week < other.Week
}

// PeriodOf derives the ISO-week period a date falls in.
func PeriodOf(t time.Time) Period {
	year, week := t.ISOWeek()
	return Period{Year: year, Week: week}
}
