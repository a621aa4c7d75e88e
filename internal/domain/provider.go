package domain

import (
	"context"
	"time"
)

// Calendar answers business-day questions for the projection horizon.
// Implementations hold their data in memory; no I/O happens behind these calls
type Calendar interface {
	// BusinessDaysBetween returns the ordered business days in [start, end)
	BusinessDaysBetween(start, end time.Time) []time.Time

	// PreviousBusinessDay returns the business day immediately before d
	PreviousBusinessDay(d time.Time) time.Time
}

// RateSeries supplies the per-business-day multiplicative variation of a
// market indicator over [start, end). Coverage is sparse: only dates on which
// the indicator published a value appear in the result, and gaps are possible
type RateSeries interface {
	DailyVariation(ctx context.Context, indicator string, start, end time.Time) (map[time.Time]float64, error)
}
