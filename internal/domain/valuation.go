package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PositionStatus indicates whether a holding still carries a balance
type PositionStatus string

const (
	PositionActive PositionStatus = "ACTIVE"
	PositionClosed PositionStatus = "CLOSED"
)

// ValuationPoint is one row of a holding's mark-to-market series: the
// projected value on a business day, the day's incremental yield, and the
// daily factor applied that day. The series is derived data, fully
// recomputed for any range affected by a redemption, never patched in place
type ValuationPoint struct {
	HoldingID uuid.UUID
	Date      time.Time
	Value     decimal.Decimal
	Yield     decimal.Decimal
	Factor    float64
}

// PositionSummary is the per-holding consolidated view (a "carteira" row)
// Derived entirely from the holding's valuation points and redemption events
type PositionSummary struct {
	HoldingID  uuid.UUID
	UpdatedAt  time.Time       // date of the last valuation point
	Balance    decimal.Decimal // last point's value while active, 0 once closed
	Redeemed   decimal.Decimal // cumulative redeemed amount
	GrossYield decimal.Decimal // sum of yields over the final (post-replay) series
	Status     PositionStatus
}
