package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Redemption represents a withdrawal against a holding (a "resgate")
// Identified by (holding ID, date); at most one per holding per day
type Redemption struct {
	HoldingID uuid.UUID
	Date      time.Time
	Amount    decimal.Decimal
}

// Validate ensures the redemption adheres to domain rules
func (r *Redemption) Validate() error {
	if r.HoldingID == uuid.Nil {
		return errors.New("redemption must reference a holding")
	}

	if r.Date.IsZero() {
		return errors.New("redemption date is required")
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("redemption amount must be positive")
	}

	return nil
}

// ValidateRedemptionOrder checks that redemption dates are strictly increasing
// Replay depends on this ordering, so it is rejected up front rather than
// producing a partially-correct series
func ValidateRedemptionOrder(redemptions []*Redemption) error {
	for i := 1; i < len(redemptions); i++ {
		if !redemptions[i].Date.After(redemptions[i-1].Date) {
			return &OrderingViolationError{
				HoldingID: redemptions[i].HoldingID,
				Date:      redemptions[i].Date,
				Reason:    "redemption dates must be strictly increasing",
			}
		}
	}
	return nil
}
