package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DataGapError reports a rate-series value missing on a business day the
// projection cannot cross without it (the previous-day lookup at a
// redemption boundary). The engine never substitutes a guessed value
type DataGapError struct {
	Indicator string
	Date      time.Time
}

func (e *DataGapError) Error() string {
	return fmt.Sprintf("indicator %s has no value for %s", e.Indicator, e.Date.Format("2006-01-02"))
}

// InvalidRegimeError reports an indexing regime outside {CDI, Pré, IPCA+}
type InvalidRegimeError struct {
	Regime string
}

func (e *InvalidRegimeError) Error() string {
	return fmt.Sprintf("unknown indexing regime %q", e.Regime)
}

// OrderingViolationError reports redemption events supplied out of date
// order, or a redemption dated after the holding is already closed
type OrderingViolationError struct {
	HoldingID uuid.UUID
	Date      time.Time
	Reason    string
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("redemption on %s for holding %s rejected: %s",
		e.Date.Format("2006-01-02"), e.HoldingID, e.Reason)
}
