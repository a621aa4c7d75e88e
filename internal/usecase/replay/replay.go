package replay

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
	"github.com/rmfontes/carteira-backend/internal/usecase/valuation"
)

// A redemption leaving less than one cent behind exhausts the holding
var closeTolerance = decimal.NewFromFloat(0.01)

// Result is the reconstructed state of one holding: its final valuation
// series, the consolidated summary, and any indicator gaps crossed
type Result struct {
	Points  []domain.ValuationPoint
	Summary domain.PositionSummary
	Gaps    []time.Time
}

// Run rebuilds a holding's valuation series by replaying its redemption
// events, in ascending date order, over the purchase-to-maturity projection.
//
// Each redemption changes the compounding principal of every later day, so
// the series tail is always truncated and recomputed from the redemption
// date onward; points are never adjusted in place. The business day
// immediately preceding a redemption must carry a computed value, otherwise
// the redemption is rejected with a DataGapError rather than settled against
// a guessed balance.
//
// Run is a pure function of its inputs: replaying the same events twice
// yields an identical series
func Run(h *domain.Holding, redemptions []*domain.Redemption, today time.Time, cal domain.Calendar, variations map[time.Time]float64) (*Result, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateRedemptionOrder(redemptions); err != nil {
		return nil, err
	}

	today = domain.DayOf(today)
	maturity := domain.DayOf(h.MaturityDate)

	base, err := valuation.Project(valuation.Input{
		HoldingID:  h.ID,
		Regime:     h.Regime,
		Start:      h.PurchaseDate,
		End:        maturity,
		Today:      today,
		AnnualRate: h.AnnualRate,
		Principal:  h.Principal,
		Calendar:   cal,
		Variations: variations,
	})
	if err != nil {
		return nil, err
	}
	if len(base.Points) == 0 {
		return nil, &domain.DataGapError{Indicator: indicatorLabel(h), Date: domain.DayOf(h.PurchaseDate)}
	}

	points := base.Points
	gaps := base.Gaps
	redeemed := decimal.Zero
	closed := false

	for _, r := range redemptions {
		if closed {
			return nil, &domain.OrderingViolationError{
				HoldingID: h.ID,
				Date:      r.Date,
				Reason:    "holding already closed by a total redemption",
			}
		}

		rDate := domain.DayOf(r.Date)
		points = truncateBefore(points, rDate)
		gaps = truncateDatesBefore(gaps, rDate)

		// The redemption settles against the previous business day's value
		previous := cal.PreviousBusinessDay(rDate)
		if len(points) == 0 || !points[len(points)-1].Date.Equal(previous) {
			return nil, &domain.DataGapError{Indicator: indicatorLabel(h), Date: previous}
		}

		remaining := points[len(points)-1].Value.Sub(r.Amount)
		redeemed = redeemed.Add(r.Amount)

		if remaining.LessThan(closeTolerance) {
			closed = true
			continue
		}

		segment, err := valuation.Project(valuation.Input{
			HoldingID:  h.ID,
			Regime:     h.Regime,
			Start:      rDate,
			End:        maturity,
			Today:      today,
			AnnualRate: h.AnnualRate,
			Principal:  remaining,
			Calendar:   cal,
			Variations: variations,
		})
		if err != nil {
			return nil, err
		}
		points = append(points, segment.Points...)
		gaps = append(gaps, segment.Gaps...)
	}

	// Maturity is a deemed full redemption even without an explicit event
	if !closed && !today.Before(maturity) {
		closed = true
	}

	summary := domain.PositionSummary{
		HoldingID:  h.ID,
		UpdatedAt:  points[len(points)-1].Date,
		Redeemed:   redeemed,
		GrossYield: sumYields(points),
		Status:     domain.PositionActive,
		Balance:    points[len(points)-1].Value,
	}
	if closed {
		summary.Status = domain.PositionClosed
		summary.Balance = decimal.Zero
	}

	return &Result{Points: points, Summary: summary, Gaps: gaps}, nil
}

// truncateBefore keeps only the points strictly before cutoff; everything at
// or after it is stale once a redemption lands there
func truncateBefore(points []domain.ValuationPoint, cutoff time.Time) []domain.ValuationPoint {
	for i, p := range points {
		if !p.Date.Before(cutoff) {
			return points[:i]
		}
	}
	return points
}

// truncateDatesBefore keeps only the dates strictly before cutoff. Gap days
// at or after a redemption are re-reported by the re-projected segment, so
// the stale entries go the same way the stale points do
func truncateDatesBefore(dates []time.Time, cutoff time.Time) []time.Time {
	for i, d := range dates {
		if !d.Before(cutoff) {
			return dates[:i]
		}
	}
	return dates
}

func sumYields(points []domain.ValuationPoint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Yield)
	}
	return total
}

func indicatorLabel(h *domain.Holding) string {
	if code := h.Regime.IndicatorCode(); code != "" {
		return code
	}
	return string(h.Regime)
}
