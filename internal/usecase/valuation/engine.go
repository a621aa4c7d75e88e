package valuation

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// Standard annualization denominator for Brazilian fixed income: rates are
// quoted per 252 business days
const annualizationDays = 252

// Input carries everything a single-segment projection needs. Market data is
// prefetched and handed in as an immutable snapshot, so the engine performs
// no I/O and is a pure function of its input
type Input struct {
	HoldingID  uuid.UUID
	Regime     domain.Regime
	Start      time.Time // inclusive
	End        time.Time // exclusive: a maturity or redemption boundary earns nothing
	Today      time.Time
	AnnualRate float64
	Principal  decimal.Decimal
	Calendar   domain.Calendar
	Variations map[time.Time]float64 // sparse indicator series keyed by domain.DayOf dates
}

// Projection is the engine output: the valuation series plus the business
// days inside the covered range on which the indicator published no value
type Projection struct {
	Points []domain.ValuationPoint
	Gaps   []time.Time
}

// Project computes the day-by-day value, incremental yield and applied daily
// factor of one fixed-income segment over [Start, End).
//
// CDI:   factor(d) = 1 + variation(d) × rate, on series-covered days only
// Pré:   factor    = (1 + rate)^(1/252), on every calendar business day
// IPCA+: factor(d) = variation(d) × (1 + rate)^(1/252), series-covered days
//
// value(i) = principal × Π factor(k≤i); yield(i) = value(i) − value(i−1),
// with the first day's predecessor defined as the principal itself
func Project(in Input) (*Projection, error) {
	start := domain.DayOf(in.Start)
	end := domain.DayOf(in.End)
	today := domain.DayOf(in.Today)

	var (
		days    []time.Time
		factors []float64
		gaps    []time.Time
	)

	switch in.Regime {
	case domain.RegimePre:
		// A Pré projection has no external series to run out of, so a future
		// maturity must be clamped: today is still valued, nothing beyond it
		horizon := end
		if horizon.After(today) {
			horizon = today.AddDate(0, 0, 1)
		}
		days = in.Calendar.BusinessDaysBetween(start, horizon)
		fixed := math.Pow(1+in.AnnualRate, 1.0/annualizationDays)
		factors = make([]float64, len(days))
		for i := range factors {
			factors[i] = fixed
		}

	case domain.RegimeCDI:
		days = seriesDays(in.Variations, start, end)
		factors = make([]float64, len(days))
		for i, d := range days {
			factors[i] = 1 + in.Variations[d]*in.AnnualRate
		}
		gaps = gapDays(in.Calendar, start, days)

	case domain.RegimeIPCA:
		days = seriesDays(in.Variations, start, end)
		fixed := math.Pow(1+in.AnnualRate, 1.0/annualizationDays)
		factors = make([]float64, len(days))
		for i, d := range days {
			factors[i] = in.Variations[d] * fixed
		}
		gaps = gapDays(in.Calendar, start, days)

	default:
		return nil, &domain.InvalidRegimeError{Regime: string(in.Regime)}
	}

	// The cumulative factor is carried as float64, mirroring the indicator
	// series; values cross into decimal at the money boundary
	points := make([]domain.ValuationPoint, 0, len(days))
	cumulative := 1.0
	previous := in.Principal
	for i, day := range days {
		cumulative *= factors[i]
		value := in.Principal.Mul(decimal.NewFromFloat(cumulative))
		points = append(points, domain.ValuationPoint{
			HoldingID: in.HoldingID,
			Date:      day,
			Value:     value,
			Yield:     value.Sub(previous),
			Factor:    factors[i],
		})
		previous = value
	}

	return &Projection{Points: points, Gaps: gaps}, nil
}

// seriesDays returns the ascending series-covered days within [start, end)
func seriesDays(variations map[time.Time]float64, start, end time.Time) []time.Time {
	days := make([]time.Time, 0, len(variations))
	for d := range variations {
		if !d.Before(start) && d.Before(end) {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// gapDays lists the business days the indicator skipped inside the covered
// range. Days past the last published value are not gaps, just data that
// does not exist yet
func gapDays(cal domain.Calendar, start time.Time, covered []time.Time) []time.Time {
	if len(covered) == 0 {
		return nil
	}

	have := make(map[time.Time]struct{}, len(covered))
	for _, d := range covered {
		have[d] = struct{}{}
	}

	last := covered[len(covered)-1]
	var missing []time.Time
	for _, d := range cal.BusinessDaysBetween(start, last.AddDate(0, 0, 1)) {
		if _, ok := have[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}
