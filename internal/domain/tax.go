package domain

import "github.com/shopspring/decimal"

// IncomeTaxRate returns the regressive income-tax bracket applicable to a
// fixed-income yield after the given number of calendar days held.
// Illustrative lookup only, no tax is computed or withheld in this module
func IncomeTaxRate(daysHeld int) float64 {
	switch {
	case daysHeld <= 180:
		return 0.225
	case daysHeld <= 360:
		return 0.20
	case daysHeld <= 720:
		return 0.175
	default:
		return 0.15
	}
}

// IncomeTax returns the bracket tax due on a gross yield held for daysHeld
// calendar days. A non-positive yield carries no tax
func IncomeTax(grossYield decimal.Decimal, daysHeld int) decimal.Decimal {
	if grossYield.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return grossYield.Mul(decimal.NewFromFloat(IncomeTaxRate(daysHeld)))
}
