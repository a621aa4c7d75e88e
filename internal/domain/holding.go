package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Regime identifies how a fixed-income holding accrues yield
type Regime string

const (
	RegimeCDI  Regime = "CDI"   // percentage of the daily CDI factor
	RegimePre  Regime = "Pré"   // fixed annual rate, 252 business-day convention
	RegimeIPCA Regime = "IPCA+" // inflation reference (VNA) plus a fixed annual rate
)

// ParseRegime validates a regime string at input time
// Returns InvalidRegimeError for anything outside the closed set
func ParseRegime(s string) (Regime, error) {
	switch Regime(s) {
	case RegimeCDI, RegimePre, RegimeIPCA:
		return Regime(s), nil
	}
	return "", &InvalidRegimeError{Regime: s}
}

// IndicatorCode returns the rate-series indicator code the regime compounds on
// Pré holdings accrue a constant daily factor and need no external series
func (r Regime) IndicatorCode() string {
	switch r {
	case RegimeCDI:
		return "CDI"
	case RegimeIPCA:
		return "VNA"
	}
	return ""
}

// Holding represents one fixed-income purchase (an "aporte") in the domain layer
// Immutable once created: redemptions are separate events and never alter this record
type Holding struct {
	ID           uuid.UUID
	Broker       string
	Issuer       string
	Kind         string // CDB, LCA, Tesouro Direto...
	Form         string
	Regime       Regime
	PurchaseDate time.Time
	MaturityDate time.Time
	AnnualRate   float64 // contracted rate as a decimal fraction (0.12 = 12% a.a., or 1.0 = 100% of CDI)
	Principal    decimal.Decimal
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if _, err := ParseRegime(string(h.Regime)); err != nil {
		return err
	}

	if h.PurchaseDate.IsZero() || h.MaturityDate.IsZero() {
		return errors.New("purchase and maturity dates are required")
	}

	if !h.PurchaseDate.Before(h.MaturityDate) {
		return errors.New("purchase date must be before maturity date")
	}

	if h.AnnualRate <= 0 {
		return errors.New("annual rate must be positive")
	}

	if h.Principal.LessThanOrEqual(decimal.Zero) {
		return errors.New("principal must be positive")
	}

	return nil
}
