package domain

import (
	"context"

	"github.com/google/uuid"
)

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// Create persists a new holding
	Create(ctx context.Context, holding *Holding) error

	// GetByID retrieves a holding by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// List retrieves all holdings ordered by purchase date
	List(ctx context.Context) ([]*Holding, error)

	// Delete removes a holding
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedemptionRepository defines the interface for redemption persistence operations
type RedemptionRepository interface {
	// Create persists a new redemption event
	Create(ctx context.Context, redemption *Redemption) error

	// ListByHolding retrieves a holding's redemptions in ascending date order
	ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]*Redemption, error)

	// DeleteByHolding removes all redemptions of a holding
	DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error
}

// ValuationRepository defines the interface for valuation-point persistence operations
// The series is always rewritten whole: it is a pure function of the holding,
// its redemptions and the market data, so there is no partial update path
type ValuationRepository interface {
	// ReplaceSeries atomically replaces a holding's entire valuation series
	ReplaceSeries(ctx context.Context, holdingID uuid.UUID, points []ValuationPoint) error

	// ListByHolding retrieves a holding's valuation points in ascending date order
	ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]ValuationPoint, error)

	// DeleteByHolding removes all valuation points of a holding
	DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error
}

// SummaryRepository defines the interface for position-summary persistence operations
type SummaryRepository interface {
	// Upsert creates or replaces a holding's position summary
	Upsert(ctx context.Context, summary *PositionSummary) error

	// GetByHolding retrieves a holding's position summary
	GetByHolding(ctx context.Context, holdingID uuid.UUID) (*PositionSummary, error)

	// List retrieves all position summaries
	List(ctx context.Context) ([]*PositionSummary, error)

	// DeleteByHolding removes a holding's position summary
	DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error
}
