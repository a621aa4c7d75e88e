package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// redemptionRepository implements domain.RedemptionRepository
type redemptionRepository struct {
	db *DB
}

// NewRedemptionRepository creates a new redemption repository
func NewRedemptionRepository(db *DB) domain.RedemptionRepository {
	return &redemptionRepository{db: db}
}

// Create persists a new redemption event
func (r *redemptionRepository) Create(ctx context.Context, redemption *domain.Redemption) error {
	query := `
		INSERT INTO resgates_rf (id_titulo, data, valor)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query,
		redemption.HoldingID,
		redemption.Date,
		redemption.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert redemption: %w", err)
	}

	return nil
}

// ListByHolding retrieves a holding's redemptions in ascending date order
func (r *redemptionRepository) ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]*domain.Redemption, error) {
	query := `
		SELECT id_titulo, data, valor
		FROM resgates_rf
		WHERE id_titulo = $1
		ORDER BY data
	`

	rows, err := r.db.QueryContext(ctx, query, holdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []*domain.Redemption
	for rows.Next() {
		var red domain.Redemption
		var amountStr string
		if err := rows.Scan(&red.HoldingID, &red.Date, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valor: %w", err)
		}
		red.Amount = amount
		red.Date = domain.DayOf(red.Date)

		redemptions = append(redemptions, &red)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate redemptions: %w", err)
	}

	return redemptions, nil
}

// DeleteByHolding removes all redemptions of a holding
func (r *redemptionRepository) DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resgates_rf WHERE id_titulo = $1`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete redemptions: %w", err)
	}
	return nil
}
