package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// valuationRepository implements domain.ValuationRepository
type valuationRepository struct {
	db *DB
}

// NewValuationRepository creates a new valuation repository
func NewValuationRepository(db *DB) domain.ValuationRepository {
	return &valuationRepository{db: db}
}

// ReplaceSeries atomically replaces a holding's entire valuation series.
// The series is derived data: it is always deleted and reinserted whole
// inside one transaction, never patched row by row
func (r *valuationRepository) ReplaceSeries(ctx context.Context, holdingID uuid.UUID, points []domain.ValuationPoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patrimonio_rf WHERE id_titulo = $1`, holdingID); err != nil {
		return fmt.Errorf("failed to clear valuation series: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO patrimonio_rf (id_titulo, data, valor, rendimento, taxa)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare valuation insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.ExecContext(ctx,
			holdingID,
			p.Date,
			p.Value.String(),
			p.Yield.String(),
			p.Factor,
		)
		if err != nil {
			return fmt.Errorf("failed to insert valuation point for %s: %w", p.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit valuation series: %w", err)
	}
	return nil
}

// ListByHolding retrieves a holding's valuation points in ascending date order
func (r *valuationRepository) ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]domain.ValuationPoint, error) {
	query := `
		SELECT id_titulo, data, valor, rendimento, taxa
		FROM patrimonio_rf
		WHERE id_titulo = $1
		ORDER BY data
	`

	rows, err := r.db.QueryContext(ctx, query, holdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuation points: %w", err)
	}
	defer rows.Close()

	var points []domain.ValuationPoint
	for rows.Next() {
		var p domain.ValuationPoint
		var valueStr, yieldStr string
		if err := rows.Scan(&p.HoldingID, &p.Date, &valueStr, &yieldStr, &p.Factor); err != nil {
			return nil, fmt.Errorf("failed to scan valuation point: %w", err)
		}

		if p.Value, err = decimal.NewFromString(valueStr); err != nil {
			return nil, fmt.Errorf("failed to parse valor: %w", err)
		}
		if p.Yield, err = decimal.NewFromString(yieldStr); err != nil {
			return nil, fmt.Errorf("failed to parse rendimento: %w", err)
		}
		p.Date = domain.DayOf(p.Date)

		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate valuation points: %w", err)
	}

	return points, nil
}

// DeleteByHolding removes all valuation points of a holding
func (r *valuationRepository) DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM patrimonio_rf WHERE id_titulo = $1`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete valuation series: %w", err)
	}
	return nil
}
