package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// Status flags follow the original schema: 1 active, 0 closed
const (
	statusActive = 1
	statusClosed = 0
)

// summaryRepository implements domain.SummaryRepository
type summaryRepository struct {
	db *DB
}

// NewSummaryRepository creates a new position-summary repository
func NewSummaryRepository(db *DB) domain.SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert creates or replaces a holding's position summary
func (r *summaryRepository) Upsert(ctx context.Context, summary *domain.PositionSummary) error {
	query := `
		INSERT INTO carteira_rf (id_titulo, data_atualizacao, saldo, resgates, rendimentos_bruto, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id_titulo) DO UPDATE SET
			data_atualizacao = EXCLUDED.data_atualizacao,
			saldo = EXCLUDED.saldo,
			resgates = EXCLUDED.resgates,
			rendimentos_bruto = EXCLUDED.rendimentos_bruto,
			status = EXCLUDED.status
	`

	status := statusActive
	if summary.Status == domain.PositionClosed {
		status = statusClosed
	}

	_, err := r.db.ExecContext(ctx, query,
		summary.HoldingID,
		summary.UpdatedAt,
		summary.Balance.String(),
		summary.Redeemed.String(),
		summary.GrossYield.String(),
		status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position summary: %w", err)
	}

	return nil
}

// GetByHolding retrieves a holding's position summary
func (r *summaryRepository) GetByHolding(ctx context.Context, holdingID uuid.UUID) (*domain.PositionSummary, error) {
	query := `
		SELECT id_titulo, data_atualizacao, saldo, resgates, rendimentos_bruto, status
		FROM carteira_rf
		WHERE id_titulo = $1
	`

	summary, err := scanSummary(r.db.QueryRowContext(ctx, query, holdingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no position summary for holding %s: %w", holdingID, err)
		}
		return nil, fmt.Errorf("failed to get position summary: %w", err)
	}

	return summary, nil
}

// List retrieves all position summaries
func (r *summaryRepository) List(ctx context.Context) ([]*domain.PositionSummary, error) {
	query := `
		SELECT id_titulo, data_atualizacao, saldo, resgates, rendimentos_bruto, status
		FROM carteira_rf
		ORDER BY data_atualizacao DESC, id_titulo
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list position summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.PositionSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate position summaries: %w", err)
	}

	return summaries, nil
}

// DeleteByHolding removes a holding's position summary
func (r *summaryRepository) DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carteira_rf WHERE id_titulo = $1`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete position summary: %w", err)
	}
	return nil
}

func scanSummary(row rowScanner) (*domain.PositionSummary, error) {
	var (
		summary       domain.PositionSummary
		balanceStr    string
		redeemedStr   string
		grossYieldStr string
		status        int
	)

	err := row.Scan(
		&summary.HoldingID,
		&summary.UpdatedAt,
		&balanceStr,
		&redeemedStr,
		&grossYieldStr,
		&status,
	)
	if err != nil {
		return nil, err
	}

	if summary.Balance, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("failed to parse saldo: %w", err)
	}
	if summary.Redeemed, err = decimal.NewFromString(redeemedStr); err != nil {
		return nil, fmt.Errorf("failed to parse resgates: %w", err)
	}
	if summary.GrossYield, err = decimal.NewFromString(grossYieldStr); err != nil {
		return nil, fmt.Errorf("failed to parse rendimentos_bruto: %w", err)
	}

	summary.UpdatedAt = domain.DayOf(summary.UpdatedAt)
	summary.Status = domain.PositionActive
	if status == statusClosed {
		summary.Status = domain.PositionClosed
	}

	return &summary, nil
}
