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

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// Create persists a new holding
func (r *holdingRepository) Create(ctx context.Context, h *domain.Holding) error {
	query := `
		INSERT INTO aportes_renda_fixa
			(id_titulo, corretora, emissor, tipo, forma, indexador,
			 data_compra, data_vencimento, taxa, valor_aplicado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Broker,
		h.Issuer,
		h.Kind,
		h.Form,
		string(h.Regime),
		h.PurchaseDate,
		h.MaturityDate,
		h.AnnualRate,
		h.Principal.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `
		SELECT id_titulo, corretora, emissor, tipo, forma, indexador,
		       data_compra, data_vencimento, taxa, valor_aplicado
		FROM aportes_renda_fixa
		WHERE id_titulo = $1
	`

	h, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("holding %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	return h, nil
}

// List retrieves all holdings ordered by purchase date
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT id_titulo, corretora, emissor, tipo, forma, indexador,
		       data_compra, data_vencimento, taxa, valor_aplicado
		FROM aportes_renda_fixa
		ORDER BY data_compra, id_titulo
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// Delete removes a holding
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM aportes_renda_fixa WHERE id_titulo = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (*domain.Holding, error) {
	var (
		h            domain.Holding
		regimeStr    string
		principalStr string
	)

	err := row.Scan(
		&h.ID,
		&h.Broker,
		&h.Issuer,
		&h.Kind,
		&h.Form,
		&regimeStr,
		&h.PurchaseDate,
		&h.MaturityDate,
		&h.AnnualRate,
		&principalStr,
	)
	if err != nil {
		return nil, err
	}

	regime, err := domain.ParseRegime(regimeStr)
	if err != nil {
		return nil, err
	}
	h.Regime = regime

	principal, err := decimal.NewFromString(principalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse valor_aplicado: %w", err)
	}
	h.Principal = principal

	h.PurchaseDate = domain.DayOf(h.PurchaseDate)
	h.MaturityDate = domain.DayOf(h.MaturityDate)

	return &h, nil
}
