package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// rateSeriesRepository implements domain.RateSeries on top of the cotacoes
// table, where the indicator ingestion jobs store published daily variations
type rateSeriesRepository struct {
	db *DB
}

// NewRateSeriesRepository creates a rate-series provider backed by cotacoes
func NewRateSeriesRepository(db *DB) domain.RateSeries {
	return &rateSeriesRepository{db: db}
}

// DailyVariation returns the indicator's published variations in [start, end).
// Coverage is sparse: days without a published value are simply absent
func (r *rateSeriesRepository) DailyVariation(ctx context.Context, indicator string, start, end time.Time) (map[time.Time]float64, error) {
	query := `
		SELECT data, variacao
		FROM cotacoes
		WHERE codigo = $1
		  AND data >= $2
		  AND data < $3
		  AND variacao IS NOT NULL
		ORDER BY data
	`

	rows, err := r.db.QueryContext(ctx, query, indicator, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s variations: %w", indicator, err)
	}
	defer rows.Close()

	variations := make(map[time.Time]float64)
	for rows.Next() {
		var date time.Time
		var variation float64
		if err := rows.Scan(&date, &variation); err != nil {
			return nil, fmt.Errorf("failed to scan %s variation: %w", indicator, err)
		}
		variations[domain.DayOf(date)] = variation
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s variations: %w", indicator, err)
	}

	return variations, nil
}
