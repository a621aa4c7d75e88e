// Package cli implements the carteira subcommands.
package cli

import (
	"github.com/phuslu/log"

	"github.com/rmfontes/carteira-backend/internal/adapter/calendar"
	"github.com/rmfontes/carteira-backend/internal/adapter/repository/postgres"
	"github.com/rmfontes/carteira-backend/internal/common"
	"github.com/rmfontes/carteira-backend/internal/usecase/consolidator"
)

// The calendar spans the full projection horizon of any reasonable holding
const (
	calendarFirstYear = 2015
	calendarLastYear  = 2045
)

// app wires configuration, database and the consolidator service for one
// command invocation
type app struct {
	cfg *common.Config
	db  *postgres.DB
	svc *consolidator.Service
	log log.Logger
}

func newApp(configPath string) (*app, error) {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := common.NewLogger(cfg.Logging.Level)

	db, err := postgres.NewDB(cfg.Database.ConnString())
	if err != nil {
		return nil, err
	}

	svc := consolidator.NewService(
		postgres.NewHoldingRepository(db),
		postgres.NewRedemptionRepository(db),
		postgres.NewValuationRepository(db),
		postgres.NewSummaryRepository(db),
		calendar.NewBrazil(calendarFirstYear, calendarLastYear),
		postgres.NewRateSeriesRepository(db),
		logger,
	)

	return &app{cfg: cfg, db: db, svc: svc, log: logger}, nil
}

func (a *app) Close() {
	a.db.Close()
}
