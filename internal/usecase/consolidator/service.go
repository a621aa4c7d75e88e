package consolidator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"github.com/rmfontes/carteira-backend/internal/domain"
	"github.com/rmfontes/carteira-backend/internal/usecase/replay"
)

// Service orchestrates holdings, redemption events and their derived
// valuation data. All computation happens in the pure replay/valuation
// layer; this service feeds it immutable snapshots and writes results back.
// The current date is always an explicit parameter, never the system clock
type Service struct {
	Holdings    domain.HoldingRepository
	Redemptions domain.RedemptionRepository
	Valuations  domain.ValuationRepository
	Summaries   domain.SummaryRepository
	Calendar    domain.Calendar
	Rates       domain.RateSeries
	Log         log.Logger
}

// NewService creates a new Service instance
func NewService(
	holdings domain.HoldingRepository,
	redemptions domain.RedemptionRepository,
	valuations domain.ValuationRepository,
	summaries domain.SummaryRepository,
	calendar domain.Calendar,
	rates domain.RateSeries,
	logger log.Logger,
) *Service {
	if logger.Writer == nil {
		logger.Writer = log.IOWriter{Writer: os.Stderr}
	}
	return &Service{
		Holdings:    holdings,
		Redemptions: redemptions,
		Valuations:  valuations,
		Summaries:   summaries,
		Calendar:    calendar,
		Rates:       rates,
		Log:         logger,
	}
}

// AddHolding validates and persists a new holding, projects its full
// purchase-to-maturity series and stores the derived valuation data
func (s *Service) AddHolding(ctx context.Context, h *domain.Holding, today time.Time) (*domain.PositionSummary, error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	variations, err := s.fetchVariations(ctx, h)
	if err != nil {
		return nil, err
	}

	res, err := replay.Run(h, nil, today, s.Calendar, variations)
	if err != nil {
		return nil, err
	}

	if err := s.Holdings.Create(ctx, h); err != nil {
		return nil, err
	}
	if err := s.writeBack(ctx, h.ID, res); err != nil {
		// A holding without its derived data must not survive a failed add
		if cleanupErr := s.RemoveHolding(ctx, h.ID); cleanupErr != nil {
			s.Log.Warn().
				Str("holding", h.ID.String()).
				Err(cleanupErr).
				Msg("could not remove holding after derived-data write failure")
		}
		return nil, err
	}
	s.logGaps(h, res.Gaps)

	return &res.Summary, nil
}

// AddRedemption registers a withdrawal against a holding and replays the
// holding's series from scratch. Nothing is persisted when the replay fails:
// a redemption that cannot be settled against the previous business day's
// value is rejected whole, never computed from a guessed balance
func (s *Service) AddRedemption(ctx context.Context, holdingID uuid.UUID, date time.Time, amount decimal.Decimal, today time.Time) (*domain.PositionSummary, error) {
	h, err := s.Holdings.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	if summary, err := s.Summaries.GetByHolding(ctx, holdingID); err == nil && summary.Status == domain.PositionClosed {
		return nil, &domain.OrderingViolationError{
			HoldingID: holdingID,
			Date:      domain.DayOf(date),
			Reason:    "holding is closed",
		}
	}

	redemption := &domain.Redemption{
		HoldingID: holdingID,
		Date:      domain.DayOf(date),
		Amount:    amount,
	}
	if err := redemption.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Redemptions.ListByHolding(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	variations, err := s.fetchVariations(ctx, h)
	if err != nil {
		return nil, err
	}

	res, err := replay.Run(h, append(existing, redemption), today, s.Calendar, variations)
	if err != nil {
		return nil, err
	}

	if err := s.Redemptions.Create(ctx, redemption); err != nil {
		return nil, err
	}
	if err := s.writeBack(ctx, holdingID, res); err != nil {
		return nil, err
	}
	s.logGaps(h, res.Gaps)

	return &res.Summary, nil
}

// ConsolidateAll replays every holding against the current market data.
// Holdings are independent, so one holding's failure is logged and reported
// without aborting the batch
func (s *Service) ConsolidateAll(ctx context.Context, today time.Time) error {
	holdings, err := s.Holdings.List(ctx)
	if err != nil {
		return err
	}

	var failures []error
	for _, h := range holdings {
		if err := s.consolidateHolding(ctx, h, today); err != nil {
			s.Log.Warn().
				Str("holding", h.ID.String()).
				Err(err).
				Msg("holding could not be consolidated")
			failures = append(failures, fmt.Errorf("holding %s: %w", h.ID, err))
		}
	}
	return errors.Join(failures...)
}

// Positions lists the consolidated position summaries
func (s *Service) Positions(ctx context.Context) ([]*domain.PositionSummary, error) {
	return s.Summaries.List(ctx)
}

// ListHoldings lists the registered holdings
func (s *Service) ListHoldings(ctx context.Context) ([]*domain.Holding, error) {
	return s.Holdings.List(ctx)
}

// RemoveHolding deletes a holding along with its redemptions and all
// derived valuation data
func (s *Service) RemoveHolding(ctx context.Context, holdingID uuid.UUID) error {
	if err := s.Valuations.DeleteByHolding(ctx, holdingID); err != nil {
		return err
	}
	if err := s.Summaries.DeleteByHolding(ctx, holdingID); err != nil {
		return err
	}
	if err := s.Redemptions.DeleteByHolding(ctx, holdingID); err != nil {
		return err
	}
	return s.Holdings.Delete(ctx, holdingID)
}

func (s *Service) consolidateHolding(ctx context.Context, h *domain.Holding, today time.Time) error {
	redemptions, err := s.Redemptions.ListByHolding(ctx, h.ID)
	if err != nil {
		return err
	}

	variations, err := s.fetchVariations(ctx, h)
	if err != nil {
		return err
	}

	res, err := replay.Run(h, redemptions, today, s.Calendar, variations)
	if err != nil {
		return err
	}

	if err := s.writeBack(ctx, h.ID, res); err != nil {
		return err
	}
	s.logGaps(h, res.Gaps)
	return nil
}

// writeBack atomically swaps the derived data: the series is a pure function
// of holding + redemptions + market data, so it is always rewritten whole
func (s *Service) writeBack(ctx context.Context, holdingID uuid.UUID, res *replay.Result) error {
	if err := s.Valuations.ReplaceSeries(ctx, holdingID, res.Points); err != nil {
		return err
	}
	return s.Summaries.Upsert(ctx, &res.Summary)
}

func (s *Service) fetchVariations(ctx context.Context, h *domain.Holding) (map[time.Time]float64, error) {
	code := h.Regime.IndicatorCode()
	if code == "" {
		return nil, nil
	}
	variations, err := s.Rates.DailyVariation(ctx, code, domain.DayOf(h.PurchaseDate), domain.DayOf(h.MaturityDate))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s daily variations: %w", code, err)
	}
	return variations, nil
}

func (s *Service) logGaps(h *domain.Holding, gaps []time.Time) {
	for _, d := range gaps {
		s.Log.Warn().
			Str("holding", h.ID.String()).
			Str("indicator", h.Regime.IndicatorCode()).
			Str("date", d.Format("2006-01-02")).
			Msg("no indicator value for business day, valuation point skipped")
	}
}
