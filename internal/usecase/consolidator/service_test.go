package consolidator

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rmfontes/carteira-backend/internal/domain"
)

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository for testing
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Create(ctx context.Context, redemption *domain.Redemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRedemptionRepository) ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]*domain.Redemption, error) {
	args := m.Called(ctx, holdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error {
	args := m.Called(ctx, holdingID)
	return args.Error(0)
}

// MockValuationRepository is a mock implementation of ValuationRepository for testing
type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) ReplaceSeries(ctx context.Context, holdingID uuid.UUID, points []domain.ValuationPoint) error {
	args := m.Called(ctx, holdingID, points)
	return args.Error(0)
}

func (m *MockValuationRepository) ListByHolding(ctx context.Context, holdingID uuid.UUID) ([]domain.ValuationPoint, error) {
	args := m.Called(ctx, holdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValuationPoint), args.Error(1)
}

func (m *MockValuationRepository) DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error {
	args := m.Called(ctx, holdingID)
	return args.Error(0)
}

// MockSummaryRepository is a mock implementation of SummaryRepository for testing
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Upsert(ctx context.Context, summary *domain.PositionSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryRepository) GetByHolding(ctx context.Context, holdingID uuid.UUID) (*domain.PositionSummary, error) {
	args := m.Called(ctx, holdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PositionSummary), args.Error(1)
}

func (m *MockSummaryRepository) List(ctx context.Context) ([]*domain.PositionSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PositionSummary), args.Error(1)
}

func (m *MockSummaryRepository) DeleteByHolding(ctx context.Context, holdingID uuid.UUID) error {
	args := m.Called(ctx, holdingID)
	return args.Error(0)
}

// MockRateSeries is a mock implementation of RateSeries for testing
type MockRateSeries struct {
	mock.Mock
}

func (m *MockRateSeries) DailyVariation(ctx context.Context, indicator string, start, end time.Time) (map[time.Time]float64, error) {
	args := m.Called(ctx, indicator, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Time]float64), args.Error(1)
}

type weekdayCalendar struct{}

func (weekdayCalendar) BusinessDaysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for d := domain.DayOf(start); d.Before(domain.DayOf(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

func (weekdayCalendar) PreviousBusinessDay(d time.Time) time.Time {
	d = domain.DayOf(d).AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

type serviceMocks struct {
	holdings    *MockHoldingRepository
	redemptions *MockRedemptionRepository
	valuations  *MockValuationRepository
	summaries   *MockSummaryRepository
	rates       *MockRateSeries
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		holdings:    new(MockHoldingRepository),
		redemptions: new(MockRedemptionRepository),
		valuations:  new(MockValuationRepository),
		summaries:   new(MockSummaryRepository),
		rates:       new(MockRateSeries),
	}
	svc := NewService(m.holdings, m.redemptions, m.valuations, m.summaries,
		weekdayCalendar{}, m.rates, log.Logger{Level: log.PanicLevel, Writer: log.IOWriter{Writer: io.Discard}})
	return svc, m
}

func preHolding() *domain.Holding {
	return &domain.Holding{
		ID:           uuid.New(),
		Broker:       "XP",
		Issuer:       "Banco Inter",
		Kind:         "CDB",
		Regime:       domain.RegimePre,
		PurchaseDate: domain.Day(2024, time.January, 2),
		MaturityDate: domain.Day(2025, time.January, 2),
		AnnualRate:   0.11,
		Principal:    decimal.NewFromInt(10000),
	}
}

func TestAddHolding_ProjectsAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	h := preHolding()
	today := domain.Day(2024, time.June, 3)

	m.holdings.On("Create", mock.Anything, h).Return(nil)
	m.valuations.On("ReplaceSeries", mock.Anything, h.ID, mock.Anything).Return(nil)
	m.summaries.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.AddHolding(ctx, h, today)
	require.NoError(t, err)

	assert.Equal(t, domain.PositionActive, summary.Status)
	assert.Equal(t, today, summary.UpdatedAt)
	assert.True(t, summary.Balance.GreaterThan(h.Principal))

	m.holdings.AssertExpectations(t)
	m.valuations.AssertExpectations(t)
	m.summaries.AssertExpectations(t)
}

func TestAddHolding_RolledBackWhenDerivedWriteFails(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	h := preHolding()

	m.holdings.On("Create", mock.Anything, h).Return(nil)
	m.valuations.On("ReplaceSeries", mock.Anything, h.ID, mock.Anything).Return(errors.New("connection reset"))
	m.valuations.On("DeleteByHolding", mock.Anything, h.ID).Return(nil)
	m.summaries.On("DeleteByHolding", mock.Anything, h.ID).Return(nil)
	m.redemptions.On("DeleteByHolding", mock.Anything, h.ID).Return(nil)
	m.holdings.On("Delete", mock.Anything, h.ID).Return(nil)

	_, err := svc.AddHolding(ctx, h, domain.Day(2024, time.June, 3))
	require.Error(t, err)

	// The half-created holding is removed along with any partial derived rows
	m.holdings.AssertCalled(t, "Delete", mock.Anything, h.ID)
	m.summaries.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAddHolding_RejectsUnknownRegimeBeforePersisting(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	h := preHolding()
	h.Regime = "SELIC"

	_, err := svc.AddHolding(ctx, h, domain.Day(2024, time.June, 3))

	var regimeErr *domain.InvalidRegimeError
	require.ErrorAs(t, err, &regimeErr)
	m.holdings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddRedemption_PersistsAfterSuccessfulReplay(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	h := preHolding()
	today := domain.Day(2024, time.June, 28)
	amount := decimal.NewFromInt(3000)

	m.holdings.On("GetByID", mock.Anything, h.ID).Return(h, nil)
	m.summaries.On("GetByHolding", mock.Anything, h.ID).Return(nil, errors.New("not found"))
	m.redemptions.On("ListByHolding", mock.Anything, h.ID).Return([]*domain.Redemption{}, nil)
	m.redemptions.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.valuations.On("ReplaceSeries", mock.Anything, h.ID, mock.Anything).Return(nil)
	m.summaries.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.AddRedemption(ctx, h.ID, domain.Day(2024, time.June, 3), amount, today)
	require.NoError(t, err)

	assert.Equal(t, domain.PositionActive, summary.Status)
	assert.True(t, summary.Redeemed.Equal(amount))

	m.redemptions.AssertExpectations(t)
	m.valuations.AssertExpectations(t)
}

func TestAddRedemption_RejectedOnClosedHolding(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	h := preHolding()

	m.holdings.On("GetByID", mock.Anything, h.ID).Return(h, nil)
	m.summaries.On("GetByHolding", mock.Anything, h.ID).Return(&domain.PositionSummary{
		HoldingID: h.ID,
		Status:    domain.PositionClosed,
	}, nil)

	_, err := svc.AddRedemption(ctx, h.ID, domain.Day(2024, time.June, 3),
		decimal.NewFromInt(100), domain.Day(2024, time.June, 28))

	var ordErr *domain.OrderingViolationError
	require.ErrorAs(t, err, &ordErr)
	m.redemptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddRedemption_NothingPersistedOnDataGap(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	h := preHolding()
	h.Regime = domain.RegimeCDI
	h.AnnualRate = 1.0

	// The CDI series is missing the business day before the redemption
	variations := make(map[time.Time]float64)
	for _, d := range (weekdayCalendar{}).BusinessDaysBetween(h.PurchaseDate, h.MaturityDate) {
		if !d.Equal(domain.Day(2024, time.May, 31)) {
			variations[d] = 0.0004
		}
	}

	m.holdings.On("GetByID", mock.Anything, h.ID).Return(h, nil)
	m.summaries.On("GetByHolding", mock.Anything, h.ID).Return(nil, errors.New("not found"))
	m.redemptions.On("ListByHolding", mock.Anything, h.ID).Return([]*domain.Redemption{}, nil)
	m.rates.On("DailyVariation", mock.Anything, "CDI", h.PurchaseDate, h.MaturityDate).Return(variations, nil)

	_, err := svc.AddRedemption(ctx, h.ID, domain.Day(2024, time.June, 3),
		decimal.NewFromInt(100), domain.Day(2024, time.June, 28))

	var gapErr *domain.DataGapError
	require.ErrorAs(t, err, &gapErr)
	assert.Equal(t, domain.Day(2024, time.May, 31), gapErr.Date)
	m.redemptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.valuations.AssertNotCalled(t, "ReplaceSeries", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsolidateAll_ContinuesPastFailingHolding(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	today := domain.Day(2024, time.June, 28)

	broken := preHolding()
	broken.Regime = domain.RegimeCDI
	broken.AnnualRate = 1.0
	healthy := preHolding()

	m.holdings.On("List", mock.Anything).Return([]*domain.Holding{broken, healthy}, nil)
	m.redemptions.On("ListByHolding", mock.Anything, broken.ID).Return([]*domain.Redemption{}, nil)
	m.redemptions.On("ListByHolding", mock.Anything, healthy.ID).Return([]*domain.Redemption{}, nil)

	// No CDI data at all: the broken holding cannot produce a single point
	m.rates.On("DailyVariation", mock.Anything, "CDI", broken.PurchaseDate, broken.MaturityDate).
		Return(map[time.Time]float64{}, nil)

	m.valuations.On("ReplaceSeries", mock.Anything, healthy.ID, mock.Anything).Return(nil)
	m.summaries.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	err := svc.ConsolidateAll(ctx, today)

	// The batch reports the failure but the healthy holding was still written
	require.Error(t, err)
	var gapErr *domain.DataGapError
	assert.ErrorAs(t, err, &gapErr)
	m.valuations.AssertCalled(t, "ReplaceSeries", mock.Anything, healthy.ID, mock.Anything)
	m.valuations.AssertNotCalled(t, "ReplaceSeries", mock.Anything, broken.ID, mock.Anything)
}

func TestPositions_ListsSummaries(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	want := []*domain.PositionSummary{
		{HoldingID: uuid.New(), Status: domain.PositionActive},
	}
	m.summaries.On("List", mock.Anything).Return(want, nil)

	got, err := svc.Positions(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListHoldings_ListsRegisteredHoldings(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	want := []*domain.Holding{preHolding()}
	m.holdings.On("List", mock.Anything).Return(want, nil)

	got, err := svc.ListHoldings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRemoveHolding_DeletesDerivedDataFirst(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()
	id := uuid.New()

	m.valuations.On("DeleteByHolding", mock.Anything, id).Return(nil)
	m.summaries.On("DeleteByHolding", mock.Anything, id).Return(nil)
	m.redemptions.On("DeleteByHolding", mock.Anything, id).Return(nil)
	m.holdings.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, svc.RemoveHolding(ctx, id))

	m.valuations.AssertExpectations(t)
	m.summaries.AssertExpectations(t)
	m.redemptions.AssertExpectations(t)
	m.holdings.AssertExpectations(t)
}
