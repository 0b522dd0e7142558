package analytics

import (
	"context"
	"testing"
	"time"

	"brewtrack/internal/common"
	"brewtrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByPeriod(ctx context.Context, startDate, endDate time.Time) ([]*models.Order, error) {
	args := m.Called(ctx, startDate, endDate)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *MockOrderRepository) CountsByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockOrderRepository) RevenueExcludingCancelled(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderRepository) CountToday(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) TopSellingProduct(ctx context.Context) (*models.TopProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopProduct), args.Error(1)
}

func TestRefresh_AssemblesAllFourAggregates(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo, nil)

	top := &models.TopProduct{ProductID: uuid.New(), Name: "Espresso", TotalSold: 12}
	repo.On("CountsByStatus", mock.Anything).Return(map[string]int{models.StatusPending: 2, models.StatusCancelled: 1}, nil)
	repo.On("RevenueExcludingCancelled", mock.Anything).Return(decimal.RequireFromString("40.00"), nil)
	repo.On("CountToday", mock.Anything).Return(3, nil)
	repo.On("TopSellingProduct", mock.Anything).Return(top, nil)

	stats, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.CountsByStatus[models.StatusPending])
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, 3, stats.OrdersToday)
	assert.Equal(t, "Espresso", stats.TopProduct.Name)
}

func TestRefresh_AnyQueryFailureFailsTheWholeCall(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo, nil)

	repo.On("CountsByStatus", mock.Anything).Return(map[string]int{}, nil)
	repo.On("RevenueExcludingCancelled", mock.Anything).Return(decimal.Zero, assert.AnError)
	repo.On("CountToday", mock.Anything).Return(0, nil)
	repo.On("TopSellingProduct", mock.Anything).Return(nil, nil)

	_, err := svc.Refresh(context.Background())
	var aggErr *common.AggregationError
	assert.ErrorAs(t, err, &aggErr)
}
