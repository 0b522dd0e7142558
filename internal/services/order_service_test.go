package services

import (
	"context"
	"testing"
	"time"

	"brewtrack/internal/common"
	"brewtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and collaborators
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

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListByCategoryName(ctx context.Context, categoryName string, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, categoryName, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyOrderCreated(order *models.Order) {
	m.Called(order)
}

func (m *MockNotifier) NotifyStatusChanged(order *models.Order) {
	m.Called(order)
}

func availableProduct(id uuid.UUID) *models.Product {
	return &models.Product{ID: id, Name: "Espresso", Price: decimal.RequireFromString("5.50"), Available: true}
}

func validDraft(productID, otherID uuid.UUID) *models.OrderDraft {
	return &models.OrderDraft{
		CustomerName:  "Maria Silva",
		CustomerPhone: "11999990000",
		Lines: []models.DraftLine{
			{ProductID: productID, Quantity: 2, UnitPrice: decimal.RequireFromString("5.50")},
			{ProductID: otherID, Quantity: 1, UnitPrice: decimal.RequireFromString("3.00")},
		},
	}
}

func TestCreateOrder_ComputesTotalFromLineSubtotals(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	notifier := new(MockNotifier)
	svc := NewOrderService(orderRepo, productRepo, notifier)

	productID := uuid.New()
	otherID := uuid.New()
	productRepo.On("GetByID", mock.Anything, productID).Return(availableProduct(productID), nil)
	productRepo.On("GetByID", mock.Anything, otherID).Return(availableProduct(otherID), nil)

	var persisted *models.Order
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		persisted = args.Get(1).(*models.Order)
	}).Return(nil)
	orderRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&models.Order{Status: models.StatusPending}, nil)
	notifier.On("NotifyOrderCreated", mock.Anything).Return()

	_, err := svc.CreateOrder(context.Background(), validDraft(productID, otherID))
	assert.NoError(t, err)
	assert.NotNil(t, persisted)
	assert.True(t, persisted.Total.Equal(decimal.RequireFromString("14.00")), "total = %s", persisted.Total)
	assert.Len(t, persisted.Lines, 2)
	assert.True(t, persisted.Lines[0].Subtotal.Equal(decimal.RequireFromString("11.00")))
	assert.True(t, persisted.Lines[1].Subtotal.Equal(decimal.RequireFromString("3.00")))
	assert.Equal(t, models.StatusPending, persisted.Status)
	notifier.AssertCalled(t, "NotifyOrderCreated", mock.Anything)
}

func TestCreateOrder_RoundsTotalHalfUp(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	svc := NewOrderService(orderRepo, productRepo, nil)

	productID := uuid.New()
	productRepo.On("GetByID", mock.Anything, productID).Return(availableProduct(productID), nil)

	var persisted *models.Order
	orderRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(1).(*models.Order)
	}).Return(nil)
	orderRepo.On("GetByID", mock.Anything, mock.Anything).Return(&models.Order{}, nil)

	draft := &models.OrderDraft{
		CustomerName:  "Maria Silva",
		CustomerPhone: "11999990000",
		Lines: []models.DraftLine{
			{ProductID: productID, Quantity: 3, UnitPrice: decimal.RequireFromString("3.335")},
		},
	}
	_, err := svc.CreateOrder(context.Background(), draft)
	assert.NoError(t, err)
	// 3 * 3.335 = 10.005, rounded half-up to 10.01
	assert.True(t, persisted.Total.Equal(decimal.RequireFromString("10.01")), "total = %s", persisted.Total)
}

func TestCreateOrder_ValidationFailureWritesNothing(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	svc := NewOrderService(orderRepo, productRepo, nil)

	draft := &models.OrderDraft{
		CustomerName:  "M",
		CustomerPhone: "123",
		Lines:         []models.DraftLine{},
	}

	_, err := svc.CreateOrder(context.Background(), draft)
	var validationErr *common.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Violations, 3)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_LineViolationsAreOneIndexed(t *testing.T) {
	svc := NewOrderService(new(MockOrderRepository), new(MockProductRepository), nil)

	draft := &models.OrderDraft{
		CustomerName:  "Maria Silva",
		CustomerPhone: "11999990000",
		Lines: []models.DraftLine{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("2.00")},
			{ProductID: uuid.Nil, Quantity: 0, UnitPrice: decimal.Zero},
		},
	}

	_, err := svc.CreateOrder(context.Background(), draft)
	var validationErr *common.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	for _, violation := range validationErr.Violations {
		assert.Contains(t, violation, "line 2")
	}
}

func TestCreateOrder_UnknownProductIsNotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	svc := NewOrderService(orderRepo, productRepo, nil)

	productID := uuid.New()
	productRepo.On("GetByID", mock.Anything, productID).Return(nil, pgx.ErrNoRows)

	draft := &models.OrderDraft{
		CustomerName:  "Maria Silva",
		CustomerPhone: "11999990000",
		Lines:         []models.DraftLine{{ProductID: productID, Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")}},
	}

	_, err := svc.CreateOrder(context.Background(), draft)
	var notFoundErr *common.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_PersistenceFailureSurfacesAsPersistenceError(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	svc := NewOrderService(orderRepo, productRepo, nil)

	productID := uuid.New()
	otherID := uuid.New()
	productRepo.On("GetByID", mock.Anything, mock.Anything).Return(availableProduct(productID), nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := svc.CreateOrder(context.Background(), validDraft(productID, otherID))
	var persistenceErr *common.PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
}

func TestUpdateStatus_UnknownLiteralRejectedWithoutWrite(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockProductRepository), nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "not-a-real-status")
	var invalidErr *common.InvalidStatusError
	assert.ErrorAs(t, err, &invalidErr)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_MissingOrderIsNotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockProductRepository), nil)

	id := uuid.New()
	orderRepo.On("GetByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := svc.UpdateStatus(context.Background(), id, models.StatusReady)
	var notFoundErr *common.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestUpdateStatus_ForwardStepSucceedsAndNotifies(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notifier := new(MockNotifier)
	svc := NewOrderService(orderRepo, new(MockProductRepository), notifier)

	id := uuid.New()
	orderRepo.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id, Status: models.StatusPending}, nil).Once()
	orderRepo.On("UpdateStatus", mock.Anything, id, models.StatusPreparing, (*string)(nil)).Return(nil)
	orderRepo.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id, Status: models.StatusPreparing}, nil)
	notifier.On("NotifyStatusChanged", mock.Anything).Return()

	updated, err := svc.UpdateStatus(context.Background(), id, models.StatusPreparing)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)
	notifier.AssertCalled(t, "NotifyStatusChanged", mock.Anything)
}

func TestUpdateStatus_BackwardTransitionIsConflict(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockProductRepository), nil)

	id := uuid.New()
	orderRepo.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id, Status: models.StatusDelivered}, nil)

	_, err := svc.UpdateStatus(context.Background(), id, models.StatusPending)
	var conflictErr *common.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOrder_AppendsReasonToNotes(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockProductRepository), nil)

	id := uuid.New()
	reason := "customer changed their mind"
	expectedNote := "cancelled: " + reason

	orderRepo.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id, Status: models.StatusPreparing}, nil).Once()
	orderRepo.On("UpdateStatus", mock.Anything, id, models.StatusCancelled, &expectedNote).Return(nil)
	orderRepo.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id, Status: models.StatusCancelled}, nil)

	updated, err := svc.CancelOrder(context.Background(), id, &reason)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	orderRepo.AssertExpectations(t)
}

func TestCancelOrder_TerminalOrderIsConflict(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockProductRepository), nil)

	id := uuid.New()
	orderRepo.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id, Status: models.StatusCancelled}, nil)

	_, err := svc.CancelOrder(context.Background(), id, nil)
	var conflictErr *common.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestListOrders_InvalidStatusFilterRejected(t *testing.T) {
	svc := NewOrderService(new(MockOrderRepository), new(MockProductRepository), nil)

	_, err := svc.ListOrders(context.Background(), "shipped", 10, 0)
	var invalidErr *common.InvalidStatusError
	assert.ErrorAs(t, err, &invalidErr)
}
