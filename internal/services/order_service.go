package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewtrack/internal/common"
	"brewtrack/internal/models"
	"brewtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderNotifier receives best-effort customer notifications. Implementations
// must never block the workflow; failures are theirs to log.
type OrderNotifier interface {
	NotifyOrderCreated(order *models.Order)
	NotifyStatusChanged(order *models.Order)
}

// OrderServiceInterface is the order workflow engine: validation, atomic
// creation, the status lifecycle, and the read-side listings.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, draft *models.OrderDraft) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	ListOrdersByPeriod(ctx context.Context, startDate, endDate time.Time) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID, reason *string) (*models.Order, error)
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	notifier    OrderNotifier
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, notifier OrderNotifier) OrderServiceInterface {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// CreateOrder validates the draft, prices it, and persists header plus lines
// in a single transaction. The returned order is always re-read from storage
// so the caller sees the canonical persisted view.
func (s *orderService) CreateOrder(ctx context.Context, draft *models.OrderDraft) (*models.Order, error) {
	if violations := draft.Validate(); len(violations) > 0 {
		return nil, &common.ValidationError{Violations: violations}
	}

	// The catalog confirms each product exists and is still available. The
	// unit price stays as submitted: it is the price at order time, and
	// later catalog price changes must never alter this order.
	for i, line := range draft.Lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: fmt.Sprintf("product on line %d", i+1)}
		}
		if err != nil {
			return nil, &common.PersistenceError{Op: "look up product", Err: err}
		}
		if !product.Available {
			return nil, &common.ValidationError{Violations: []string{fmt.Sprintf("line %d: product %q is not available", i+1, product.Name)}}
		}
	}

	order := &models.Order{
		ID:            uuid.New(),
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		CustomerEmail: draft.CustomerEmail,
		Status:        models.StatusPending,
		Notes:         draft.Notes,
	}

	total := decimal.Zero
	for _, dl := range draft.Lines {
		subtotal := dl.UnitPrice.Mul(decimal.NewFromInt(int64(dl.Quantity))).Round(2)
		total = total.Add(subtotal)
		order.Lines = append(order.Lines, &models.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: dl.ProductID,
			Quantity:  dl.Quantity,
			UnitPrice: dl.UnitPrice,
			Subtotal:  subtotal,
		})
	}
	order.Total = total.Round(2)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, &common.PersistenceError{Op: "create order", Err: err}
	}

	created, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, &common.PersistenceError{Op: "read back order", Err: err}
	}

	if s.notifier != nil {
		s.notifier.NotifyOrderCreated(created)
	}
	return created, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &common.NotFoundError{Resource: "order"}
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "get order", Err: err}
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if status == "" {
		orders, err := s.orderRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, &common.PersistenceError{Op: "list orders", Err: err}
		}
		return orders, nil
	}
	if !models.IsValidStatus(status) {
		return nil, &common.InvalidStatusError{Status: status}
	}
	orders, err := s.orderRepo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list orders by status", Err: err}
	}
	return orders, nil
}

func (s *orderService) ListOrdersByPeriod(ctx context.Context, startDate, endDate time.Time) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByPeriod(ctx, startDate, endDate)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list orders by period", Err: err}
	}
	return orders, nil
}

// UpdateStatus moves an order along the lifecycle. Unknown status literals
// and illegal transitions are rejected before any write.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Order, error) {
	return s.transition(ctx, id, newStatus, nil)
}

// CancelOrder cancels a non-terminal order. The reason, when given, is kept
// on the order's notes.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID, reason *string) (*models.Order, error) {
	var note *string
	if reason != nil && *reason != "" {
		n := "cancelled: " + *reason
		note = &n
	}
	return s.transition(ctx, id, models.StatusCancelled, note)
}

func (s *orderService) transition(ctx context.Context, id uuid.UUID, newStatus string, note *string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, &common.InvalidStatusError{Status: newStatus}
	}

	current, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &common.NotFoundError{Resource: "order"}
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "get order", Err: err}
	}

	if !models.CanTransition(current.Status, newStatus) {
		return nil, &common.ConflictError{Message: fmt.Sprintf("cannot transition order from %q to %q", current.Status, newStatus)}
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, newStatus, note); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &common.NotFoundError{Resource: "order"}
		}
		return nil, &common.PersistenceError{Op: "update order status", Err: err}
	}

	updated, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, &common.PersistenceError{Op: "read back order", Err: err}
	}

	if s.notifier != nil {
		s.notifier.NotifyStatusChanged(updated)
	}
	return updated, nil
}
