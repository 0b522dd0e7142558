package repositories

import (
	"context"
	"errors"
	"time"

	"brewtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrNoRows is returned when a lookup resolves to nothing. Callers translate
// it into the workflow's not-found error.
var ErrNoRows = pgx.ErrNoRows

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	ListByPeriod(ctx context.Context, startDate, endDate time.Time) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) error
	CountsByStatus(ctx context.Context) (map[string]int, error)
	RevenueExcludingCancelled(ctx context.Context) (decimal.Decimal, error)
	CountToday(ctx context.Context) (int, error)
	TopSellingProduct(ctx context.Context) (*models.TopProduct, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

// Create persists the order header and all of its lines in one transaction.
// Either everything commits or the rollback leaves no trace of the order.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	headerQuery := `
		INSERT INTO orders (id, customer_name, customer_phone, customer_email, total, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, headerQuery, order.ID, order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.Total, order.Status, order.Notes); err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx, lineQuery, line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, customer_name, customer_phone, customer_email, total, status, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &order.CustomerEmail, &order.Total, &order.Status, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	lines, err := r.linesForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

// linesForOrder resolves an order's lines with product name and category
// joined in from the catalog.
func (r *orderRepo) linesForOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderLine, error) {
	query := `
		SELECT ol.id, ol.order_id, ol.product_id, ol.quantity, ol.unit_price, ol.subtotal,
		       p.name, COALESCE(c.name, '')
		FROM order_lines ol
		JOIN products p ON ol.product_id = p.id
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE ol.order_id = $1
		ORDER BY p.name
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.OrderLine
	for rows.Next() {
		line := &models.OrderLine{}
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.Subtotal, &line.ProductName, &line.ProductCategory); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, customer_email, total, status, notes, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryOrders(ctx, query, limit, offset)
}

func (r *orderRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, customer_email, total, status, notes, created_at, updated_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryOrders(ctx, query, status, limit, offset)
}

func (r *orderRepo) ListByPeriod(ctx context.Context, startDate, endDate time.Time) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, customer_email, total, status, notes, created_at, updated_at
		FROM orders
		WHERE created_at::date BETWEEN $1 AND $2
		ORDER BY created_at DESC
	`
	return r.queryOrders(ctx, query, startDate, endDate)
}

func (r *orderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &order.CustomerEmail, &order.Total, &order.Status, &order.Notes, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		lines, err := r.linesForOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
	}
	return orders, nil
}

// UpdateStatus sets the status and refreshes updated_at. When notes is
// non-nil it is appended to the order's existing notes (used for the
// cancellation reason). Returns ErrNoRows when the order does not exist.
func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) error {
	query := `
		UPDATE orders
		SET status = $1,
		    notes = CASE WHEN $2::text IS NULL THEN notes
		                 ELSE TRIM(BOTH E'\n' FROM COALESCE(notes, '') || E'\n' || $2::text) END,
		    updated_at = NOW()
		WHERE id = $3
	`
	tag, err := r.db.Exec(ctx, query, status, notes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *orderRepo) CountsByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *orderRepo) RevenueExcludingCancelled(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total), 0) FROM orders WHERE status != $1`
	var revenue decimal.Decimal
	if err := r.db.QueryRow(ctx, query, models.StatusCancelled).Scan(&revenue); err != nil {
		return decimal.Zero, err
	}
	return revenue, nil
}

func (r *orderRepo) CountToday(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE created_at::date = CURRENT_DATE`
	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepo) TopSellingProduct(ctx context.Context) (*models.TopProduct, error) {
	query := `
		SELECT p.id, p.name, SUM(ol.quantity) AS total_sold
		FROM order_lines ol
		JOIN products p ON ol.product_id = p.id
		JOIN orders o ON ol.order_id = o.id
		WHERE o.status != $1
		GROUP BY p.id, p.name
		ORDER BY total_sold DESC
		LIMIT 1
	`
	top := &models.TopProduct{}
	err := r.db.QueryRow(ctx, query, models.StatusCancelled).Scan(&top.ProductID, &top.Name, &top.TotalSold)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return top, nil
}
