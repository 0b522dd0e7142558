package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"brewtrack/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	orderID uuid.UUID
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) newOrder() *models.Order {
	email := "maria@example.com"
	order := &models.Order{
		ID:            suite.orderID,
		CustomerName:  "Maria Silva",
		CustomerPhone: "11999990000",
		CustomerEmail: &email,
		Total:         decimal.RequireFromString("14.00"),
		Status:        models.StatusPending,
	}
	order.Lines = []*models.OrderLine{
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: uuid.New(),
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("5.50"),
			Subtotal:  decimal.RequireFromString("11.00"),
		},
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: uuid.New(),
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("3.00"),
			Subtotal:  decimal.RequireFromString("3.00"),
		},
	}
	return order
}

func (suite *OrderRepoTestSuite) TestCreate_CommitsHeaderAndLinesTogether() {
	order := suite.newOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.Total, order.Status, order.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, line := range order.Lines {
		suite.mock.ExpectExec(`INSERT INTO order_lines`).
			WithArgs(line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, order)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreate_RollsBackWhenLineInsertFails() {
	order := suite.newOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.Total, order.Status, order.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO order_lines`).
		WithArgs(order.Lines[0].ID, order.Lines[0].OrderID, order.Lines[0].ProductID, order.Lines[0].Quantity, order.Lines[0].UnitPrice, order.Lines[0].Subtotal).
		WillReturnError(errors.New("constraint violation"))
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, order)
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreate_RollsBackWhenHeaderInsertFails() {
	order := suite.newOrder()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.Total, order.Status, order.Notes).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, order)
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestGetByID_ResolvesLinesWithProductDetails() {
	now := time.Now()
	productID := uuid.New()
	lineID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, customer_name, customer_phone, customer_email, total, status, notes, created_at, updated_at\s+FROM orders`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_name", "customer_phone", "customer_email", "total", "status", "notes", "created_at", "updated_at"}).
			AddRow(suite.orderID, "Maria Silva", "11999990000", (*string)(nil), decimal.RequireFromString("11.00"), models.StatusPending, (*string)(nil), now, now))
	suite.mock.ExpectQuery(`FROM order_lines ol`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "subtotal", "name", "category"}).
			AddRow(lineID, suite.orderID, productID, 2, decimal.RequireFromString("5.50"), decimal.RequireFromString("11.00"), "Espresso", "Coffee"))

	order, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), order.Lines, 1)
	assert.Equal(suite.T(), "Espresso", order.Lines[0].ProductName)
	assert.Equal(suite.T(), "Coffee", order.Lines[0].ProductCategory)
	assert.True(suite.T(), order.Total.Equal(decimal.RequireFromString("11.00")))
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_NoRowsReturnsErrNoRows() {
	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(models.StatusReady, (*string)(nil), suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStatus(suite.context, suite.orderID, models.StatusReady, nil)
	assert.ErrorIs(suite.T(), err, ErrNoRows)
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_Success() {
	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(models.StatusPreparing, (*string)(nil), suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.orderID, models.StatusPreparing, nil)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestCountsByStatus() {
	suite.mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM orders GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(models.StatusPending, 3).
			AddRow(models.StatusDelivered, 7))

	counts, err := suite.repo.CountsByStatus(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, counts[models.StatusPending])
	assert.Equal(suite.T(), 7, counts[models.StatusDelivered])
}

func (suite *OrderRepoTestSuite) TestRevenueExcludingCancelled() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(total\), 0\) FROM orders`).
		WithArgs(models.StatusCancelled).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.RequireFromString("40.00")))

	revenue, err := suite.repo.RevenueExcludingCancelled(suite.context)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), revenue.Equal(decimal.RequireFromString("40.00")))
}

func (suite *OrderRepoTestSuite) TestTopSellingProduct_NoSalesYieldsNil() {
	suite.mock.ExpectQuery(`FROM order_lines ol`).
		WithArgs(models.StatusCancelled).
		WillReturnError(ErrNoRows)

	top, err := suite.repo.TopSellingProduct(suite.context)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), top)
}
