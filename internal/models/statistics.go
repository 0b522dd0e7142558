package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopProduct is the best-selling product across non-cancelled orders
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	TotalSold int       `json:"total_sold"`
}

// OrderStatistics is the dashboard aggregate. Revenue and the top seller
// exclude cancelled orders.
type OrderStatistics struct {
	CountsByStatus map[string]int  `json:"counts_by_status"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	OrdersToday    int             `json:"orders_today"`
	TopProduct     *TopProduct     `json:"top_product"`
}
