package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. An order moves forward through pending -> preparing ->
// ready -> delivered; cancelled is reachable from any non-terminal status.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// statusRank orders the forward path of the lifecycle. Terminal statuses
// have no outgoing transitions.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusDelivered: 3,
}

// IsValidStatus reports whether the literal is one of the five recognized statuses
func IsValidStatus(status string) bool {
	if status == StatusCancelled {
		return true
	}
	_, ok := statusRank[status]
	return ok
}

// IsTerminalStatus reports whether no further transitions are allowed
func IsTerminalStatus(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

// CanTransition reports whether moving between two statuses is legal. Only
// single forward steps are allowed; cancelling is legal from any non-terminal
// status.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerName  string          `json:"customer_name" db:"customer_name"`
	CustomerPhone string          `json:"customer_phone" db:"customer_phone"`
	CustomerEmail *string         `json:"customer_email" db:"customer_email"`
	Total         decimal.Decimal `json:"total" db:"total"`
	Status        string          `json:"status" db:"status"`
	Notes         *string         `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	Lines         []*OrderLine    `json:"lines" db:"-"`
}

type OrderLine struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`

	// Joined from the catalog at query time, never stored on the line.
	ProductName     string `json:"product_name,omitempty" db:"-"`
	ProductCategory string `json:"product_category,omitempty" db:"-"`
}

// OrderDraft is the inbound shape of an order submission before it has been
// validated and priced.
type OrderDraft struct {
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	CustomerEmail *string     `json:"customer_email"`
	Notes         *string     `json:"notes"`
	Lines         []DraftLine `json:"lines"`
}

type DraftLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Validate checks the draft's shape and values without touching storage.
// It returns one message per violation; an empty slice means the draft is
// valid. Line messages are 1-indexed.
func (d *OrderDraft) Validate() []string {
	var violations []string

	if len(strings.TrimSpace(d.CustomerName)) < 2 {
		violations = append(violations, "customer name must have at least 2 characters")
	}
	if len(strings.TrimSpace(d.CustomerPhone)) < 10 {
		violations = append(violations, "customer phone must have at least 10 digits")
	}
	if len(d.Lines) == 0 {
		violations = append(violations, "order must have at least 1 line")
	}

	for i, line := range d.Lines {
		if line.ProductID == uuid.Nil {
			violations = append(violations, fmt.Sprintf("line %d: product id is required", i+1))
		}
		if line.Quantity <= 0 {
			violations = append(violations, fmt.Sprintf("line %d: quantity must be greater than zero", i+1))
		}
		if !line.UnitPrice.IsPositive() {
			violations = append(violations, fmt.Sprintf("line %d: unit price must be greater than zero", i+1))
		}
	}

	return violations
}
