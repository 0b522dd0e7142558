package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query      string           `json:"query,omitempty"`       // Matches name and description
	CategoryID *uuid.UUID       `json:"category_id,omitempty"` // Filter by category
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`   // Minimum price
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`   // Maximum price
	Featured   bool             `json:"featured,omitempty"`    // Featured products only
	Limit      int              `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int              `json:"offset,omitempty"`      // Page offset
}

type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  *string         `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	CategoryID   *uuid.UUID      `json:"category_id" db:"category_id"`
	CategoryName *string         `json:"category_name,omitempty" db:"-"` // Joined at query time
	ImagePath    *string         `json:"image_path" db:"image_path"`
	ImageURL     string          `json:"image_url,omitempty" db:"-"` // Presigned, never stored
	Available    bool            `json:"available" db:"available"`
	Featured     bool            `json:"featured" db:"featured"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
