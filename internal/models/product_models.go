package models

import "time"

// Product represents a catalog product. Category is a denormalized string:
// products are matched to a category price by name, not by foreign key, so
// renaming a category does not reclassify its products.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    *string   `json:"category,omitempty" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PriceHistoryEntry is one row of a product's append-only price history.
// Entries are never updated or deleted.
type PriceHistoryEntry struct {
	ID         int64     `json:"id" db:"id"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	Price      float64   `json:"price" db:"price"`
	Reason     string    `json:"reason" db:"reason"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// ProductFilters defines the available filters for querying products.
type ProductFilters struct {
	Category *string `form:"category"`
	IsActive *bool   `form:"is_active"`
	Search   *string `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
