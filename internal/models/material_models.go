package models

import "time"

// Material represents a raw material used in production (wax, wicks, jars,
// fragrance oils). Tracked separately from the sellable catalog.
type Material struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Unit        string    `json:"unit" db:"unit"` // e.g. kg, unit, ml
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitCost    float64   `json:"unit_cost" db:"unit_cost"`
	Supplier    *string   `json:"supplier,omitempty" db:"supplier"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
