package models

import "time"

// CategoryPrice maps a category name to its standard price. Names are unique
// case-insensitively. Updating the price propagates it to all products whose
// category string matches the entry's previous name.
type CategoryPrice struct {
	ID           int64     `json:"id" db:"id"`
	CategoryName string    `json:"category_name" db:"category_name" binding:"required"`
	Price        float64   `json:"price" db:"price"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
