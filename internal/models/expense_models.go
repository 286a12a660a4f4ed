package models

import "time"

// Expense represents a business expense record.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description" binding:"required"`
	Amount      float64   `json:"amount" db:"amount"`
	Category    *string   `json:"category,omitempty" db:"category"`
	IncurredAt  time.Time `json:"incurred_at" db:"incurred_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
