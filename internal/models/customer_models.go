package models

import "time"

// Customer represents a shop customer.
type Customer struct {
	ID          int64      `json:"id" db:"id"`
	FullName    string     `json:"full_name" db:"full_name" binding:"required"`
	PhoneNumber *string    `json:"phone_number,omitempty" db:"phone_number"`
	Email       *string    `json:"email,omitempty" db:"email"`
	BirthDate   *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	// JarCredits counts returned empty jars, redeemable 1:1 against purchased
	// units. Never negative.
	JarCredits int       `json:"jar_credits" db:"jar_credits"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
