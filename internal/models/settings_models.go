package models

import "time"

// Settings is the process-wide configuration singleton. A single row (id = 1)
// backs it; all reads and writes go through the settings repository.
type Settings struct {
	ID                     int64     `json:"id" db:"id"`
	CompanyName            string    `json:"company_name" db:"company_name"`
	CompanyPhone           *string   `json:"company_phone,omitempty" db:"company_phone"`
	CompanyEmail           *string   `json:"company_email,omitempty" db:"company_email"`
	CompanyAddress         *string   `json:"company_address,omitempty" db:"company_address"`
	LowStockThreshold      int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	BirthdayDiscountPercent float64  `json:"birthday_discount_percent" db:"birthday_discount_percent"`
	JarDiscountAmount      float64   `json:"jar_discount_amount" db:"jar_discount_amount"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSettings returns the factory configuration used when no settings row
// exists yet, and by the reset operation.
func DefaultSettings() *Settings {
	return &Settings{
		ID:                      1,
		CompanyName:             "Velas Aromáticas",
		LowStockThreshold:       10,
		BirthdayDiscountPercent: 0,
		JarDiscountAmount:       0,
	}
}
