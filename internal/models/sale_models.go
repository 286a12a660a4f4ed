package models

import "time"

// Sale represents a committed sale with its computed totals. JarCreditsUsed
// records how many credits were consumed at commit time so a later
// cancellation can refund exactly that many.
type Sale struct {
	ID                 int64      `json:"id" db:"id"`
	CustomerID         *int64     `json:"customer_id,omitempty" db:"customer_id"`
	Status             string     `json:"status" db:"status"`
	Subtotal           float64    `json:"subtotal" db:"subtotal"`
	DiscountPercentage float64    `json:"discount_percentage" db:"discount_percentage"`
	DiscountAmount     float64    `json:"discount_amount" db:"discount_amount"`
	TotalAmount        float64    `json:"total_amount" db:"total_amount"`
	JarCreditsUsed     int        `json:"jar_credits_used" db:"jar_credits_used"`
	PaymentMethod      *string    `json:"payment_method,omitempty" db:"payment_method"`
	Notes              *string    `json:"notes,omitempty" db:"notes"`
	SaleTime           time.Time  `json:"sale_time" db:"sale_time"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	CustomerName       *string    `json:"customer_name,omitempty"`
	Items              []SaleItem `json:"items,omitempty"`
}

// SaleItem is one line of a sale.
type SaleItem struct {
	ID         int64   `json:"id" db:"id"`
	SaleID     int64   `json:"sale_id" db:"sale_id"`
	ProductID  int64   `json:"product_id" db:"product_id"`
	Quantity   int     `json:"quantity" db:"quantity"`
	UnitPrice  float64 `json:"unit_price" db:"unit_price"`
	TotalPrice float64 `json:"total_price" db:"total_price"`
}

// SaleFilters defines the available filters for querying sales.
type SaleFilters struct {
	CustomerID *int64  `form:"customer_id"`
	Status     *string `form:"status"`
	Date       *string `form:"date"` // Expected format YYYY-MM-DD
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}
