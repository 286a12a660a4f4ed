package services

import (
	"testing"
	"time"

	"velas_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeSalePricing(t *testing.T) {
	// Fixed clock so birthday matching is deterministic.
	today := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	settings := func(birthdayPercent, jarAmount float64) *models.Settings {
		s := models.DefaultSettings()
		s.BirthdayDiscountPercent = birthdayPercent
		s.JarDiscountAmount = jarAmount
		return s
	}
	customer := func(credits int, birthDate *time.Time) *models.Customer {
		return &models.Customer{ID: 7, FullName: "Ana", JarCredits: credits, BirthDate: birthDate}
	}
	juneBirthday := datePtr(time.Date(1990, time.June, 2, 0, 0, 0, 0, time.UTC))
	decemberBirthday := datePtr(time.Date(1990, time.December, 2, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		lines    []PricingLine
		customer *models.Customer
		settings *models.Settings
		want     PricingResult
	}{
		{
			name:     "no customer, no discounts",
			lines:    []PricingLine{{ProductID: 1, Quantity: 2, UnitPrice: 10}},
			customer: nil,
			settings: settings(10, 2),
			want: PricingResult{
				Subtotal:    20,
				TotalAmount: 20,
			},
		},
		{
			name:     "jar credits clamped to cart units",
			lines:    []PricingLine{{ProductID: 1, Quantity: 2, UnitPrice: 15}},
			customer: customer(8, nil),
			settings: settings(0, 3),
			want: PricingResult{
				Subtotal:           30,
				JarUnitsRedeemed:   2,
				JarAmount:          6,
				DiscountAmount:     6,
				DiscountPercentage: 20,
				TotalAmount:        24,
			},
		},
		{
			name: "cart larger than credit balance redeems all credits",
			lines: []PricingLine{
				{ProductID: 1, Quantity: 6, UnitPrice: 10},
				{ProductID: 2, Quantity: 4, UnitPrice: 10},
			},
			customer: customer(8, nil),
			settings: settings(0, 2.5),
			want: PricingResult{
				Subtotal:           100,
				JarUnitsRedeemed:   8,
				JarAmount:          20,
				DiscountAmount:     20,
				DiscountPercentage: 20,
				TotalAmount:        80,
			},
		},
		{
			name:     "birthday month match applies percent of subtotal",
			lines:    []PricingLine{{ProductID: 1, Quantity: 4, UnitPrice: 25}},
			customer: customer(0, juneBirthday),
			settings: settings(15, 2),
			want: PricingResult{
				Subtotal:           100,
				BirthdayAmount:     15,
				DiscountAmount:     15,
				DiscountPercentage: 15,
				TotalAmount:        85,
			},
		},
		{
			name:     "non-matching birth month gets no birthday discount",
			lines:    []PricingLine{{ProductID: 1, Quantity: 4, UnitPrice: 25}},
			customer: customer(0, decemberBirthday),
			settings: settings(15, 2),
			want: PricingResult{
				Subtotal:    100,
				TotalAmount: 100,
			},
		},
		{
			name:     "missing birth date never receives birthday discount",
			lines:    []PricingLine{{ProductID: 1, Quantity: 4, UnitPrice: 25}},
			customer: customer(0, nil),
			settings: settings(15, 2),
			want: PricingResult{
				Subtotal:    100,
				TotalAmount: 100,
			},
		},
		{
			name:     "discounts stack additively against the same subtotal",
			lines:    []PricingLine{{ProductID: 1, Quantity: 5, UnitPrice: 20}},
			customer: customer(3, juneBirthday),
			settings: settings(10, 4),
			want: PricingResult{
				Subtotal:           100,
				BirthdayAmount:     10,
				JarUnitsRedeemed:   3,
				JarAmount:          12,
				DiscountAmount:     22,
				DiscountPercentage: 22,
				TotalAmount:        78,
			},
		},
		{
			name:     "zero jar discount amount consumes no credits",
			lines:    []PricingLine{{ProductID: 1, Quantity: 2, UnitPrice: 10}},
			customer: customer(5, nil),
			settings: settings(0, 0),
			want: PricingResult{
				Subtotal:    20,
				TotalAmount: 20,
			},
		},
		{
			name:     "oversized discounts clamp total at zero",
			lines:    []PricingLine{{ProductID: 1, Quantity: 2, UnitPrice: 1}},
			customer: customer(2, juneBirthday),
			settings: settings(50, 10),
			want: PricingResult{
				Subtotal:           2,
				BirthdayAmount:     1,
				JarUnitsRedeemed:   2,
				JarAmount:          20,
				DiscountAmount:     21,
				DiscountPercentage: 1050,
				TotalAmount:        0,
			},
		},
		{
			name:     "empty cart keeps everything at zero",
			lines:    nil,
			customer: customer(5, juneBirthday),
			settings: settings(10, 2),
			want:     PricingResult{},
		},
		{
			name: "zero and negative quantities are skipped",
			lines: []PricingLine{
				{ProductID: 1, Quantity: 0, UnitPrice: 10},
				{ProductID: 2, Quantity: -3, UnitPrice: 10},
				{ProductID: 3, Quantity: 1, UnitPrice: 10},
			},
			customer: customer(5, nil),
			settings: settings(0, 2),
			want: PricingResult{
				Subtotal:           10,
				JarUnitsRedeemed:   1,
				JarAmount:          2,
				DiscountAmount:     2,
				DiscountPercentage: 20,
				TotalAmount:        8,
			},
		},
		{
			name:     "fractional prices round to cents",
			lines:    []PricingLine{{ProductID: 1, Quantity: 3, UnitPrice: 3.333}},
			customer: nil,
			settings: settings(0, 0),
			want: PricingResult{
				Subtotal:    10,
				TotalAmount: 10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSalePricing(tt.lines, tt.customer, tt.settings, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeSalePricingIsPure(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	s := models.DefaultSettings()
	s.JarDiscountAmount = 2
	c := &models.Customer{ID: 1, FullName: "Ana", JarCredits: 8}
	lines := []PricingLine{{ProductID: 1, Quantity: 2, UnitPrice: 10}}

	first := ComputeSalePricing(lines, c, s, today)
	second := ComputeSalePricing(lines, c, s, today)

	assert.Equal(t, first, second)
	// Previewing consumes nothing off the customer's balance.
	assert.Equal(t, 8, c.JarCredits)
	assert.Equal(t, 2, first.JarUnitsRedeemed)
}
