package services

import (
	"math"
	"time"

	"velas_backend/internal/models"
	"velas_backend/pkg/utils"
)

// PricingLine is one cart line presented for pricing. One candle = one unit.
type PricingLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// PricingResult is the outcome of a pricing computation. It is a preview:
// nothing is persisted and no credits are consumed until the sale commits.
type PricingResult struct {
	Subtotal           float64 `json:"subtotal"`
	BirthdayAmount     float64 `json:"birthday_amount"`
	JarUnitsRedeemed   int     `json:"jar_units_redeemed"`
	JarAmount          float64 `json:"jar_amount"`
	DiscountAmount     float64 `json:"discount_amount"`
	DiscountPercentage float64 `json:"discount_percentage"`
	TotalAmount        float64 `json:"total_amount"`
}

// ComputeSalePricing computes the subtotal, stackable discounts and final
// total for a cart. Both discounts are absolute amounts taken against the
// pre-discount subtotal; they are summed, never compounded.
//
// Birthday discount: applies when the customer's birth month equals the
// current month and the configured percent is positive. A customer without a
// birth date never receives it.
//
// Jar-credit discount: flat amount per redeemed unit, clamped at
// min(customer credits, total units in cart). Any candle redeems a credit;
// there is no per-product rule.
//
// The computation never fails; misconfigured discounts that exceed the
// subtotal clamp the total at zero and log a configuration warning.
func ComputeSalePricing(lines []PricingLine, customer *models.Customer, settings *models.Settings, today time.Time) PricingResult {
	var result PricingResult

	totalUnits := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		result.Subtotal += line.UnitPrice * float64(line.Quantity)
		totalUnits += line.Quantity
	}
	result.Subtotal = roundToCents(result.Subtotal)

	if customer != nil && settings.BirthdayDiscountPercent > 0 &&
		customer.BirthDate != nil && customer.BirthDate.Month() == today.Month() {
		result.BirthdayAmount = roundToCents(result.Subtotal * settings.BirthdayDiscountPercent / 100)
	}

	if customer != nil && settings.JarDiscountAmount > 0 && customer.JarCredits > 0 {
		result.JarUnitsRedeemed = customer.JarCredits
		if totalUnits < result.JarUnitsRedeemed {
			result.JarUnitsRedeemed = totalUnits
		}
		result.JarAmount = roundToCents(float64(result.JarUnitsRedeemed) * settings.JarDiscountAmount)
	}

	result.DiscountAmount = roundToCents(result.BirthdayAmount + result.JarAmount)
	if result.Subtotal > 0 {
		result.DiscountPercentage = roundToCents(result.DiscountAmount / result.Subtotal * 100)
	}

	result.TotalAmount = roundToCents(result.Subtotal - result.DiscountAmount)
	if result.TotalAmount < 0 {
		utils.LogWarn("Configured discounts exceed sale subtotal, clamping total to zero", map[string]interface{}{
			"subtotal":        result.Subtotal,
			"discount_amount": result.DiscountAmount,
		})
		result.TotalAmount = 0
	}
	return result
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
