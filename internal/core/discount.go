package core

import "github.com/shopspring/decimal"

// Quantity bounds for a single product line. Sales of more than
// MaxUnitsPerProduct units of the same product are rejected before
// the discount policy is ever consulted.
const (
	MinUnitsPerProduct = 1
	MaxUnitsPerProduct = 20
)

var (
	discountNone   = decimal.Zero
	discountTen    = decimal.NewFromFloat(0.10)
	discountTwenty = decimal.NewFromFloat(0.20)
)

// DiscountRate returns the discount rate for a line of the given quantity:
// below 4 units no discount, 4–9 units 10%, 10–20 units 20%.
// Callers must reject quantities outside [1, 20] before calling.
func DiscountRate(quantity int) decimal.Decimal {
	switch {
	case quantity < 4:
		return discountNone
	case quantity < 10:
		return discountTen
	default:
		return discountTwenty
	}
}
