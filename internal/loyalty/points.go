// Package loyalty credits and debits customer loyalty points after an invoice
// has been committed.
package loyalty

import (
	"jewelbook/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculatePointsEarned returns the points a sale of grandTotal earns under
// settings. Fractions are always floored and the result is never negative.
func CalculatePointsEarned(settings *model.LoyaltySettings, grandTotal decimal.Decimal) int {
	if settings == nil || !settings.Enabled || !grandTotal.IsPositive() {
		return 0
	}

	var points decimal.Decimal
	switch settings.EarningType {
	case model.EarningTypeFlat:
		points = grandTotal.Mul(settings.FlatRatio)
	case model.EarningTypePercentage:
		points = grandTotal.Mul(settings.PercentageBack).Div(hundred)
	default:
		return 0
	}

	points = points.Floor()
	if points.IsNegative() {
		return 0
	}

	return int(points.IntPart())
}
