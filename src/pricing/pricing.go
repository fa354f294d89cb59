// Package pricing computes the charge for a stay.
package pricing

import "math"

// ComputeTotal returns the price of a stay: the nightly base price reduced by
// discountPercent, times the number of nights. The discount is clamped to
// [0,100]; a negative base price or a non-positive night count yields 0.
func ComputeTotal(basePrice, discountPercent float64, nights int) float64 {
	if basePrice <= 0 || nights <= 0 || math.IsNaN(basePrice) {
		return 0
	}
	discount := math.Min(math.Max(discountPercent, 0), 100)
	if math.IsNaN(discountPercent) {
		discount = 0
	}
	unitPrice := basePrice - basePrice*discount/100
	return math.Max(unitPrice*float64(nights), 0)
}

// ToMinorUnits converts an amount to the smallest currency unit (cents),
// rounding half away from zero. Every amount sent to the payment provider or
// stored on a booking goes through here exactly once.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits is the inverse of ToMinorUnits for display.
func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
