// Package pricing computes booking prices under a route's tiered group
// discount policy. All functions are pure.
package pricing

import (
	"math"

	"tourbook/internal/domain"
)

// Quote is the price breakdown for a group of riders.
type Quote struct {
	Total    float64
	PerRider []float64
}

// Compute returns the per-rider prices and their exact sum for a group
// of riders. Rider i (1-indexed) pays the base price until the
// discount tier starts at discountFromPax; from there the discount
// applies. A fixed discount larger than the base price clamps to zero.
func Compute(basePrice float64, riders int, discountType domain.DiscountType, discountValue float64, discountFromPax int) Quote {
	if riders <= 0 {
		return Quote{Total: 0, PerRider: []float64{}}
	}

	perRider := make([]float64, riders)
	var total float64

	for i := 1; i <= riders; i++ {
		price := basePrice

		if discountType != domain.DiscountNone && discountValue > 0 && i >= discountFromPax {
			switch discountType {
			case domain.DiscountFixed:
				price = math.Max(0, basePrice-discountValue)
			case domain.DiscountPercentage:
				price = basePrice * (1 - discountValue/100)
				if price < 0 {
					price = 0
				}
			}
		}

		perRider[i-1] = price
		total += price
	}

	return Quote{Total: total, PerRider: perRider}
}

// Deposit is 50% of the given total, rounded up. It is always
// recomputed from the live effective total and never persisted.
func Deposit(total float64) float64 {
	return math.Ceil(total * 0.5)
}

// EffectiveTotal is the booking's custom total when an administrator
// set one, else the computed quote for the route.
func EffectiveTotal(b *domain.Booking, r *domain.Route) float64 {
	if b.CustomTotal != nil {
		return *b.CustomTotal
	}
	return Compute(r.PricePerPerson, b.PaxCount, r.DiscountType, r.DiscountValue, r.DiscountFromPax).Total
}
