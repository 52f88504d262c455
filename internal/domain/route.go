package domain

// DiscountType identifies how a route's group discount is applied.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Route is a bookable tour product with a base price and an optional
// tiered group discount policy. Riders from DiscountFromPax onward
// (1-indexed) get the discounted price.
type Route struct {
	ID              string
	Slug            string
	Name            string
	PricePerPerson  float64
	DiscountType    DiscountType
	DiscountValue   float64
	DiscountFromPax int
}
