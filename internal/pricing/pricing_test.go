package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourbook/internal/domain"
)

func TestCompute_FixedDiscountFromSecondRider(t *testing.T) {
	q := Compute(1000, 3, domain.DiscountFixed, 200, 2)

	assert.Equal(t, []float64{1000, 800, 800}, q.PerRider)
	assert.Equal(t, 2600.0, q.Total)
}

func TestCompute_PercentageDiscountFromThirdRider(t *testing.T) {
	q := Compute(500, 4, domain.DiscountPercentage, 10, 3)

	assert.Equal(t, []float64{500, 500, 450, 450}, q.PerRider)
	assert.Equal(t, 1900.0, q.Total)
}

func TestCompute_NoDiscount(t *testing.T) {
	q := Compute(750, 2, domain.DiscountNone, 0, 0)

	assert.Equal(t, []float64{750, 750}, q.PerRider)
	assert.Equal(t, 1500.0, q.Total)
}

func TestCompute_ZeroDiscountValueMeansBasePrice(t *testing.T) {
	q := Compute(300, 3, domain.DiscountFixed, 0, 1)

	for _, p := range q.PerRider {
		assert.Equal(t, 300.0, p)
	}
}

func TestCompute_RidersBelowDiscountTierPayBase(t *testing.T) {
	q := Compute(1000, 5, domain.DiscountPercentage, 25, 4)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1000.0, q.PerRider[i], "rider %d is below the tier", i+1)
	}
	assert.Equal(t, 750.0, q.PerRider[3])
	assert.Equal(t, 750.0, q.PerRider[4])
}

func TestCompute_FixedDiscountClampsAtZero(t *testing.T) {
	q := Compute(100, 2, domain.DiscountFixed, 500, 1)

	assert.Equal(t, []float64{0, 0}, q.PerRider)
	assert.Equal(t, 0.0, q.Total)
}

func TestCompute_NonPositiveRiderCount(t *testing.T) {
	for _, riders := range []int{0, -3} {
		q := Compute(1000, riders, domain.DiscountFixed, 100, 2)
		assert.Empty(t, q.PerRider)
		assert.Equal(t, 0.0, q.Total)
	}
}

func TestCompute_TotalEqualsSumOfPerRider(t *testing.T) {
	cases := []struct {
		base    float64
		riders  int
		dt      domain.DiscountType
		value   float64
		fromPax int
	}{
		{1000, 1, domain.DiscountNone, 0, 0},
		{1000, 7, domain.DiscountFixed, 150, 3},
		{333.33, 9, domain.DiscountPercentage, 12.5, 2},
		{80, 15, domain.DiscountFixed, 100, 5},
	}

	for _, c := range cases {
		q := Compute(c.base, c.riders, c.dt, c.value, c.fromPax)
		var sum float64
		for _, p := range q.PerRider {
			sum += p
		}
		assert.Equal(t, sum, q.Total)
		assert.Len(t, q.PerRider, c.riders)
	}
}

func TestDeposit_RoundsUp(t *testing.T) {
	assert.Equal(t, 1300.0, Deposit(2600))
	assert.Equal(t, 1300.0, Deposit(2599))
	assert.Equal(t, 473.0, Deposit(945))
	assert.Equal(t, 0.0, Deposit(0))
}

func TestEffectiveTotal_CustomOverrideWins(t *testing.T) {
	route := &domain.Route{PricePerPerson: 1000, DiscountType: domain.DiscountFixed, DiscountValue: 200, DiscountFromPax: 2}
	custom := 1999.0
	b := &domain.Booking{PaxCount: 3, CustomTotal: &custom}

	assert.Equal(t, 1999.0, EffectiveTotal(b, route))

	b.CustomTotal = nil
	assert.Equal(t, 2600.0, EffectiveTotal(b, route))
}
