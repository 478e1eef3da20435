package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type staticPricer map[string]string

func (p staticPricer) UnitNetPrice(id string) (decimal.Decimal, bool) {
	raw, ok := p[id]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.RequireFromString(raw), true
}

func TestUnitNetPriceWithOptions(t *testing.T) {
	catalog := staticPricer{"K1": "20", "S1": "15"}
	selected := map[string]string{"Kolor": "K1", "Szyba": "S1"}

	price := UnitNetPrice(decimal.NewFromInt(100), 1200, 1200, selected, catalog)
	assert.True(t, price.Equal(decimal.RequireFromString("135.00")), "got %s", price)
}

func TestUnitNetPriceSizeStep(t *testing.T) {
	// diff = max(600, 100) = 600, one full step, factor 1.1
	price := UnitNetPrice(decimal.NewFromInt(100), 1600, 1100, nil, staticPricer{})
	assert.True(t, price.Equal(decimal.RequireFromString("110.00")), "got %s", price)
}

func TestUnitNetPriceClampsBelowBase(t *testing.T) {
	// diff = -100, floor(-100/500) = -1, raw factor 0.9, clamped to 1
	price := UnitNetPrice(decimal.NewFromInt(100), 900, 900, nil, staticPricer{})
	assert.True(t, price.Equal(decimal.RequireFromString("100.00")), "got %s", price)
}

func TestUnitNetPriceIgnoresUnknownAndEmptyOptions(t *testing.T) {
	catalog := staticPricer{"K1": "20"}
	selected := map[string]string{"Kolor": "K1", "Szyba": "", "Parapet": "missing"}

	price := UnitNetPrice(decimal.NewFromInt(100), 1000, 1000, selected, catalog)
	assert.True(t, price.Equal(decimal.RequireFromString("120.00")), "got %s", price)
}

func TestSizeFactorExactlyOneUpToBasePlus499(t *testing.T) {
	for _, dim := range []int{400, 900, 1000, 1250, 1499} {
		factor := SizeFactor(dim, dim)
		assert.True(t, factor.Equal(decimal.NewFromInt(1)), "dim %d gave factor %s", dim, factor)
	}
}

func TestSizeFactorStepsUpAtExactBoundary(t *testing.T) {
	assert.True(t, SizeFactor(1500, 1000).Equal(decimal.RequireFromString("1.1")))
	assert.True(t, SizeFactor(2000, 1000).Equal(decimal.RequireFromString("1.2")))
	assert.True(t, SizeFactor(1000, 2500).Equal(decimal.RequireFromString("1.3")))
}

func TestSizeFactorMonotonicInLargestDimension(t *testing.T) {
	prev := decimal.Zero
	for width := 400; width <= 3000; width += 50 {
		factor := SizeFactor(width, 400)
		assert.False(t, factor.LessThan(prev), "factor decreased at width %d", width)
		prev = factor
	}
}

func TestFloorDivTruncatesTowardNegativeInfinity(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-100, 500))
	assert.Equal(t, -1, floorDiv(-500, 500))
	assert.Equal(t, -2, floorDiv(-501, 500))
	assert.Equal(t, 0, floorDiv(0, 500))
	assert.Equal(t, 0, floorDiv(499, 500))
	assert.Equal(t, 1, floorDiv(500, 500))
}
