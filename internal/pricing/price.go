package pricing

import (
	"github.com/shopspring/decimal"
)

// Size factor parameters: every full 500mm step over the 1000mm base size
// adds 10% to the base price. Dimensions at or below the base never price
// below the 1.0 floor.
const (
	BaseSizeMm = 1000
	StepSizeMm = 500
)

var (
	stepRate  = decimal.NewFromFloat(0.10)
	factorOne = decimal.NewFromInt(1)
)

// OptionPricer resolves an option id to its net unit price. Lookups run
// against a single immutable catalog snapshot for the whole computation.
type OptionPricer interface {
	UnitNetPrice(id string) (decimal.Decimal, bool)
}

// SizeFactor returns the dimension-driven multiplier for the given
// dimensions, clamped at 1.0.
func SizeFactor(widthMm, heightMm int) decimal.Decimal {
	diff := widthMm - BaseSizeMm
	if h := heightMm - BaseSizeMm; h > diff {
		diff = h
	}

	steps := floorDiv(diff, StepSizeMm)
	factor := factorOne.Add(stepRate.Mul(decimal.NewFromInt(int64(steps))))
	if factor.LessThan(factorOne) {
		return factorOne
	}
	return factor
}

// UnitNetPrice computes the net unit price for one configured product:
// base price scaled by the size factor plus the sum of selected option
// prices, rounded half-up to two places. Unknown or empty option ids
// contribute zero and do not error.
func UnitNetPrice(basePrice decimal.Decimal, widthMm, heightMm int, selected map[string]string, catalog OptionPricer) decimal.Decimal {
	total := basePrice.Mul(SizeFactor(widthMm, heightMm))

	for _, optionID := range selected {
		if optionID == "" {
			continue
		}
		if price, ok := catalog.UnitNetPrice(optionID); ok {
			total = total.Add(price)
		}
	}

	return total.Round(2)
}

// floorDiv divides rounding toward negative infinity, unlike Go's
// truncating integer division. The distinction matters for negative diffs
// at exact step boundaries.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
