package pricing

import (
	"fmt"
	"math"
	"strings"

	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
)

// Global dimension floor applied to every product type, in millimeters.
const (
	MinWidthMm  = 400
	MinHeightMm = 400
)

type dimensionBounds struct {
	maxWidthMm  int
	maxHeightMm int
}

var defaultBounds = dimensionBounds{maxWidthMm: 3000, maxHeightMm: 3000}

// Bounds are keyed on substrings of the human-readable type name, not the
// type id. Order matters: the first match wins.
var boundsByTypeName = []struct {
	substring string
	bounds    dimensionBounds
}{
	{"Okno", dimensionBounds{maxWidthMm: 2500, maxHeightMm: 2500}},
	{"Drzwi balkonowe", dimensionBounds{maxWidthMm: 2000, maxHeightMm: 2400}},
	{"Drzwi wejściowe", dimensionBounds{maxWidthMm: 1500, maxHeightMm: 2300}},
}

// ValidateDimensions checks width/height against the type-dependent bounds.
// It returns the first violated rule only and is safe to call on every
// keystroke.
func ValidateDimensions(widthMm, heightMm float64, typeName string) error {
	if !isFinite(widthMm) || !isFinite(heightMm) {
		return pkgerrors.New(pkgerrors.CodeValidation, "dimensions must be finite numbers")
	}

	bounds := defaultBounds
	for _, candidate := range boundsByTypeName {
		if strings.Contains(typeName, candidate.substring) {
			bounds = candidate.bounds
			break
		}
	}

	if widthMm < MinWidthMm || heightMm < MinHeightMm {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("minimum dimensions are %dmm × %dmm", MinWidthMm, MinHeightMm))
	}

	if widthMm > float64(bounds.maxWidthMm) || heightMm > float64(bounds.maxHeightMm) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("maximum dimensions for this type are %dmm × %dmm", bounds.maxWidthMm, bounds.maxHeightMm))
	}

	return nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
