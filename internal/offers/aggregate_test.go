package offers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
)

func itemWithPrice(price string, quantity *int) LineItem {
	return LineItem{
		TypeID:       "T_OKNO",
		WidthMm:      1000,
		HeightMm:     1000,
		UnitNetPrice: decimal.RequireFromString(price),
		Quantity:     quantity,
	}
}

func intPtr(n int) *int { return &n }

func TestOfferTotals(t *testing.T) {
	offer := NewOffer(Metadata{Number: "OF/2026/001", CustomerName: "Jan Kowalski"})
	offer.AddItem(itemWithPrice("135.00", intPtr(2)))

	totals := offer.Totals()
	assert.True(t, totals.Net.Equal(decimal.RequireFromString("270.00")), "net %s", totals.Net)
	assert.True(t, totals.VAT.Equal(decimal.RequireFromString("62.10")), "vat %s", totals.VAT)
	assert.True(t, totals.Gross.Equal(decimal.RequireFromString("332.10")), "gross %s", totals.Gross)
}

func TestOfferTotalsDefaultQuantityIsOne(t *testing.T) {
	offer := NewOffer(Metadata{})
	offer.AddItem(itemWithPrice("99.99", nil))

	assert.True(t, offer.Totals().Net.Equal(decimal.RequireFromString("99.99")))
}

func TestOfferRecomputeIsIdempotent(t *testing.T) {
	offer := NewOffer(Metadata{})
	offer.AddItem(itemWithPrice("123.45", intPtr(3)))

	first := offer.Totals()
	offer.RecomputeTotals()
	offer.RecomputeTotals()
	second := offer.Totals()

	assert.True(t, first.Net.Equal(second.Net))
	assert.True(t, first.VAT.Equal(second.VAT))
	assert.True(t, first.Gross.Equal(second.Gross))
}

func TestOfferRemoveItem(t *testing.T) {
	offer := NewOffer(Metadata{})
	offer.AddItem(itemWithPrice("100.00", nil))
	offer.AddItem(itemWithPrice("200.00", nil))
	offer.AddItem(itemWithPrice("300.00", nil))

	require.NoError(t, offer.RemoveItem(1))
	items := offer.Items()
	require.Len(t, items, 2)
	assert.True(t, items[0].UnitNetPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, items[1].UnitNetPrice.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, offer.Totals().Net.Equal(decimal.RequireFromString("400.00")))
}

func TestOfferRemoveItemOutOfRangeIsNoOp(t *testing.T) {
	offer := NewOffer(Metadata{})
	offer.AddItem(itemWithPrice("100.00", nil))
	before := offer.Totals()

	for _, index := range []int{-1, 1, 99} {
		err := offer.RemoveItem(index)
		require.Error(t, err, "index %d", index)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}

	assert.Equal(t, 1, offer.ItemCount())
	assert.True(t, before.Gross.Equal(offer.Totals().Gross))
}

func TestOfferEmptyTotalsAreZero(t *testing.T) {
	offer := NewOffer(Metadata{})
	offer.RecomputeTotals()

	totals := offer.Totals()
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.VAT.IsZero())
	assert.True(t, totals.Gross.IsZero())
}

func TestOfferMetadataSetters(t *testing.T) {
	offer := NewOffer(Metadata{})
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	offer.SetNumber("OF/2026/042")
	offer.SetOfferDate(date)
	offer.SetCustomerName("Anna Nowak")
	offer.SetNotes("montaż w cenie")

	meta := offer.Meta()
	assert.Equal(t, "OF/2026/042", meta.Number)
	assert.Equal(t, date, meta.OfferDate)
	assert.Equal(t, "Anna Nowak", meta.CustomerName)
	assert.Equal(t, "montaż w cenie", meta.Notes)
}
