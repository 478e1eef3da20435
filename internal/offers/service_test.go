package offers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenstra/offers-backend/pkg/db/models"
)

func TestInputToModelPreservesTotalsAsSent(t *testing.T) {
	userID := uuid.New()
	input := SaveOfferInput{
		Number:       "OF/2026/001",
		OfferDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		CustomerName: "Jan Kowalski",
		Notes:        "montaż",
		// Deliberately inconsistent with the items. The store keeps what
		// the client sent; totals are never recomputed on write.
		NetTotal:   decimal.RequireFromString("999.99"),
		VATTotal:   decimal.RequireFromString("1.00"),
		GrossTotal: decimal.RequireFromString("1000.99"),
		Items: []ItemInput{
			{TypeID: "T_OKNO", WidthMm: 1000, HeightMm: 1000, UnitNetPrice: decimal.NewFromInt(100)},
		},
	}

	row := inputToModel(userID, input)

	assert.Equal(t, userID, row.UserID)
	assert.True(t, row.NetTotal.Equal(decimal.RequireFromString("999.99")))
	assert.True(t, row.VATTotal.Equal(decimal.RequireFromString("1.00")))
	assert.True(t, row.GrossTotal.Equal(decimal.RequireFromString("1000.99")))
	require.NotNil(t, row.Notes)
	assert.Equal(t, "montaż", *row.Notes)
}

func TestInputToModelAssignsPositions(t *testing.T) {
	input := SaveOfferInput{
		Number:       "OF/2026/002",
		OfferDate:    time.Now(),
		CustomerName: "Anna Nowak",
		Items: []ItemInput{
			{TypeID: "A", WidthMm: 1000, HeightMm: 1000},
			{TypeID: "B", WidthMm: 1000, HeightMm: 1000},
			{TypeID: "C", WidthMm: 1000, HeightMm: 1000},
		},
	}

	row := inputToModel(uuid.New(), input)
	require.Len(t, row.Items, 3)
	for i, item := range row.Items {
		assert.Equal(t, i, item.Position)
	}
	assert.Nil(t, row.Notes)
}

func TestAggregateModelRoundTrip(t *testing.T) {
	offer := NewOffer(Metadata{
		Number:       "OF/2026/003",
		OfferDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CustomerName: "Jan Kowalski",
		Notes:        "odbiór osobisty",
	})
	offer.AddItem(LineItem{
		TypeID:       "T_OKNO",
		WidthMm:      1600,
		HeightMm:     1100,
		Selections:   map[string]string{"Kolor": "KOL_ANT"},
		UnitNetPrice: decimal.RequireFromString("135.00"),
		Quantity:     intPtr(2),
	})

	userID := uuid.New()
	row := aggregateToModel(offer, userID)
	row.ID = uuid.New()

	rebuilt := AggregateFromModel(row)

	assert.Equal(t, offer.Meta(), rebuilt.Meta())
	require.NotNil(t, rebuilt.ID())
	assert.Equal(t, row.ID, *rebuilt.ID())

	items := rebuilt.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "T_OKNO", items[0].TypeID)
	assert.Equal(t, map[string]string{"Kolor": "KOL_ANT"}, items[0].Selections)
	assert.Equal(t, 2, items[0].EffectiveQuantity())

	assert.True(t, rebuilt.Totals().Gross.Equal(offer.Totals().Gross))
}

func TestAggregateFromModelKeepsStoredTotals(t *testing.T) {
	row := &models.Offer{
		ID:         uuid.New(),
		Number:     "OF/2026/004",
		NetTotal:   decimal.RequireFromString("500.00"),
		VATTotal:   decimal.RequireFromString("115.00"),
		GrossTotal: decimal.RequireFromString("615.00"),
	}

	rebuilt := AggregateFromModel(row)
	assert.True(t, rebuilt.Totals().Net.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, rebuilt.Totals().Gross.Equal(decimal.RequireFromString("615.00")))

	// A local recompute over the (empty) item list replaces them.
	rebuilt.RecomputeTotals()
	assert.True(t, rebuilt.Totals().Net.IsZero())
}
