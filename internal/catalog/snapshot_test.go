package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{ID: "T_OKNO", Category: TypeCategory, Name: "Okno PVC", UnitNetPrice: decimal.NewFromInt(100)},
		{ID: "T_DRZWI", Category: TypeCategory, Name: "Drzwi wejściowe", UnitNetPrice: decimal.NewFromInt(300)},
		{ID: "KOL_ANT", Category: "Kolor", Name: "Antracyt", UnitNetPrice: decimal.NewFromInt(25)},
		{ID: "SZ_3", Category: "Szyba", Name: "Pakiet trzyszybowy", UnitNetPrice: decimal.NewFromInt(40)},
		{ID: "KOL_BIA", Category: "Kolor", Name: "Biały", UnitNetPrice: decimal.Zero},
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot(sampleEntries())

	price, ok := snap.UnitNetPrice("KOL_ANT")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(25)))

	_, ok = snap.UnitNetPrice("NOPE")
	assert.False(t, ok)

	entry, ok := snap.ByID("SZ_3")
	require.True(t, ok)
	assert.Equal(t, "Pakiet trzyszybowy", entry.Name)
}

func TestSnapshotCategories(t *testing.T) {
	snap := NewSnapshot(sampleEntries())

	assert.Equal(t, []string{TypeCategory, "Kolor", "Szyba"}, snap.Categories())
	assert.Equal(t, []string{"Kolor", "Szyba"}, snap.SelectableCategories())
}

func TestSnapshotOptionsByCategory(t *testing.T) {
	snap := NewSnapshot(sampleEntries())

	kolory := snap.OptionsByCategory("Kolor")
	require.Len(t, kolory, 2)
	assert.Equal(t, "KOL_ANT", kolory[0].ID)
	assert.Equal(t, "KOL_BIA", kolory[1].ID)

	types := snap.ProductTypes()
	require.Len(t, types, 2)
	assert.Equal(t, "Okno PVC", types[0].Name)
}

func TestSnapshotIsDetachedFromInput(t *testing.T) {
	entries := sampleEntries()
	snap := NewSnapshot(entries)

	entries[0].Name = "mutated"
	got, ok := snap.ByID("T_OKNO")
	require.True(t, ok)
	assert.Equal(t, "Okno PVC", got.Name)
}
