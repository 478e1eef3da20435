package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/fenstra/offers-backend/pkg/db/models"
)

// TypeCategory is the distinguished catalog category whose entries are the
// base product types rather than add-on options.
const TypeCategory = "Typ elementu"

// Entry is one priced catalog option inside a snapshot.
type Entry struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	Name         string          `json:"name"`
	UnitNetPrice decimal.Decimal `json:"unit_net_price"`
}

// Snapshot is an immutable view of the option catalog. A single snapshot
// backs one pricing computation; later catalog edits never leak into it.
type Snapshot struct {
	entries []Entry
	byID    map[string]Entry
}

// NewSnapshot indexes the provided entries. The input slice is copied.
func NewSnapshot(entries []Entry) *Snapshot {
	copied := make([]Entry, len(entries))
	copy(copied, entries)

	byID := make(map[string]Entry, len(copied))
	for _, entry := range copied {
		byID[entry.ID] = entry
	}
	return &Snapshot{entries: copied, byID: byID}
}

func snapshotFromModels(rows []models.CatalogOption) *Snapshot {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{
			ID:           row.ID,
			Category:     row.Category,
			Name:         row.Name,
			UnitNetPrice: row.UnitNetPrice,
		})
	}
	return NewSnapshot(entries)
}

// ByID returns the entry for the given option id.
func (s *Snapshot) ByID(id string) (Entry, bool) {
	entry, ok := s.byID[id]
	return entry, ok
}

// UnitNetPrice resolves an option id to its price, satisfying the pricing
// engine's lookup contract.
func (s *Snapshot) UnitNetPrice(id string) (decimal.Decimal, bool) {
	entry, ok := s.byID[id]
	if !ok {
		return decimal.Zero, false
	}
	return entry.UnitNetPrice, true
}

// Len reports the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all entries in catalog order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Categories returns the distinct categories in first-appearance order.
// Recomputed per snapshot so catalog edits surface new categories without
// code changes.
func (s *Snapshot) Categories() []string {
	seen := make(map[string]struct{}, len(s.entries))
	var out []string
	for _, entry := range s.entries {
		if _, ok := seen[entry.Category]; ok {
			continue
		}
		seen[entry.Category] = struct{}{}
		out = append(out, entry.Category)
	}
	return out
}

// SelectableCategories returns the categories a configurator offers for
// option selection, which excludes the base type category.
func (s *Snapshot) SelectableCategories() []string {
	var out []string
	for _, category := range s.Categories() {
		if category == TypeCategory {
			continue
		}
		out = append(out, category)
	}
	return out
}

// OptionsByCategory returns the entries tagged with the given category.
func (s *Snapshot) OptionsByCategory(category string) []Entry {
	var out []Entry
	for _, entry := range s.entries {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out
}

// ProductTypes returns the entries of the base type category.
func (s *Snapshot) ProductTypes() []Entry {
	return s.OptionsByCategory(TypeCategory)
}
