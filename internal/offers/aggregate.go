package offers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
)

// VATRate is the flat VAT applied to every offer.
var VATRate = decimal.RequireFromString("0.23")

// Metadata carries the descriptive fields of an offer.
type Metadata struct {
	Number       string    `json:"number"`
	OfferDate    time.Time `json:"offer_date"`
	CustomerName string    `json:"customer_name"`
	Notes        string    `json:"notes"`
}

// Totals is the priced summary of an offer. Values are computed by
// RecomputeTotals only; nothing updates them incrementally.
type Totals struct {
	Net   decimal.Decimal `json:"net"`
	VAT   decimal.Decimal `json:"vat"`
	Gross decimal.Decimal `json:"gross"`
}

// Offer is the in-memory aggregate a configurator builds up before it is
// persisted. Item order is insertion order and is preserved through saves.
type Offer struct {
	id     *uuid.UUID
	meta   Metadata
	items  []LineItem
	totals Totals
}

// NewOffer starts an empty draft with the given metadata.
func NewOffer(meta Metadata) *Offer {
	return &Offer{meta: meta}
}

// ID returns the persistence identity, nil while the offer is unsaved.
func (o *Offer) ID() *uuid.UUID {
	return o.id
}

// SetID records the identity assigned by the store.
func (o *Offer) SetID(id uuid.UUID) {
	o.id = &id
}

// Meta returns the offer's descriptive fields.
func (o *Offer) Meta() Metadata {
	return o.meta
}

func (o *Offer) SetNumber(number string)     { o.meta.Number = number }
func (o *Offer) SetOfferDate(d time.Time)    { o.meta.OfferDate = d }
func (o *Offer) SetCustomerName(name string) { o.meta.CustomerName = name }
func (o *Offer) SetNotes(notes string)       { o.meta.Notes = notes }

// AddItem appends a committed line item and refreshes the totals.
func (o *Offer) AddItem(item LineItem) {
	o.items = append(o.items, item)
	o.RecomputeTotals()
}

// RemoveItem deletes the item at the given zero-based position. An index
// outside the list is an error and leaves the offer untouched.
func (o *Offer) RemoveItem(index int) error {
	if index < 0 || index >= len(o.items) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("item index %d out of range", index))
	}
	o.items = append(o.items[:index], o.items[index+1:]...)
	o.RecomputeTotals()
	return nil
}

// Items returns a copy of the line items in insertion order.
func (o *Offer) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

// ItemCount reports the number of line items.
func (o *Offer) ItemCount() int {
	return len(o.items)
}

// Totals returns the most recently computed summary.
func (o *Offer) Totals() Totals {
	return o.totals
}

// RecomputeTotals rebuilds the summary from scratch over all items. This is
// the only way totals change; repeated calls over the same items always
// produce the same result.
func (o *Offer) RecomputeTotals() {
	net := decimal.Zero
	for _, item := range o.items {
		net = net.Add(item.LineNetTotal())
	}

	vat := net.Mul(VATRate).Round(2)
	o.totals = Totals{
		Net:   net,
		VAT:   vat,
		Gross: net.Add(vat).Round(2),
	}
}
