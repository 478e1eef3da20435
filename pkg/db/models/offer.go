package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fenstra/offers-backend/pkg/types"
)

// Offer is a persisted commercial offer with its committed line items.
// Totals are stored exactly as the client computed them; the server never
// recomputes them on write.
type Offer struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Number       string          `gorm:"column:number;type:text;not null"`
	OfferDate    time.Time       `gorm:"column:offer_date;type:date;not null"`
	CustomerName string          `gorm:"column:customer_name;type:text;not null"`
	Notes        *string         `gorm:"column:notes;type:text"`
	NetTotal     decimal.Decimal `gorm:"column:net_total;type:numeric(14,2);not null;default:0"`
	VATTotal     decimal.Decimal `gorm:"column:vat_total;type:numeric(14,2);not null;default:0"`
	GrossTotal   decimal.Decimal `gorm:"column:gross_total;type:numeric(14,2);not null;default:0"`
	Items        []OfferItem     `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// OfferItem is one frozen-price product configuration inside an offer.
// Position preserves the insertion order the items were committed in.
type OfferItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OfferID       uuid.UUID       `gorm:"column:offer_id;type:uuid;not null;index"`
	Position      int             `gorm:"column:position;not null"`
	TypeID        string          `gorm:"column:type_id;type:text;not null"`
	WidthMm       int             `gorm:"column:width_mm;not null"`
	HeightMm      int             `gorm:"column:height_mm;not null"`
	Selections    types.StringMap `gorm:"column:selections;type:jsonb;serializer:json"`
	UnitNetPrice  decimal.Decimal `gorm:"column:unit_net_price;type:numeric(12,2);not null"`
	Quantity      *int            `gorm:"column:quantity"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
