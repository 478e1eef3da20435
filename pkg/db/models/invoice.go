package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fenstra/offers-backend/pkg/types"
)

// Invoice is issued from a persisted offer. Amounts are copied from the
// offer at issue time and stay frozen afterwards.
type Invoice struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OfferID       uuid.UUID       `gorm:"column:offer_id;type:uuid;not null;index"`
	Number        string          `gorm:"column:number;type:text;not null;uniqueIndex"`
	IssueDate     time.Time       `gorm:"column:issue_date;type:date;not null"`
	DueDate       time.Time       `gorm:"column:due_date;type:date;not null"`
	PaymentMethod string          `gorm:"column:payment_method;type:text;not null;default:'przelew bankowy'"`
	ClientInfo    types.StringMap `gorm:"column:client_info;type:jsonb;serializer:json"`
	Notes         *string         `gorm:"column:notes;type:text"`
	Currency      string          `gorm:"column:currency;type:text;not null;default:'EUR'"`
	NetTotal      decimal.Decimal `gorm:"column:net_total;type:numeric(14,2);not null;default:0"`
	VATAmount     decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,2);not null;default:0"`
	GrossTotal    decimal.Decimal `gorm:"column:gross_total;type:numeric(14,2);not null;default:0"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// InvoiceItem mirrors an offer item at invoice issue time, with option ids
// resolved to display names.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	TypeID      string          `gorm:"column:type_id;type:text;not null"`
	WidthMm     int             `gorm:"column:width_mm;not null"`
	HeightMm    int             `gorm:"column:height_mm;not null"`
	Quantity    int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	OptionNames types.StringMap `gorm:"column:option_names;type:jsonb;serializer:json"`
	NetAmount   decimal.Decimal `gorm:"column:net_amount;type:numeric(14,2);not null"`
	GrossAmount decimal.Decimal `gorm:"column:gross_amount;type:numeric(14,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
