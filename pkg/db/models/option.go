package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogOption is one priced entry of the option catalog. Entries in the
// "Typ elementu" category double as the base product types.
type CatalogOption struct {
	ID           string          `gorm:"column:id;type:text;primaryKey"`
	Category     string          `gorm:"column:category;type:text;not null;index"`
	Name         string          `gorm:"column:name;type:text;not null"`
	UnitNetPrice decimal.Decimal `gorm:"column:unit_net_price;type:numeric(12,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (CatalogOption) TableName() string {
	return "catalog_options"
}
