package offers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/db/models"
	"github.com/fenstra/offers-backend/pkg/enums"
	"github.com/fenstra/offers-backend/pkg/pagination"
)

// ListFilter narrows and orders an offer listing. A nil UserID lists across
// all owners; regular users always get their own id injected.
type ListFilter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   string
	SortDir  enums.SortDirection
	UserID   *uuid.UUID
	Page     pagination.Params
}

var sortColumns = map[string]string{
	"number":        "number",
	"offer_date":    "offer_date",
	"customer_name": "customer_name",
	"created_at":    "created_at",
	"gross_total":   "gross_total",
}

// Repository exposes offer persistence.
type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, offer *models.Offer) error
	Replace(ctx context.Context, tx *gorm.DB, offer *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	List(ctx context.Context, filter ListFilter) ([]models.Offer, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed offer repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, offer *models.Offer) error {
	return tx.WithContext(ctx).Create(offer).Error
}

// Replace overwrites the offer row and swaps its items wholesale. Item rows
// never survive an update; the stored list is exactly what was sent.
func (r *repository) Replace(ctx context.Context, tx *gorm.DB, offer *models.Offer) error {
	conn := tx.WithContext(ctx)

	result := conn.Model(&models.Offer{}).
		Where("id = ?", offer.ID).
		Updates(map[string]any{
			"number":        offer.Number,
			"offer_date":    offer.OfferDate,
			"customer_name": offer.CustomerName,
			"notes":         offer.Notes,
			"net_total":     offer.NetTotal,
			"vat_total":     offer.VATTotal,
			"gross_total":   offer.GrossTotal,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := conn.Where("offer_id = ?", offer.ID).Delete(&models.OfferItem{}).Error; err != nil {
		return err
	}
	for i := range offer.Items {
		offer.Items[i].ID = uuid.Nil
		offer.Items[i].OfferID = offer.ID
	}
	if len(offer.Items) == 0 {
		return nil
	}
	return conn.Create(&offer.Items).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Offer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Offer{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(notes) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.DateFrom != nil {
		query = query.Where("offer_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("offer_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "offer_date"
	}
	direction := "DESC"
	if filter.SortDir == enums.SortAsc {
		direction = "ASC"
	}

	page := pagination.Normalize(filter.Page)
	var rows []models.Offer
	err := query.
		Order(column + " " + direction).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Offer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
