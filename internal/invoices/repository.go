package invoices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/db/models"
	"github.com/fenstra/offers-backend/pkg/pagination"
)

// Repository exposes invoice persistence.
type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, ownerID *uuid.UUID, page pagination.Params) ([]models.Invoice, int64, error)
	ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Invoice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed invoice repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error {
	return tx.WithContext(ctx).Create(invoice).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List returns invoices newest first. A non-nil ownerID narrows the result
// to invoices issued from that user's offers.
func (r *repository) List(ctx context.Context, ownerID *uuid.UUID, page pagination.Params) ([]models.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Invoice{})
	if ownerID != nil {
		query = query.
			Joins("JOIN offers ON offers.id = invoices.offer_id").
			Where("offers.user_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = pagination.Normalize(page)
	var rows []models.Invoice
	err := query.
		Order("issue_date DESC, number DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("issue_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
