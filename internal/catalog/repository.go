package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/db/models"
)

// Repository exposes catalog option persistence.
type Repository interface {
	ListAll(ctx context.Context) ([]models.CatalogOption, error)
	ListByCategory(ctx context.Context, category string) ([]models.CatalogOption, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*models.CatalogOption, error)
	Create(ctx context.Context, option *models.CatalogOption) error
	Update(ctx context.Context, option *models.CatalogOption) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, options []models.CatalogOption) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]models.CatalogOption, error) {
	var rows []models.CatalogOption
	err := r.db.WithContext(ctx).
		Order("category ASC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]models.CatalogOption, error) {
	var rows []models.CatalogOption
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.CatalogOption{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.CatalogOption, error) {
	var row models.CatalogOption
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, option *models.CatalogOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *repository) Update(ctx context.Context, option *models.CatalogOption) error {
	result := r.db.WithContext(ctx).
		Model(&models.CatalogOption{}).
		Where("id = ?", option.ID).
		Updates(map[string]any{
			"category":       option.Category,
			"name":           option.Name,
			"unit_net_price": option.UnitNetPrice,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CatalogOption{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAll swaps the entire catalog inside one transaction. Used by the
// CSV import so a failed import never leaves a half-replaced catalog.
func (r *repository) ReplaceAll(ctx context.Context, options []models.CatalogOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CatalogOption{}).Error; err != nil {
			return err
		}
		if len(options) == 0 {
			return nil
		}
		return tx.CreateInBatches(options, 200).Error
	})
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CatalogOption{}).
		Count(&count).Error
	return count, err
}
