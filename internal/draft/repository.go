package draft

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for the current draft's staged lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// List returns the staged lines in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.DraftItem, error) {
	var items []models.DraftItem
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByProductID loads the staged line for the product, if any.
func (r *Repository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.DraftItem, error) {
	var item models.DraftItem
	if err := r.db.WithContext(ctx).First(&item, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create appends a new staged line.
func (r *Repository) Create(ctx context.Context, item *models.DraftItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets the staged quantity for an existing line.
func (r *Repository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.DraftItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

// DeleteByProductID removes the staged line for the product and reports
// whether a line existed.
func (r *Repository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.DraftItem{}, "product_id = ?", productID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Clear drops every staged line.
func (r *Repository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.DraftItem{}).Error
}
