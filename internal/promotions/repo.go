package promotions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// Repository encapsulates promotion persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promotion repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single promotion.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// List returns every promotion, optionally scoped to one perfume.
func (r *Repository) List(ctx context.Context, perfumeID *uuid.UUID) ([]models.Promotion, error) {
	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if perfumeID != nil {
		query = query.Where("perfume_id = ?", *perfumeID)
	}

	var promos []models.Promotion
	if err := query.Order("start_date DESC").Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// Create inserts a new promotion.
func (r *Repository) Create(ctx context.Context, promo *models.Promotion) (*models.Promotion, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Update persists the supplied column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// Delete removes the promotion.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Promotion{}).
		Error
}
