package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite. The unique (user, perfume) index surfaces a
// duplicate as a database error the caller maps to a conflict.
func (r *Repository) Add(ctx context.Context, userID, perfumeID uuid.UUID) (*models.Favorite, error) {
	favorite := &models.Favorite{UserID: userID, PerfumeID: perfumeID}
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}

// Remove deletes the favorite if present.
func (r *Repository) Remove(ctx context.Context, userID, perfumeID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		Delete(&models.Favorite{})
	return result.RowsAffected, result.Error
}

// List returns the user's favorites with perfumes and their promotions.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Perfume").
		Preload("Perfume.Promotions").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).
		Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// Exists reports whether the pair is already saved.
func (r *Repository) Exists(ctx context.Context, userID, perfumeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
