package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListLines returns the user's cart with perfumes and their promotions.
func (r *Repository) ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Perfume").
		Preload("Perfume.Promotions").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).
		Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ListLinesForUpdate loads the user's cart under row locks so checkout
// sees a stable snapshot.
func (r *Repository) ListLinesForUpdate(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	q := r.db.WithContext(ctx)
	// SQLite (used in tests) locks at the database level already.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).
		Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FindLineByPerfume returns the user's line for a perfume if present.
func (r *Repository) FindLineByPerfume(ctx context.Context, userID, perfumeID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND perfume_id = ?", userID, perfumeID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindLine returns a cart line by id scoped to its owner.
func (r *Repository) FindLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CreateLine inserts a new cart line.
func (r *Repository) CreateLine(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLine overwrites quantity and captured price on an existing line.
func (r *Repository) UpdateLine(ctx context.Context, lineID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Updates(updates).
		Error
}

// DeleteLine removes one line scoped to its owner.
func (r *Repository) DeleteLine(ctx context.Context, userID, lineID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartLine{})
	return result.RowsAffected, result.Error
}

// Clear empties the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{}).
		Error
}
