package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
)

// activePromoClause matches perfumes with at least one promotion live
// at the reference date.
const activePromoClause = `EXISTS (
  SELECT 1 FROM promotions pr
  WHERE pr.perfume_id = perfumes.id
    AND pr.is_active
    AND pr.start_date <= ?
    AND pr.end_date >= ?
)`

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a perfume with its promotions regardless of stock.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Perfume, error) {
	var perfume models.Perfume
	err := r.db.WithContext(ctx).
		Preload("Promotions").
		First(&perfume, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &perfume, nil
}

// FindSnapshotsByIDs loads only the columns order snapshots need
// (name, brand, image) for a set of perfumes in a single query, keyed
// by perfume id. Absent ids are simply missing from the map.
func (r *Repository) FindSnapshotsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Perfume, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Perfume{}, nil
	}
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Select("id", "name", "brand", "image_url").
		Where("id IN ?", ids).
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Perfume, len(perfumes))
	for _, perfume := range perfumes {
		byID[perfume.ID] = perfume
	}
	return byID, nil
}

// ListInStock returns purchasable perfumes, optionally filtered by category.
func (r *Repository) ListInStock(ctx context.Context, category *enums.PerfumeCategory) ([]models.Perfume, error) {
	query := r.db.WithContext(ctx).
		Preload("Promotions").
		Where("stock > 0")
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var perfumes []models.Perfume
	if err := query.Order("created_at DESC").Find(&perfumes).Error; err != nil {
		return nil, err
	}
	return perfumes, nil
}

// ListNewArrivals returns the newest in-stock perfumes that have no
// promotion live at the reference date.
func (r *Repository) ListNewArrivals(ctx context.Context, refDate time.Time, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Where("stock > 0").
		Where("NOT "+activePromoClause, refDate, refDate).
		Order("created_at DESC").
		Limit(limit).
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	return perfumes, nil
}

// ListTrending returns in-stock perfumes ranked by scarcity.
func (r *Repository) ListTrending(ctx context.Context, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Preload("Promotions").
		Where("stock > 0").
		Order("stock ASC").
		Limit(limit).
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	return perfumes, nil
}

// ListSimilar returns random in-stock perfumes sharing a category,
// excluding the item itself.
func (r *Repository) ListSimilar(ctx context.Context, perfumeID uuid.UUID, category enums.PerfumeCategory, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Preload("Promotions").
		Where("stock > 0").
		Where("category = ?", category).
		Where("id <> ?", perfumeID).
		Order("RANDOM()").
		Limit(limit).
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	return perfumes, nil
}

// ListPurchaseRecommendations picks random in-stock perfumes from the
// categories the user has bought before, excluding already purchased items.
func (r *Repository) ListPurchaseRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Preload("Promotions").
		Where("stock > 0").
		Where(`category IN (
  SELECT DISTINCT p.category FROM order_lines ol
  JOIN orders o ON o.id = ol.order_id
  JOIN perfumes p ON p.id = ol.perfume_id
  WHERE o.user_id = ?
)`, userID).
		Where(`id NOT IN (
  SELECT ol.perfume_id FROM order_lines ol
  JOIN orders o ON o.id = ol.order_id
  WHERE o.user_id = ?
)`, userID).
		Order("RANDOM()").
		Limit(limit).
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	return perfumes, nil
}

// ListFavoriteRecommendations picks random in-stock perfumes from the
// categories the user has favorited, excluding the favorites themselves.
func (r *Repository) ListFavoriteRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Preload("Promotions").
		Where("stock > 0").
		Where(`category IN (
  SELECT DISTINCT p.category FROM favorites f
  JOIN perfumes p ON p.id = f.perfume_id
  WHERE f.user_id = ?
)`, userID).
		Where("id NOT IN (SELECT perfume_id FROM favorites WHERE user_id = ?)", userID).
		Order("RANDOM()").
		Limit(limit).
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	return perfumes, nil
}

// ListAll returns every perfume for the back office, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).
		Preload("Promotions").
		Order("created_at DESC").
		Find(&perfumes).
		Error
	if err != nil {
		return nil, err
	}
	return perfumes, nil
}

// Create inserts a new perfume.
func (r *Repository) Create(ctx context.Context, perfume *models.Perfume) (*models.Perfume, error) {
	if err := r.db.WithContext(ctx).Create(perfume).Error; err != nil {
		return nil, err
	}
	return perfume, nil
}

// Update persists the supplied column updates on a perfume.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Perfume{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// Delete removes the perfume; promotions cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Perfume{}).
		Error
}
