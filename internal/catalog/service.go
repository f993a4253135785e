package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/config"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   *Repository
	Limits config.CatalogConfig
	Now    func() time.Time
}

// Service exposes catalog reads and back-office catalog management.
type Service interface {
	List(ctx context.Context, category string) ([]PerfumeDTO, error)
	NewArrivals(ctx context.Context) ([]PerfumeDTO, error)
	Trending(ctx context.Context) ([]PerfumeDTO, error)
	Get(ctx context.Context, perfumeID uuid.UUID) (PerfumeDTO, error)
	Similar(ctx context.Context, perfumeID uuid.UUID) ([]PerfumeDTO, error)
	PurchaseRecommendations(ctx context.Context, userID uuid.UUID) ([]PerfumeDTO, error)
	FavoriteRecommendations(ctx context.Context, userID uuid.UUID) ([]PerfumeDTO, error)

	AdminList(ctx context.Context) ([]PerfumeDTO, error)
	AdminCreate(ctx context.Context, payload CreatePerfumePayload) (PerfumeDTO, error)
	AdminUpdate(ctx context.Context, perfumeID uuid.UUID, payload UpdatePerfumePayload) (PerfumeDTO, error)
	AdminDelete(ctx context.Context, perfumeID uuid.UUID) error
}

type service struct {
	repo   *Repository
	limits config.CatalogConfig
	now    func() time.Time
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		limits: params.Limits,
		now:    now,
	}, nil
}

// List returns purchasable perfumes, optionally filtered by category.
func (s *service) List(ctx context.Context, category string) ([]PerfumeDTO, error) {
	var filter *enums.PerfumeCategory
	if category != "" {
		parsed, err := enums.ParsePerfumeCategory(category)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category")
		}
		filter = &parsed
	}

	perfumes, err := s.repo.ListInStock(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}
	return s.annotate(perfumes), nil
}

// NewArrivals returns the newest in-stock items without a live promotion.
func (s *service) NewArrivals(ctx context.Context) ([]PerfumeDTO, error) {
	perfumes, err := s.repo.ListNewArrivals(ctx, s.refDate(), s.limits.NewArrivalsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list new arrivals")
	}
	return s.annotate(perfumes), nil
}

// Trending returns in-stock items ranked by ascending stock.
func (s *service) Trending(ctx context.Context) ([]PerfumeDTO, error) {
	perfumes, err := s.repo.ListTrending(ctx, s.limits.TrendingLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trending")
	}
	return s.annotate(perfumes), nil
}

// Get returns a single annotated item. Out-of-stock items stay loadable.
func (s *service) Get(ctx context.Context, perfumeID uuid.UUID) (PerfumeDTO, error) {
	perfume, err := s.findPerfume(ctx, perfumeID)
	if err != nil {
		return PerfumeDTO{}, err
	}
	return NewPerfumeDTO(perfume, s.now()), nil
}

// Similar returns random in-stock items from the same category.
func (s *service) Similar(ctx context.Context, perfumeID uuid.UUID) ([]PerfumeDTO, error) {
	perfume, err := s.findPerfume(ctx, perfumeID)
	if err != nil {
		return nil, err
	}
	perfumes, err := s.repo.ListSimilar(ctx, perfume.ID, perfume.Category, s.limits.SimilarLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list similar")
	}
	return s.annotate(perfumes), nil
}

// PurchaseRecommendations suggests items from categories the user bought.
func (s *service) PurchaseRecommendations(ctx context.Context, userID uuid.UUID) ([]PerfumeDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	perfumes, err := s.repo.ListPurchaseRecommendations(ctx, userID, s.limits.RecommendationsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase recommendations")
	}
	return s.annotate(perfumes), nil
}

// FavoriteRecommendations suggests items from categories the user favorited.
func (s *service) FavoriteRecommendations(ctx context.Context, userID uuid.UUID) ([]PerfumeDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	perfumes, err := s.repo.ListFavoriteRecommendations(ctx, userID, s.limits.RecommendationsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite recommendations")
	}
	return s.annotate(perfumes), nil
}

// AdminList returns every item including out-of-stock ones.
func (s *service) AdminList(ctx context.Context) ([]PerfumeDTO, error) {
	perfumes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list perfumes")
	}
	return s.annotate(perfumes), nil
}

// AdminCreate validates and inserts a catalog item.
func (s *service) AdminCreate(ctx context.Context, payload CreatePerfumePayload) (PerfumeDTO, error) {
	category, err := enums.ParsePerfumeCategory(payload.Category)
	if err != nil {
		return PerfumeDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category")
	}
	price, ok := parsePrice(payload.Price)
	if !ok {
		return PerfumeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
	}

	perfume := &models.Perfume{
		Name:        payload.Name,
		Brand:       payload.Brand,
		Description: payload.Description,
		Category:    category,
		Price:       price,
		Stock:       payload.Stock,
		ImageURL:    payload.ImageURL,
	}
	created, err := s.repo.Create(ctx, perfume)
	if err != nil {
		return PerfumeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create perfume")
	}
	return NewPerfumeDTO(created, s.now()), nil
}

// AdminUpdate applies partial updates after validating each field.
func (s *service) AdminUpdate(ctx context.Context, perfumeID uuid.UUID, payload UpdatePerfumePayload) (PerfumeDTO, error) {
	if _, err := s.findPerfume(ctx, perfumeID); err != nil {
		return PerfumeDTO{}, err
	}

	updates := map[string]any{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Brand != nil {
		updates["brand"] = *payload.Brand
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.Category != nil {
		category, err := enums.ParsePerfumeCategory(*payload.Category)
		if err != nil {
			return PerfumeDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown category")
		}
		updates["category"] = category
	}
	if payload.Price != nil {
		price, ok := parsePrice(*payload.Price)
		if !ok {
			return PerfumeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
		}
		updates["price"] = price
	}
	if payload.Stock != nil {
		if *payload.Stock < 0 {
			return PerfumeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *payload.Stock
	}
	if payload.ImageURL != nil {
		updates["image_url"] = *payload.ImageURL
	}
	if len(updates) == 0 {
		return PerfumeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, perfumeID, updates); err != nil {
		return PerfumeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update perfume")
	}
	updated, err := s.findPerfume(ctx, perfumeID)
	if err != nil {
		return PerfumeDTO{}, err
	}
	return NewPerfumeDTO(updated, s.now()), nil
}

// AdminDelete removes a perfume; its promotions cascade.
func (s *service) AdminDelete(ctx context.Context, perfumeID uuid.UUID) error {
	if _, err := s.findPerfume(ctx, perfumeID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, perfumeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete perfume")
	}
	return nil
}

func (s *service) findPerfume(ctx context.Context, perfumeID uuid.UUID) (*models.Perfume, error) {
	if perfumeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "perfume id is required")
	}
	perfume, err := s.repo.FindByID(ctx, perfumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "perfume not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load perfume")
	}
	return perfume, nil
}

func (s *service) annotate(perfumes []models.Perfume) []PerfumeDTO {
	ref := s.now()
	items := make([]PerfumeDTO, 0, len(perfumes))
	for i := range perfumes {
		items = append(items, NewPerfumeDTO(&perfumes[i], ref))
	}
	return items
}

func (s *service) refDate() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}
