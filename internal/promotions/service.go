package promotions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

// ServiceParams groups dependencies for the promotions service.
type ServiceParams struct {
	Repo        *Repository
	CatalogRepo *catalog.Repository
}

// Service exposes back-office promotion management. Overlapping windows
// on the same perfume are allowed; the pricing resolver arbitrates.
type Service interface {
	List(ctx context.Context, perfumeID *uuid.UUID) ([]PromotionDTO, error)
	Get(ctx context.Context, promotionID uuid.UUID) (PromotionDTO, error)
	Create(ctx context.Context, payload CreatePromotionPayload) (PromotionDTO, error)
	Update(ctx context.Context, promotionID uuid.UUID, payload UpdatePromotionPayload) (PromotionDTO, error)
	Delete(ctx context.Context, promotionID uuid.UUID) error
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
}

// NewService builds a promotions service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotions repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo, catalogRepo: params.CatalogRepo}, nil
}

// List returns promotions, optionally scoped to one perfume.
func (s *service) List(ctx context.Context, perfumeID *uuid.UUID) ([]PromotionDTO, error) {
	promos, err := s.repo.List(ctx, perfumeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	items := make([]PromotionDTO, 0, len(promos))
	for i := range promos {
		items = append(items, toDTO(&promos[i]))
	}
	return items, nil
}

// Get returns a single promotion.
func (s *service) Get(ctx context.Context, promotionID uuid.UUID) (PromotionDTO, error) {
	promo, err := s.findPromotion(ctx, promotionID)
	if err != nil {
		return PromotionDTO{}, err
	}
	return toDTO(promo), nil
}

// Create validates the window and discount and inserts the promotion.
func (s *service) Create(ctx context.Context, payload CreatePromotionPayload) (PromotionDTO, error) {
	perfumeID, err := uuid.Parse(payload.PerfumeID)
	if err != nil {
		return PromotionDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid perfume id")
	}
	if _, err := s.catalogRepo.FindByID(ctx, perfumeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PromotionDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "perfume not found")
		}
		return PromotionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load perfume")
	}

	start, end, err := parseWindow(payload.StartDate, payload.EndDate)
	if err != nil {
		return PromotionDTO{}, err
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	promo := &models.Promotion{
		PerfumeID:       perfumeID,
		DiscountPercent: payload.DiscountPercent,
		StartDate:       start,
		EndDate:         end,
		Description:     payload.Description,
		IsActive:        active,
	}
	created, err := s.repo.Create(ctx, promo)
	if err != nil {
		return PromotionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}
	return toDTO(created), nil
}

// Update applies partial updates; a changed window is re-validated as a whole.
func (s *service) Update(ctx context.Context, promotionID uuid.UUID, payload UpdatePromotionPayload) (PromotionDTO, error) {
	promo, err := s.findPromotion(ctx, promotionID)
	if err != nil {
		return PromotionDTO{}, err
	}

	startRaw := promo.StartDate.Format(dateLayout)
	endRaw := promo.EndDate.Format(dateLayout)
	if payload.StartDate != nil {
		startRaw = *payload.StartDate
	}
	if payload.EndDate != nil {
		endRaw = *payload.EndDate
	}
	start, end, err := parseWindow(startRaw, endRaw)
	if err != nil {
		return PromotionDTO{}, err
	}

	updates := map[string]any{}
	if payload.DiscountPercent != nil {
		if *payload.DiscountPercent < 1 || *payload.DiscountPercent > 90 {
			return PromotionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 1 and 90")
		}
		updates["discount_percent"] = *payload.DiscountPercent
	}
	if payload.StartDate != nil {
		updates["start_date"] = start
	}
	if payload.EndDate != nil {
		updates["end_date"] = end
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if len(updates) == 0 {
		return PromotionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, promotionID, updates); err != nil {
		return PromotionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
	}
	updated, err := s.findPromotion(ctx, promotionID)
	if err != nil {
		return PromotionDTO{}, err
	}
	return toDTO(updated), nil
}

// Delete removes a promotion. Catalog prices fall back to the list price
// on the next read.
func (s *service) Delete(ctx context.Context, promotionID uuid.UUID) error {
	if _, err := s.findPromotion(ctx, promotionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, promotionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotion")
	}
	return nil
}

func (s *service) findPromotion(ctx context.Context, promotionID uuid.UUID) (*models.Promotion, error) {
	if promotionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id is required")
	}
	promo, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	return promo, nil
}

func parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}
	return start, end, nil
}
