package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	"github.com/maisonessence/parfumerie-backend/internal/pricing"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo        *Repository
	CatalogRepo *catalog.Repository
	Now         func() time.Time
}

// Service exposes cart reads and mutations. Prices are captured at
// mutation time; reads never rewrite the captured value.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, payload AddToCartPayload) (CartLineDTO, error)
	Remove(ctx context.Context, userID, lineID uuid.UUID) error
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	now         func() time.Time
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, catalogRepo: params.CatalogRepo, now: now}, nil
}

// Get returns the cart with live promotion annotation next to the
// captured unit prices.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	ref := s.now()
	dto := CartDTO{Lines: make([]CartLineDTO, 0, len(lines)), Subtotal: decimal.Zero}
	for i := range lines {
		lineDTO := toLineDTO(&lines[i], ref)
		dto.Lines = append(dto.Lines, lineDTO)
		dto.Subtotal = dto.Subtotal.Add(lineDTO.LineTotal)
	}
	dto.Subtotal = dto.Subtotal.Round(2)
	return dto, nil
}

// Add captures today's resolved price on the line. An existing line for
// the same perfume gets its quantity bumped and its captured price
// overwritten; the last write wins on concurrent adds.
func (s *service) Add(ctx context.Context, userID uuid.UUID, payload AddToCartPayload) (CartLineDTO, error) {
	if userID == uuid.Nil {
		return CartLineDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	perfumeID, err := uuid.Parse(payload.PerfumeID)
	if err != nil {
		return CartLineDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid perfume id")
	}

	perfume, err := s.catalogRepo.FindByID(ctx, perfumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartLineDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "perfume not found")
		}
		return CartLineDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load perfume")
	}
	if perfume.Stock <= 0 {
		return CartLineDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "perfume is out of stock")
	}

	ref := s.now()
	quote := pricing.QuoteFor(perfume, ref)

	existing, err := s.repo.FindLineByPerfume(ctx, userID, perfumeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return CartLineDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	var line *models.CartLine
	switch {
	case existing != nil:
		updates := map[string]any{
			"quantity":   existing.Quantity + payload.Quantity,
			"unit_price": quote.FinalPrice,
		}
		if err := s.repo.UpdateLine(ctx, existing.ID, updates); err != nil {
			return CartLineDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		existing.Quantity += payload.Quantity
		existing.UnitPrice = quote.FinalPrice
		line = existing
	default:
		created, err := s.repo.CreateLine(ctx, &models.CartLine{
			UserID:    userID,
			PerfumeID: perfumeID,
			Quantity:  payload.Quantity,
			UnitPrice: quote.FinalPrice,
		})
		if err != nil {
			return CartLineDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
		line = created
	}

	line.Perfume = perfume
	return toLineDTO(line, ref), nil
}

// Remove deletes a cart line owned by the user.
func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line id is required")
	}
	affected, err := s.repo.DeleteLine(ctx, userID, lineID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}
