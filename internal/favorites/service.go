package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	"github.com/maisonessence/parfumerie-backend/pkg/db"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo        *Repository
	CatalogRepo *catalog.Repository
	Now         func() time.Time
}

// Service exposes per-user favorite management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error)
	Add(ctx context.Context, userID uuid.UUID, payload AddFavoritePayload) (FavoriteDTO, error)
	Remove(ctx context.Context, userID, perfumeID uuid.UUID) error
	Check(ctx context.Context, userID, perfumeID uuid.UUID) (FavoriteStatusDTO, error)
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	now         func() time.Time
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
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

// List returns the user's favorites annotated with live pricing.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	favorites, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	ref := s.now()
	items := make([]FavoriteDTO, 0, len(favorites))
	for i := range favorites {
		fav := &favorites[i]
		dto := FavoriteDTO{
			ID:        fav.ID,
			PerfumeID: fav.PerfumeID,
			CreatedAt: fav.CreatedAt,
		}
		if fav.Perfume != nil {
			dto.Perfume = catalog.NewPerfumeDTO(fav.Perfume, ref)
		}
		items = append(items, dto)
	}
	return items, nil
}

// Add saves a perfume. A second add for the same pair is a conflict and
// leaves the original row untouched.
func (s *service) Add(ctx context.Context, userID uuid.UUID, payload AddFavoritePayload) (FavoriteDTO, error) {
	if userID == uuid.Nil {
		return FavoriteDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	perfumeID, err := uuid.Parse(payload.PerfumeID)
	if err != nil {
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid perfume id")
	}

	perfume, err := s.catalogRepo.FindByID(ctx, perfumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "perfume not found")
		}
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load perfume")
	}

	favorite, err := s.repo.Add(ctx, userID, perfumeID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "perfume already in favorites")
		}
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}

	return FavoriteDTO{
		ID:        favorite.ID,
		PerfumeID: perfumeID,
		Perfume:   catalog.NewPerfumeDTO(perfume, s.now()),
		CreatedAt: favorite.CreatedAt,
	}, nil
}

// Remove drops the favorite; removing a non-favorite is not-found.
func (s *service) Remove(ctx context.Context, userID, perfumeID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if perfumeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "perfume id is required")
	}
	affected, err := s.repo.Remove(ctx, userID, perfumeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}

// Check answers whether the perfume is saved by the user.
func (s *service) Check(ctx context.Context, userID, perfumeID uuid.UUID) (FavoriteStatusDTO, error) {
	if userID == uuid.Nil {
		return FavoriteStatusDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if perfumeID == uuid.Nil {
		return FavoriteStatusDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "perfume id is required")
	}
	exists, err := s.repo.Exists(ctx, userID, perfumeID)
	if err != nil {
		return FavoriteStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return FavoriteStatusDTO{PerfumeID: perfumeID, IsFavorite: exists}, nil
}
