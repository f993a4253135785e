package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/orders"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

const recentOrdersLimit = 5

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	Repo       *Repository
	OrdersRepo *orders.Repository
}

// Service exposes back-office account views and profile reads.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (UserDTO, error)

	AdminList(ctx context.Context) ([]AdminUserDTO, error)
	AdminGet(ctx context.Context, userID uuid.UUID) (AdminUserDetailDTO, error)
	AdminUpdatePhone(ctx context.Context, userID uuid.UUID, payload UpdatePhonePayload) (UserDTO, error)
}

type service struct {
	repo       *Repository
	ordersRepo *orders.Repository
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{repo: params.Repo, ordersRepo: params.OrdersRepo}, nil
}

// Profile returns the caller's own account.
func (s *service) Profile(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	return toDTO(user), nil
}

// AdminList returns every account with order aggregates.
func (s *service) AdminList(ctx context.Context) ([]AdminUserDTO, error) {
	items, err := s.repo.ListWithAggregates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return items, nil
}

// AdminGet returns one account with aggregates and recent orders.
func (s *service) AdminGet(ctx context.Context, userID uuid.UUID) (AdminUserDetailDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return AdminUserDetailDTO{}, err
	}

	orderCount, totalSpend, err := s.repo.AggregatesFor(ctx, userID)
	if err != nil {
		return AdminUserDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user aggregates")
	}

	recent, err := s.ordersRepo.ListByUser(ctx, userID)
	if err != nil {
		return AdminUserDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	recentDTOs := make([]orders.OrderDTO, 0, len(recent))
	for i := range recent {
		recentDTOs = append(recentDTOs, orders.NewOrderDTO(&recent[i], false))
	}

	return AdminUserDetailDTO{
		AdminUserDTO: AdminUserDTO{
			UserDTO:    toDTO(user),
			OrderCount: orderCount,
			TotalSpend: totalSpend,
		},
		RecentOrders: recentDTOs,
	}, nil
}

// AdminUpdatePhone changes the contact number on an account.
func (s *service) AdminUpdatePhone(ctx context.Context, userID uuid.UUID, payload UpdatePhonePayload) (UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	if err := s.repo.UpdatePhone(ctx, userID, payload.Phone); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update phone")
	}
	phone := payload.Phone
	user.Phone = &phone
	return toDTO(user), nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
