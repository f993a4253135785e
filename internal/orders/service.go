package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/db"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo   *Repository
	Client *db.Client
}

// Service exposes order history for customers and fulfilment for admins.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error

	AdminList(ctx context.Context, filter AdminListFilter) ([]AdminOrderDTO, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (AdminOrderDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, payload UpdateOrderStatusPayload) (AdminOrderDTO, error)
}

type service struct {
	repo   *Repository
	client *db.Client
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	return &service{repo: params.Repo, client: params.Client}, nil
}

// ListForUser returns the user's order history, newest first.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		items = append(items, NewOrderDTO(&orders[i], false))
	}
	return items, nil
}

// GetForUser returns one order with lines; ownership is enforced by
// returning not-found for anybody else's order.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.UserID != userID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order, true), nil
}

// Cancel hard-deletes the order and its lines while the status still
// allows it. Processing, delivered and already-cancelled orders refuse.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if !order.Status.IsCancellable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		if err := repo.Delete(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

// AdminList returns filtered orders with the account identity attached.
func (s *service) AdminList(ctx context.Context, filter AdminListFilter) ([]AdminOrderDTO, error) {
	items, err := s.repo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return items, nil
}

// AdminGet returns one order with its snapshot lines.
func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (AdminOrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return AdminOrderDTO{}, err
	}
	return AdminOrderDTO{OrderDTO: NewOrderDTO(order, true), UserID: order.UserID}, nil
}

// AdminUpdateStatus moves an order between fulfilment states. Any
// transition among the known statuses is allowed for the back office.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, payload UpdateOrderStatusPayload) (AdminOrderDTO, error) {
	status, err := enums.ParseOrderStatus(payload.Status)
	if err != nil {
		return AdminOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return AdminOrderDTO{}, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status.String()); err != nil {
		return AdminOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return AdminOrderDTO{OrderDTO: NewOrderDTO(order, true), UserID: order.UserID}, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
