package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/cart"
	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	"github.com/maisonessence/parfumerie-backend/internal/orders"
	"github.com/maisonessence/parfumerie-backend/pkg/db"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
	"github.com/maisonessence/parfumerie-backend/pkg/logger"
)

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Client      *db.Client
	CartRepo    *cart.Repository
	OrdersRepo  *orders.Repository
	CatalogRepo *catalog.Repository
	Logger      *logger.Logger
}

// Service converts a cart into an immutable order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, payload CheckoutPayload) (CheckoutResultDTO, error)
}

type service struct {
	client      *db.Client
	cartRepo    *cart.Repository
	ordersRepo  *orders.Repository
	catalogRepo *catalog.Repository
	logg        *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		client:      params.Client,
		cartRepo:    params.CartRepo,
		ordersRepo:  params.OrdersRepo,
		catalogRepo: params.CatalogRepo,
		logg:        params.Logger,
	}, nil
}

// Checkout runs in a single transaction: lock the cart lines, sum the
// captured prices, write the order with denormalized lines and clear
// the cart. Promotions are never re-resolved here; the captured unit
// price is the contract with the customer.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, payload CheckoutPayload) (CheckoutResultDTO, error) {
	if userID == uuid.Nil {
		return CheckoutResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	paymentMethod, err := enums.ParsePaymentMethod(payload.PaymentMethod)
	if err != nil {
		return CheckoutResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method")
	}

	var result CheckoutResultDTO
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)

		lines, err := cartRepo.ListLinesForUpdate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		perfumeIDs := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			perfumeIDs = append(perfumeIDs, lines[i].PerfumeID)
		}
		snapshots, err := catalogRepo.FindSnapshotsByIDs(ctx, perfumeIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load perfumes for snapshot")
		}

		total := decimal.Zero
		itemsCount := 0
		orderLines := make([]models.OrderLine, 0, len(lines))
		for i := range lines {
			line := &lines[i]
			perfume, found := snapshots[line.PerfumeID]
			if !found {
				return pkgerrors.New(pkgerrors.CodeDependency, "perfume missing for snapshot")
			}

			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			total = total.Add(lineTotal)
			itemsCount += line.Quantity

			orderLines = append(orderLines, models.OrderLine{
				PerfumeID:    line.PerfumeID,
				PerfumeName:  perfume.Name,
				PerfumeBrand: perfume.Brand,
				ImageURL:     perfume.ImageURL,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice,
				LineTotal:    lineTotal,
			})
		}
		total = total.Round(2)

		order, err := ordersRepo.CreateOrder(ctx, &models.Order{
			UserID:        userID,
			Total:         total,
			ItemsCount:    itemsCount,
			CustomerName:  payload.Name,
			Phone:         payload.Phone,
			Address:       payload.Address,
			City:          payload.City,
			PostalCode:    payload.PostalCode,
			PaymentMethod: paymentMethod,
			Status:        enums.OrderStatusConfirmed,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range orderLines {
			orderLines[i].OrderID = order.ID
		}
		if err := ordersRepo.CreateLines(ctx, orderLines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}

		if err := cartRepo.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		result = CheckoutResultDTO{
			OrderID:    order.ID,
			Total:      total,
			ItemsCount: itemsCount,
		}
		return nil
	})
	if txErr != nil {
		return CheckoutResultDTO{}, txErr
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, result.OrderID.String())
		s.logg.Info(logCtx, "checkout.completed")
	}
	return result, nil
}
