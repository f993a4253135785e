package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/db"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

const ordersTestSchema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total TEXT NOT NULL,
  items_count INTEGER NOT NULL,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT,
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'confirmed',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  perfume_id TEXT NOT NULL,
  perfume_name TEXT NOT NULL,
  perfume_brand TEXT NOT NULL,
  image_url TEXT,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);
`

func setupOrdersTest(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(ordersTestSchema).Error)

	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		Client: db.NewFromConn(conn),
	})
	require.NoError(t, err)
	return conn, svc
}

func mustCreateTestOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Total:         decimal.RequireFromString("160.00"),
		ItemsCount:    2,
		CustomerName:  "Lina Haddad",
		Phone:         "+33123456789",
		Address:       "8 Rue des Parfumeurs",
		City:          "Paris",
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		Status:        status,
	}
	require.NoError(t, conn.Create(order).Error)
	require.NoError(t, conn.Create(&models.OrderLine{
		ID:           uuid.New(),
		OrderID:      order.ID,
		PerfumeID:    uuid.New(),
		PerfumeName:  "Santal Brume",
		PerfumeBrand: "Maison Essence",
		Quantity:     2,
		UnitPrice:    decimal.RequireFromString("80.00"),
		LineTotal:    decimal.RequireFromString("160.00"),
	}).Error)
	return order
}

func TestCancelConfirmedOrderDeletesIt(t *testing.T) {
	conn, svc := setupOrdersTest(t)
	userID := uuid.New()
	order := mustCreateTestOrder(t, conn, userID, enums.OrderStatusConfirmed)

	require.NoError(t, svc.Cancel(context.Background(), userID, order.ID))

	var orderCount, lineCount int64
	require.NoError(t, conn.Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount).Error)
	require.NoError(t, conn.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&lineCount).Error)
	require.EqualValues(t, 0, orderCount)
	require.EqualValues(t, 0, lineCount)
}

func TestCancelRefusesOnceFulfilmentStarted(t *testing.T) {
	conn, svc := setupOrdersTest(t)
	userID := uuid.New()

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	} {
		order := mustCreateTestOrder(t, conn, userID, status)

		err := svc.Cancel(context.Background(), userID, order.ID)
		require.Error(t, err, "status %s", status)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeStateConflict, typed.Code(), "status %s", status)

		var count int64
		require.NoError(t, conn.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error)
		require.EqualValues(t, 1, count, "status %s", status)
	}
}

func TestCancelMasksForeignOrders(t *testing.T) {
	conn, svc := setupOrdersTest(t)
	owner := uuid.New()
	order := mustCreateTestOrder(t, conn, owner, enums.OrderStatusConfirmed)

	err := svc.Cancel(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetForUserMasksForeignOrders(t *testing.T) {
	conn, svc := setupOrdersTest(t)
	owner := uuid.New()
	order := mustCreateTestOrder(t, conn, owner, enums.OrderStatusConfirmed)

	got, err := svc.GetForUser(context.Background(), owner, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)
	require.Len(t, got.Lines, 1)

	_, err = svc.GetForUser(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAdminUpdateStatusAllowsAnyTransition(t *testing.T) {
	conn, svc := setupOrdersTest(t)
	order := mustCreateTestOrder(t, conn, uuid.New(), enums.OrderStatusDelivered)

	got, err := svc.AdminUpdateStatus(context.Background(), order.ID, UpdateOrderStatusPayload{Status: "confirmed"})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusConfirmed, got.Status)

	var stored models.Order
	require.NoError(t, conn.First(&stored, "id = ?", order.ID).Error)
	require.Equal(t, enums.OrderStatusConfirmed, stored.Status)

	_, err = svc.AdminUpdateStatus(context.Background(), order.ID, UpdateOrderStatusPayload{Status: "shipped"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminListFilters(t *testing.T) {
	conn, svc := setupOrdersTest(t)

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Lina Haddad",
		Email:        "lina@example.com",
		PasswordHash: "hash",
		Role:         enums.UserRoleCustomer,
	}
	require.NoError(t, conn.Create(user).Error)

	confirmed := mustCreateTestOrder(t, conn, user.ID, enums.OrderStatusConfirmed)
	mustCreateTestOrder(t, conn, user.ID, enums.OrderStatusDelivered)

	status := enums.OrderStatusConfirmed
	items, err := svc.AdminList(context.Background(), AdminListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, confirmed.ID, items[0].ID)
	require.Equal(t, user.ID, items[0].UserID)
	require.Equal(t, "lina@example.com", items[0].UserEmail)

	future := time.Now().UTC().Add(24 * time.Hour)
	items, err = svc.AdminList(context.Background(), AdminListFilter{From: &future})
	require.NoError(t, err)
	require.Empty(t, items)
}
