package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

const cartTestSchema = `
CREATE TABLE perfumes (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  brand TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  price TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE promotions (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(6)))),
  perfume_id TEXT NOT NULL,
  discount_percent INTEGER NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE cart_lines (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(6)))),
  user_id TEXT NOT NULL,
  perfume_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, perfume_id)
);
`

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(cartTestSchema).Error)
	return conn
}

func newCartTestService(t *testing.T, conn *gorm.DB, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		CatalogRepo: catalog.NewRepository(conn),
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func mustCreateCartTestPerfume(t *testing.T, conn *gorm.DB, price string, stock int) *models.Perfume {
	t.Helper()
	perfume := &models.Perfume{
		ID:       uuid.New(),
		Name:     "Oud Royale",
		Brand:    "Maison Essence",
		Category: enums.PerfumeCategoryUnisex,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, conn.Create(perfume).Error)
	return perfume
}

func mustCreateCartTestPromotion(t *testing.T, conn *gorm.DB, perfumeID uuid.UUID, percent int, start, end time.Time) *models.Promotion {
	t.Helper()
	promo := &models.Promotion{
		ID:              uuid.New(),
		PerfumeID:       perfumeID,
		DiscountPercent: percent,
		StartDate:       start,
		EndDate:         end,
		IsActive:        true,
	}
	require.NoError(t, conn.Create(promo).Error)
	return promo
}

func TestAddCapturesPromotionPrice(t *testing.T) {
	conn := setupCartTestDB(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newCartTestService(t, conn, now)

	perfume := mustCreateCartTestPerfume(t, conn, "100.00", 5)
	mustCreateCartTestPromotion(t, conn, perfume.ID, 20,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))

	userID := uuid.New()
	line, err := svc.Add(context.Background(), userID, AddToCartPayload{
		PerfumeID: perfume.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	require.True(t, line.UnitPrice.Equal(decimal.RequireFromString("80.00")), "got %s", line.UnitPrice)
	require.True(t, line.LineTotal.Equal(decimal.RequireFromString("160.00")), "got %s", line.LineTotal)
	require.True(t, line.LivePricing.HasPromotion)
}

func TestAddIgnoresAdvisoryUnitPrice(t *testing.T) {
	conn := setupCartTestDB(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newCartTestService(t, conn, now)

	perfume := mustCreateCartTestPerfume(t, conn, "49.99", 3)

	clientPrice := "1.00"
	line, err := svc.Add(context.Background(), uuid.New(), AddToCartPayload{
		PerfumeID: perfume.ID.String(),
		Quantity:  1,
		UnitPrice: &clientPrice,
	})
	require.NoError(t, err)
	require.True(t, line.UnitPrice.Equal(decimal.RequireFromString("49.99")), "got %s", line.UnitPrice)
}

func TestAddBumpsQuantityAndOverwritesCapturedPrice(t *testing.T) {
	conn := setupCartTestDB(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newCartTestService(t, conn, now)

	perfume := mustCreateCartTestPerfume(t, conn, "100.00", 10)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, AddToCartPayload{
		PerfumeID: perfume.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)

	// A promotion goes live between the two adds; the second add
	// re-captures today's resolved price on the whole line.
	mustCreateCartTestPromotion(t, conn, perfume.ID, 30,
		time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))

	line, err := svc.Add(context.Background(), userID, AddToCartPayload{
		PerfumeID: perfume.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Equal(t, 3, line.Quantity)
	require.True(t, line.UnitPrice.Equal(decimal.RequireFromString("70.00")), "got %s", line.UnitPrice)

	var count int64
	require.NoError(t, conn.Model(&models.CartLine{}).Where("user_id = ?", userID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddOutOfStock(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartTestService(t, conn, time.Now().UTC())

	perfume := mustCreateCartTestPerfume(t, conn, "60.00", 0)

	_, err := svc.Add(context.Background(), uuid.New(), AddToCartPayload{
		PerfumeID: perfume.ID.String(),
		Quantity:  1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddUnknownPerfume(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartTestService(t, conn, time.Now().UTC())

	_, err := svc.Add(context.Background(), uuid.New(), AddToCartPayload{
		PerfumeID: uuid.NewString(),
		Quantity:  1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetSubtotalUsesCapturedPrices(t *testing.T) {
	conn := setupCartTestDB(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newCartTestService(t, conn, now)

	perfume := mustCreateCartTestPerfume(t, conn, "120.00", 4)
	userID := uuid.New()

	// Captured at 50.00 back when a deeper promotion was live.
	require.NoError(t, conn.Create(&models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		PerfumeID: perfume.ID,
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("50.00"),
	}).Error)

	dto, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dto.Lines, 1)
	require.True(t, dto.Subtotal.Equal(decimal.RequireFromString("100.00")), "got %s", dto.Subtotal)
	// The live annotation reflects today's catalog price, not the capture.
	require.True(t, dto.Lines[0].LivePricing.FinalPrice.Equal(decimal.RequireFromString("120.00")))
}

func TestRemoveMissingLine(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartTestService(t, conn, time.Now().UTC())

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
