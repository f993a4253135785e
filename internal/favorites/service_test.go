package favorites

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

const favoritesTestSchema = `
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
CREATE TABLE favorites (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(6)))),
  user_id TEXT NOT NULL,
  perfume_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, perfume_id)
);
`

func setupFavoritesTest(t *testing.T, now time.Time) (*gorm.DB, Service) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(favoritesTestSchema).Error)

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		CatalogRepo: catalog.NewRepository(conn),
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)
	return conn, svc
}

func mustCreateFavoritesTestPerfume(t *testing.T, conn *gorm.DB, name string) *models.Perfume {
	t.Helper()
	perfume := &models.Perfume{
		ID:       uuid.New(),
		Name:     name,
		Brand:    "Maison Essence",
		Category: enums.PerfumeCategoryWomen,
		Price:    decimal.RequireFromString("95.00"),
		Stock:    3,
	}
	require.NoError(t, conn.Create(perfume).Error)
	return perfume
}

func TestAddAndCheckFavorite(t *testing.T) {
	conn, svc := setupFavoritesTest(t, time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC))
	perfume := mustCreateFavoritesTestPerfume(t, conn, "Iris Noir")
	userID := uuid.New()

	fav, err := svc.Add(context.Background(), userID, AddFavoritePayload{PerfumeID: perfume.ID.String()})
	require.NoError(t, err)
	require.Equal(t, perfume.ID, fav.PerfumeID)
	require.Equal(t, "Iris Noir", fav.Perfume.Name)

	status, err := svc.Check(context.Background(), userID, perfume.ID)
	require.NoError(t, err)
	require.True(t, status.IsFavorite)

	status, err = svc.Check(context.Background(), uuid.New(), perfume.ID)
	require.NoError(t, err)
	require.False(t, status.IsFavorite)
}

func TestAddDuplicateFavoriteConflicts(t *testing.T) {
	conn, svc := setupFavoritesTest(t, time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC))
	perfume := mustCreateFavoritesTestPerfume(t, conn, "Iris Noir")
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, AddFavoritePayload{PerfumeID: perfume.ID.String()})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), userID, AddFavoritePayload{PerfumeID: perfume.ID.String()})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.Favorite{}).
		Where("user_id = ? AND perfume_id = ?", userID, perfume.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddUnknownPerfumeFavorite(t *testing.T) {
	_, svc := setupFavoritesTest(t, time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC))

	_, err := svc.Add(context.Background(), uuid.New(), AddFavoritePayload{PerfumeID: uuid.NewString()})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveFavorite(t *testing.T) {
	conn, svc := setupFavoritesTest(t, time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC))
	perfume := mustCreateFavoritesTestPerfume(t, conn, "Iris Noir")
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, AddFavoritePayload{PerfumeID: perfume.ID.String()})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), userID, perfume.ID))

	err = svc.Remove(context.Background(), userID, perfume.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListAnnotatesLivePricing(t *testing.T) {
	conn, svc := setupFavoritesTest(t, time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC))
	perfume := mustCreateFavoritesTestPerfume(t, conn, "Iris Noir")
	userID := uuid.New()

	require.NoError(t, conn.Create(&models.Promotion{
		ID:              uuid.New(),
		PerfumeID:       perfume.ID,
		DiscountPercent: 30,
		StartDate:       time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}).Error)

	_, err := svc.Add(context.Background(), userID, AddFavoritePayload{PerfumeID: perfume.ID.String()})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, perfume.ID, items[0].Perfume.ID)
	require.True(t, items[0].Perfume.Pricing.HasPromotion)
	require.True(t, items[0].Perfume.Pricing.FinalPrice.Equal(decimal.RequireFromString("66.50")),
		"got %s", items[0].Perfume.Pricing.FinalPrice)
}
