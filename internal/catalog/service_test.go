package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/config"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
)

const catalogTestSchema = `
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
  order_id TEXT NOT NULL,
  perfume_id TEXT NOT NULL,
  perfume_name TEXT NOT NULL,
  perfume_brand TEXT NOT NULL,
  image_url TEXT,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);
CREATE TABLE favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  perfume_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, perfume_id)
);
`

var catalogTestNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func setupCatalogTest(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(catalogTestSchema).Error)

	svc, err := NewService(ServiceParams{
		Repo: NewRepository(conn),
		Limits: config.CatalogConfig{
			NewArrivalsLimit:     10,
			TrendingLimit:        8,
			SimilarLimit:         5,
			RecommendationsLimit: 5,
		},
		Now: func() time.Time { return catalogTestNow },
	})
	require.NoError(t, err)
	return conn, svc
}

func mustCreateCatalogPerfume(t *testing.T, conn *gorm.DB, name string, category enums.PerfumeCategory, price string, stock int) *models.Perfume {
	t.Helper()
	perfume := &models.Perfume{
		ID:       uuid.New(),
		Name:     name,
		Brand:    "Maison Essence",
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, conn.Create(perfume).Error)
	return perfume
}

func mustCreateCatalogPromotion(t *testing.T, conn *gorm.DB, perfumeID uuid.UUID, percent int, start, end time.Time, active bool) *models.Promotion {
	t.Helper()
	promo := &models.Promotion{
		ID:              uuid.New(),
		PerfumeID:       perfumeID,
		DiscountPercent: percent,
		StartDate:       start,
		EndDate:         end,
		IsActive:        active,
	}
	require.NoError(t, conn.Create(promo).Error)
	return promo
}

func TestListFiltersStockAndCategory(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	mustCreateCatalogPerfume(t, conn, "Vetiver Sauvage", enums.PerfumeCategoryMen, "80.00", 4)
	mustCreateCatalogPerfume(t, conn, "Iris Noir", enums.PerfumeCategoryWomen, "95.00", 2)
	mustCreateCatalogPerfume(t, conn, "Sold Out", enums.PerfumeCategoryWomen, "60.00", 0)

	items, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = svc.List(context.Background(), "women")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Iris Noir", items[0].Name)

	_, err = svc.List(context.Background(), "floral")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestNewArrivalsExcludesPromotedItems(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	plain := mustCreateCatalogPerfume(t, conn, "Vetiver Sauvage", enums.PerfumeCategoryMen, "80.00", 4)
	promoted := mustCreateCatalogPerfume(t, conn, "Iris Noir", enums.PerfumeCategoryWomen, "95.00", 2)
	expired := mustCreateCatalogPerfume(t, conn, "Fig Accord", enums.PerfumeCategoryUnisex, "70.00", 3)

	mustCreateCatalogPromotion(t, conn, promoted.ID, 20,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), true)
	mustCreateCatalogPromotion(t, conn, expired.ID, 20,
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), true)

	items, err := svc.NewArrivals(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	require.ElementsMatch(t, []string{plain.Name, expired.Name}, names)
}

func TestTrendingRanksByScarcity(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	mustCreateCatalogPerfume(t, conn, "Plenty", enums.PerfumeCategoryMen, "80.00", 9)
	mustCreateCatalogPerfume(t, conn, "Scarce", enums.PerfumeCategoryMen, "80.00", 1)
	mustCreateCatalogPerfume(t, conn, "Middling", enums.PerfumeCategoryMen, "80.00", 4)

	items, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Scarce", items[0].Name)
	require.Equal(t, "Middling", items[1].Name)
	require.Equal(t, "Plenty", items[2].Name)
}

func TestGetAnnotatesActivePromotion(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	perfume := mustCreateCatalogPerfume(t, conn, "Iris Noir", enums.PerfumeCategoryWomen, "100.00", 0)
	mustCreateCatalogPromotion(t, conn, perfume.ID, 25,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), true)

	// Out-of-stock items stay loadable on the detail page.
	item, err := svc.Get(context.Background(), perfume.ID)
	require.NoError(t, err)
	require.True(t, item.Pricing.HasPromotion)
	require.True(t, item.Pricing.FinalPrice.Equal(decimal.RequireFromString("75.00")),
		"got %s", item.Pricing.FinalPrice)
	require.Equal(t, 25, item.Pricing.DiscountPercent)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSimilarSharesCategoryAndExcludesSelf(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	anchor := mustCreateCatalogPerfume(t, conn, "Iris Noir", enums.PerfumeCategoryWomen, "95.00", 2)
	peer := mustCreateCatalogPerfume(t, conn, "Rose Ambre", enums.PerfumeCategoryWomen, "85.00", 3)
	mustCreateCatalogPerfume(t, conn, "Vetiver Sauvage", enums.PerfumeCategoryMen, "80.00", 4)
	mustCreateCatalogPerfume(t, conn, "Sold Out Peer", enums.PerfumeCategoryWomen, "60.00", 0)

	items, err := svc.Similar(context.Background(), anchor.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, peer.ID, items[0].ID)
}

func TestPurchaseRecommendationsFollowBoughtCategories(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	bought := mustCreateCatalogPerfume(t, conn, "Vetiver Sauvage", enums.PerfumeCategoryMen, "80.00", 4)
	suggestion := mustCreateCatalogPerfume(t, conn, "Cedre Brut", enums.PerfumeCategoryMen, "75.00", 6)
	mustCreateCatalogPerfume(t, conn, "Iris Noir", enums.PerfumeCategoryWomen, "95.00", 2)

	userID := uuid.New()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Total:         decimal.RequireFromString("80.00"),
		ItemsCount:    1,
		CustomerName:  "Lina Haddad",
		Phone:         "+33123456789",
		Address:       "8 Rue des Parfumeurs",
		City:          "Paris",
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		Status:        enums.OrderStatusConfirmed,
	}
	require.NoError(t, conn.Create(order).Error)
	require.NoError(t, conn.Create(&models.OrderLine{
		ID:           uuid.New(),
		OrderID:      order.ID,
		PerfumeID:    bought.ID,
		PerfumeName:  bought.Name,
		PerfumeBrand: bought.Brand,
		Quantity:     1,
		UnitPrice:    bought.Price,
		LineTotal:    bought.Price,
	}).Error)

	items, err := svc.PurchaseRecommendations(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, suggestion.ID, items[0].ID)
}

func TestFavoriteRecommendationsFollowSavedCategories(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	saved := mustCreateCatalogPerfume(t, conn, "Iris Noir", enums.PerfumeCategoryWomen, "95.00", 2)
	suggestion := mustCreateCatalogPerfume(t, conn, "Rose Ambre", enums.PerfumeCategoryWomen, "85.00", 3)
	mustCreateCatalogPerfume(t, conn, "Vetiver Sauvage", enums.PerfumeCategoryMen, "80.00", 4)

	userID := uuid.New()
	require.NoError(t, conn.Create(&models.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		PerfumeID: saved.ID,
	}).Error)

	items, err := svc.FavoriteRecommendations(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, suggestion.ID, items[0].ID)
}

func TestAdminCreateValidatesPrice(t *testing.T) {
	_, svc := setupCatalogTest(t)

	item, err := svc.AdminCreate(context.Background(), CreatePerfumePayload{
		Name:     "Fig Accord",
		Brand:    "Maison Essence",
		Category: "unisex",
		Price:    "49.90",
		Stock:    5,
	})
	require.NoError(t, err)
	require.True(t, item.Pricing.ListPrice.Equal(decimal.RequireFromString("49.90")))

	for _, price := range []string{"abc", "-1.00"} {
		_, err := svc.AdminCreate(context.Background(), CreatePerfumePayload{
			Name:     "Fig Accord",
			Brand:    "Maison Essence",
			Category: "unisex",
			Price:    price,
			Stock:    5,
		})
		require.Error(t, err, "price %s", price)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code(), "price %s", price)
	}
}

func TestAdminUpdateAppliesPartialChanges(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	perfume := mustCreateCatalogPerfume(t, conn, "Fig Accord", enums.PerfumeCategoryUnisex, "49.90", 5)

	price := "59.90"
	stock := 12
	item, err := svc.AdminUpdate(context.Background(), perfume.ID, UpdatePerfumePayload{
		Price: &price,
		Stock: &stock,
	})
	require.NoError(t, err)
	require.True(t, item.Pricing.ListPrice.Equal(decimal.RequireFromString("59.90")))
	require.Equal(t, 12, item.Stock)
	require.Equal(t, "Fig Accord", item.Name)

	_, err = svc.AdminUpdate(context.Background(), perfume.ID, UpdatePerfumePayload{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminDeleteUnknownPerfume(t *testing.T) {
	_, svc := setupCatalogTest(t)

	err := svc.AdminDelete(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
