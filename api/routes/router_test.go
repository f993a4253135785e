package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maisonessence/parfumerie-backend/internal/auth"
	"github.com/maisonessence/parfumerie-backend/internal/cart"
	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	checkoutsvc "github.com/maisonessence/parfumerie-backend/internal/checkout"
	"github.com/maisonessence/parfumerie-backend/internal/favorites"
	internalorders "github.com/maisonessence/parfumerie-backend/internal/orders"
	"github.com/maisonessence/parfumerie-backend/internal/promotions"
	"github.com/maisonessence/parfumerie-backend/internal/users"
	pkgauth "github.com/maisonessence/parfumerie-backend/pkg/auth"
	"github.com/maisonessence/parfumerie-backend/pkg/config"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	"github.com/maisonessence/parfumerie-backend/pkg/logger"
	"github.com/maisonessence/parfumerie-backend/pkg/metrics"
	pkgredis "github.com/maisonessence/parfumerie-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterPayload) (auth.SessionDTO, error) {
	return auth.SessionDTO{AccessToken: "stub"}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginPayload) (auth.SessionDTO, error) {
	return auth.SessionDTO{AccessToken: "stub"}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(context.Context, string) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) NewArrivals(context.Context) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) Trending(context.Context) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) Get(context.Context, uuid.UUID) (catalog.PerfumeDTO, error) {
	return catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) Similar(context.Context, uuid.UUID) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) PurchaseRecommendations(context.Context, uuid.UUID) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) FavoriteRecommendations(context.Context, uuid.UUID) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) AdminList(context.Context) ([]catalog.PerfumeDTO, error) {
	return []catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) AdminCreate(context.Context, catalog.CreatePerfumePayload) (catalog.PerfumeDTO, error) {
	return catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) AdminUpdate(context.Context, uuid.UUID, catalog.UpdatePerfumePayload) (catalog.PerfumeDTO, error) {
	return catalog.PerfumeDTO{}, nil
}

func (stubCatalogService) AdminDelete(context.Context, uuid.UUID) error { return nil }

type stubPromotionsService struct{}

func (stubPromotionsService) List(context.Context, *uuid.UUID) ([]promotions.PromotionDTO, error) {
	return []promotions.PromotionDTO{}, nil
}

func (stubPromotionsService) Get(context.Context, uuid.UUID) (promotions.PromotionDTO, error) {
	return promotions.PromotionDTO{}, nil
}

func (stubPromotionsService) Create(context.Context, promotions.CreatePromotionPayload) (promotions.PromotionDTO, error) {
	return promotions.PromotionDTO{}, nil
}

func (stubPromotionsService) Update(context.Context, uuid.UUID, promotions.UpdatePromotionPayload) (promotions.PromotionDTO, error) {
	return promotions.PromotionDTO{}, nil
}

func (stubPromotionsService) Delete(context.Context, uuid.UUID) error { return nil }

type stubCartService struct{}

func (stubCartService) Get(context.Context, uuid.UUID) (cart.CartDTO, error) {
	return cart.CartDTO{Lines: []cart.CartLineDTO{}}, nil
}

func (stubCartService) Add(context.Context, uuid.UUID, cart.AddToCartPayload) (cart.CartLineDTO, error) {
	return cart.CartLineDTO{}, nil
}

func (stubCartService) Remove(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubCheckoutService struct{}

func (stubCheckoutService) Checkout(context.Context, uuid.UUID, checkoutsvc.CheckoutPayload) (checkoutsvc.CheckoutResultDTO, error) {
	return checkoutsvc.CheckoutResultDTO{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListForUser(context.Context, uuid.UUID) ([]internalorders.OrderDTO, error) {
	return []internalorders.OrderDTO{}, nil
}

func (stubOrdersService) GetForUser(context.Context, uuid.UUID, uuid.UUID) (internalorders.OrderDTO, error) {
	return internalorders.OrderDTO{}, nil
}

func (stubOrdersService) Cancel(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubOrdersService) AdminList(context.Context, internalorders.AdminListFilter) ([]internalorders.AdminOrderDTO, error) {
	return []internalorders.AdminOrderDTO{}, nil
}

func (stubOrdersService) AdminGet(context.Context, uuid.UUID) (internalorders.AdminOrderDTO, error) {
	return internalorders.AdminOrderDTO{}, nil
}

func (stubOrdersService) AdminUpdateStatus(context.Context, uuid.UUID, internalorders.UpdateOrderStatusPayload) (internalorders.AdminOrderDTO, error) {
	return internalorders.AdminOrderDTO{}, nil
}

type stubFavoritesService struct{}

func (stubFavoritesService) List(context.Context, uuid.UUID) ([]favorites.FavoriteDTO, error) {
	return []favorites.FavoriteDTO{}, nil
}

func (stubFavoritesService) Add(context.Context, uuid.UUID, favorites.AddFavoritePayload) (favorites.FavoriteDTO, error) {
	return favorites.FavoriteDTO{}, nil
}

func (stubFavoritesService) Remove(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubFavoritesService) Check(context.Context, uuid.UUID, uuid.UUID) (favorites.FavoriteStatusDTO, error) {
	return favorites.FavoriteStatusDTO{}, nil
}

type stubUsersService struct{}

func (stubUsersService) Profile(context.Context, uuid.UUID) (users.UserDTO, error) {
	return users.UserDTO{}, nil
}

func (stubUsersService) AdminList(context.Context) ([]users.AdminUserDTO, error) {
	return []users.AdminUserDTO{}, nil
}

func (stubUsersService) AdminGet(context.Context, uuid.UUID) (users.AdminUserDetailDTO, error) {
	return users.AdminUserDetailDTO{}, nil
}

func (stubUsersService) AdminUpdatePhone(context.Context, uuid.UUID, users.UpdatePhonePayload) (users.UserDTO, error) {
	return users.UserDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, registry *prometheus.Registry) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}
	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        stubPinger{},
		Redis:     (*pkgredis.Client)(nil),
		Metrics:   httpMetrics,
		Registry:  registry,
		Auth:      stubAuthService{},
		Catalog:   stubCatalogService{},
		Promos:    stubPromotionsService{},
		Cart:      stubCartService{},
		Checkout:  stubCheckoutService{},
		Orders:    stubOrdersService{},
		Favorites: stubFavoritesService{},
		Users:     stubUsersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveAnnouncesEnvironment(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Parfumerie-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	for _, path := range []string{"/api/v1/catalog/", "/api/v1/catalog/new", "/api/v1/catalog/trending"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	missing := httptest.NewRequest(http.MethodGet, "/api/admin/v1/perfumes/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/perfumes/", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/perfumes/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestOrderCancelRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	// The cancel route lives on a mounted subrouter, so the guard has
	// to match the raw path, not just the chi route pattern.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestMetricsEndpointExposedWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	router := newTestRouter(testConfig(), registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics got %d", resp.Code)
	}
}
