package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maisonessence/parfumerie-backend/api/controllers"
	"github.com/maisonessence/parfumerie-backend/api/middleware"
	"github.com/maisonessence/parfumerie-backend/internal/auth"
	"github.com/maisonessence/parfumerie-backend/internal/cart"
	"github.com/maisonessence/parfumerie-backend/internal/catalog"
	checkoutsvc "github.com/maisonessence/parfumerie-backend/internal/checkout"
	"github.com/maisonessence/parfumerie-backend/internal/favorites"
	internalorders "github.com/maisonessence/parfumerie-backend/internal/orders"
	"github.com/maisonessence/parfumerie-backend/internal/promotions"
	"github.com/maisonessence/parfumerie-backend/internal/users"
	"github.com/maisonessence/parfumerie-backend/pkg/config"
	"github.com/maisonessence/parfumerie-backend/pkg/db"
	"github.com/maisonessence/parfumerie-backend/pkg/logger"
	"github.com/maisonessence/parfumerie-backend/pkg/metrics"
	pkgredis "github.com/maisonessence/parfumerie-backend/pkg/redis"
)

// Deps carries everything the router wires into its handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *pkgredis.Client
	Metrics   *metrics.HTTPMetrics
	Registry  *prometheus.Registry
	Auth      auth.Service
	Catalog   catalog.Service
	Promos    promotions.Service
	Cart      cart.Service
	Checkout  checkoutsvc.Service
	Orders    internalorders.Service
	Favorites favorites.Service
	Users     users.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.Idempotency(deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.Catalog, logg))
			r.Get("/new", controllers.CatalogNewArrivals(deps.Catalog, logg))
			r.Get("/trending", controllers.CatalogTrending(deps.Catalog, logg))
			r.Get("/{perfumeId}", controllers.CatalogDetail(deps.Catalog, logg))
			r.Get("/{perfumeId}/similar", controllers.CatalogSimilar(deps.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Get("/me", controllers.Profile(deps.Users, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Cart, logg))
				r.Post("/", controllers.CartAdd(deps.Cart, logg))
				r.Delete("/{lineId}", controllers.CartRemove(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(deps.Favorites, logg))
				r.Post("/", controllers.FavoritesAdd(deps.Favorites, logg))
				r.Get("/{perfumeId}", controllers.FavoritesCheck(deps.Favorites, logg))
				r.Delete("/{perfumeId}", controllers.FavoritesRemove(deps.Favorites, logg))
			})

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/purchases", controllers.PurchaseRecommendations(deps.Catalog, logg))
				r.Get("/favorites", controllers.FavoriteRecommendations(deps.Catalog, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/perfumes", func(r chi.Router) {
			r.Get("/", controllers.AdminPerfumesList(deps.Catalog, logg))
			r.Post("/", controllers.AdminPerfumesCreate(deps.Catalog, logg))
			r.Put("/{perfumeId}", controllers.AdminPerfumesUpdate(deps.Catalog, logg))
			r.Delete("/{perfumeId}", controllers.AdminPerfumesDelete(deps.Catalog, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", controllers.AdminPromotionsList(deps.Promos, logg))
			r.Post("/", controllers.AdminPromotionsCreate(deps.Promos, logg))
			r.Get("/{promotionId}", controllers.AdminPromotionsDetail(deps.Promos, logg))
			r.Put("/{promotionId}", controllers.AdminPromotionsUpdate(deps.Promos, logg))
			r.Delete("/{promotionId}", controllers.AdminPromotionsDelete(deps.Promos, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(deps.Users, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(deps.Users, logg))
			r.Put("/{userId}/phone", controllers.AdminUserUpdatePhone(deps.Users, logg))
		})
	})

	return r
}
