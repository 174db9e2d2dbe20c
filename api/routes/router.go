package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rgoyal-dev/shopkart-backend/api/controllers"
	"github.com/rgoyal-dev/shopkart-backend/api/middleware"
	"github.com/rgoyal-dev/shopkart-backend/internal/addresses"
	"github.com/rgoyal-dev/shopkart-backend/internal/cart"
	"github.com/rgoyal-dev/shopkart-backend/internal/catalog"
	"github.com/rgoyal-dev/shopkart-backend/internal/orders"
	"github.com/rgoyal-dev/shopkart-backend/internal/users"
	"github.com/rgoyal-dev/shopkart-backend/pkg/config"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
	"github.com/rgoyal-dev/shopkart-backend/pkg/metrics"
	pkgredis "github.com/rgoyal-dev/shopkart-backend/pkg/redis"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Idempotency pkgredis.IdempotencyStore
	HTTPMetrics *metrics.HTTPMetrics

	Users     users.Service
	Catalog   catalog.Service
	Addresses addresses.Service
	Cart      cart.Service
	Orders    orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.HTTPMetrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.Idempotency, logg)).Post("/register", controllers.Register(deps.Users, logg))
		r.Post("/login", controllers.Login(deps.Users, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Catalog, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(deps.Idempotency, logg),
		)

		r.Get("/vendors", controllers.VendorList(deps.Catalog, logg))

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", controllers.AddressCreate(deps.Addresses, logg))
			r.Get("/", controllers.AddressList(deps.Addresses, logg))
			r.Get("/{addressId}", controllers.AddressGet(deps.Addresses, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(string(enums.UserRoleAdmin), logg),
			middleware.Idempotency(deps.Idempotency, logg),
		)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderStatus(deps.Orders, logg))
			r.Post("/bulk-status", controllers.AdminOrderBulkStatus(deps.Orders, logg))
			r.Get("/{orderId}/relays", controllers.AdminOrderRelays(deps.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(deps.Catalog, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.Catalog, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.VendorCreate(deps.Catalog, logg))
			r.Get("/", controllers.VendorListAdmin(deps.Catalog, logg))
		})
	})

	return r
}
