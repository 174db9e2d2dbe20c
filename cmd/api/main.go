package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rgoyal-dev/shopkart-backend/api/routes"
	"github.com/rgoyal-dev/shopkart-backend/internal/addresses"
	"github.com/rgoyal-dev/shopkart-backend/internal/cart"
	"github.com/rgoyal-dev/shopkart-backend/internal/catalog"
	"github.com/rgoyal-dev/shopkart-backend/internal/orders"
	"github.com/rgoyal-dev/shopkart-backend/internal/users"
	"github.com/rgoyal-dev/shopkart-backend/pkg/config"
	"github.com/rgoyal-dev/shopkart-backend/pkg/db"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
	"github.com/rgoyal-dev/shopkart-backend/pkg/metrics"
	"github.com/rgoyal-dev/shopkart-backend/pkg/migrate"
	"github.com/rgoyal-dev/shopkart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	addressRepo := addresses.NewRepository(dbClient.DB())
	addressService, err := addresses.NewService(addressRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cartRepo, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	placementLocker := redis.NewLocker(redisClient, "order-placement", cfg.Orders.PlacementLockTTL)
	orderService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		cartRepo,
		addressRepo,
		catalogRepo,
		dbClient,
		placementLocker,
		cfg.Orders,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Idempotency: redisClient,
			HTTPMetrics: metrics.NewHTTPMetrics(),
			Users:       userService,
			Catalog:     catalogService,
			Addresses:   addressService,
			Cart:        cartService,
			Orders:      orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
