package migrate

import (
	"context"
	"fmt"

	"github.com/rgoyal-dev/shopkart-backend/pkg/config"
	"github.com/rgoyal-dev/shopkart-backend/pkg/db"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot when auto-migrate is enabled.
// Production deploys run cmd/migrate explicitly instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil {
		return fmt.Errorf("config and db client are required")
	}
	if !cfg.App.AutoMigrate {
		return nil
	}
	if cfg.App.IsProd() {
		return fmt.Errorf("auto-migrate must not be enabled in prod")
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "running dev auto-migrations")
	}
	return Up(ctx, sqlDB, DefaultDir)
}
