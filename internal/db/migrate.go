package db

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// Models lists every table owned by the storefront, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Product{},
		&model.InventoryItem{},
		&model.Address{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderLine{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
