package repository

import (
	"context"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	Upsert(ctx context.Context, item *model.InventoryItem) error
	FindProductsByIDs(ctx context.Context, productIDs []uint) ([]model.Product, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Upsert(ctx context.Context, item *model.InventoryItem) error {
	err := r.db.WithContext(ctx).
		Omit("Product").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"location", "reorder_level", "updated_at"}),
		}).
		Create(item).Error
	if err != nil {
		logger.Error("Failed to upsert inventory item", err, map[string]interface{}{
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

// FindProductsByIDs reaches products through their inventory listing. The
// storefront visibility flag is not applied on this path.
func (r *inventoryRepository) FindProductsByIDs(ctx context.Context, productIDs []uint) ([]model.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var products []model.Product
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Joins("JOIN inventory_items ON inventory_items.product_id = products.id").
		Where("products.id IN ?", productIDs).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products through inventory", err, map[string]interface{}{
			"product_ids": productIDs,
		})
		return nil, err
	}

	logger.Debug("Products found through inventory", map[string]interface{}{
		"requested": len(productIDs),
		"found":     len(products),
	})
	return products, nil
}
