package repository

import (
	"context"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(ctx context.Context, cartItem *model.CartItem) error
	FindByUserID(ctx context.Context, userID uint) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (*model.CartItem, error)
	IncrementQuantity(ctx context.Context, id uint) error
	DecrementQuantity(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
	SumQuantityByUserID(ctx context.Context, userID uint) (int, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, cartItem *model.CartItem) error {
	if err := r.db.WithContext(ctx).Omit("Product").Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"product_id": cartItem.ProductID,
			"quantity":   cartItem.Quantity,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      cartItem.UserID,
		"product_id":   cartItem.ProductID,
	})
	return nil
}

// FindByUserID returns the user's cart lines joined with their product.
// Inactive products are not joined; those lines come back with a zero
// Product.
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product", "is_active = ?", true).
		Order("id ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&cartItem).Error
	if err != nil {
		return nil, err
	}
	return &cartItem, nil
}

// IncrementQuantity adds one unit to the line identified by id in a single
// UPDATE, so concurrent increments are not lost.
func (r *cartRepository) IncrementQuantity(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", 1))
	if res.Error != nil {
		logger.Error("Failed to increment cart item quantity", res.Error, map[string]interface{}{
			"cart_item_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Cart item quantity incremented", map[string]interface{}{
		"cart_item_id": id,
	})
	return nil
}

// DecrementQuantity removes one unit from the line when its quantity is
// above one. It reports false when no row qualified.
func (r *cartRepository) DecrementQuantity(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND quantity > ?", id, 1).
		Update("quantity", gorm.Expr("quantity - ?", 1))
	if res.Error != nil {
		logger.Error("Failed to decrement cart item quantity", res.Error, map[string]interface{}{
			"cart_item_id": id,
		})
		return false, res.Error
	}

	logger.Debug("Cart item quantity decrement attempted", map[string]interface{}{
		"cart_item_id":  id,
		"rows_affected": res.RowsAffected,
	})
	return res.RowsAffected > 0, nil
}

func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	logger.Debug("Cart item deleted from database", map[string]interface{}{
		"cart_item_id": id,
	})
	return nil
}

func (r *cartRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{})
	if res.Error != nil {
		logger.Error("Failed to delete cart items by user ID from database", res.Error, map[string]interface{}{
			"user_id": userID,
		})
		return res.Error
	}

	logger.Debug("Cart items deleted by user ID from database", map[string]interface{}{
		"user_id": userID,
		"count":   res.RowsAffected,
	})
	return nil
}

func (r *cartRepository) SumQuantityByUserID(ctx context.Context, userID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		logger.Error("Failed to sum cart quantities", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return int(total), nil
}
