package service

import (
	"context"
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartService interface {
	GetUserCart(ctx context.Context, userID uint) ([]model.CartItem, error)
	AddToCart(ctx context.Context, userID, productID uint) error
	RemoveFromCart(ctx context.Context, userID, productID uint) error
	GetCartCount(ctx context.Context, userID uint) int
	ClearCart(ctx context.Context, userID uint) error
}

type cartService struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) GetUserCart(ctx context.Context, userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// AddToCart puts one more unit of the product in the user's cart.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartRequest
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err == nil {
		return s.increment(ctx, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}
	err = s.cartRepo.Create(ctx, cartItem)
	switch {
	case err == nil:
		logger.Info("Cart line created", map[string]interface{}{
			"user_id":      userID,
			"product_id":   productID,
			"cart_item_id": cartItem.ID,
		})
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// A concurrent add inserted the line first.
		existing, err = s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
		if err != nil {
			return err
		}
		return s.increment(ctx, existing)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrProductNotFound
	default:
		return err
	}
}

func (s *cartService) increment(ctx context.Context, cartItem *model.CartItem) error {
	if err := s.cartRepo.IncrementQuantity(ctx, cartItem.ID); err != nil {
		logger.Error("Failed to increment cart line", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}

	logger.Info("Cart line incremented", map[string]interface{}{
		"user_id":      cartItem.UserID,
		"product_id":   cartItem.ProductID,
		"cart_item_id": cartItem.ID,
	})
	return nil
}

// RemoveFromCart takes one unit of the product out of the user's cart.
// The line is deleted when its last unit goes; removing an absent product
// is a no-op.
func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartRequest
	}

	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug("Cart line absent, nothing to remove", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil
	}
	if err != nil {
		logger.Error("Failed to look up cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	if existing.Quantity > 1 {
		decremented, err := s.cartRepo.DecrementQuantity(ctx, existing.ID)
		if err != nil {
			return err
		}
		if decremented {
			return nil
		}
		// Quantity dropped to 1 underneath us; fall through to delete.
	}

	if err := s.cartRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}

	logger.Info("Cart line removed", map[string]interface{}{
		"user_id":      userID,
		"product_id":   productID,
		"cart_item_id": existing.ID,
	})
	return nil
}

// GetCartCount returns the total units in the cart. Lookup failures are
// logged and reported as zero.
func (s *cartService) GetCartCount(ctx context.Context, userID uint) int {
	count, err := s.cartRepo.SumQuantityByUserID(ctx, userID)
	if err != nil {
		logger.Warn("Cart count unavailable, reporting zero", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return 0
	}
	return count
}

func (s *cartService) ClearCart(ctx context.Context, userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
