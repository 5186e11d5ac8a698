package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// GetCart returns user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(c.Request.Context(), userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "장바구니를 불러오지 못했습니다")
		return
	}

	var total float64
	units := 0
	for _, item := range cartItems {
		total += item.Product.Price * float64(item.Quantity)
		units += item.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cartItems,
		"count":      units,
		"total":      total,
	})
}

// GetCartCount returns the number of units in the cart
// GET /api/v1/cart/count
func (ctrl *CartController) GetCartCount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": ctrl.cartService.GetCartCount(c.Request.Context(), userID),
	})
}

// AddToCart adds one unit of a product
// POST /api/v1/cart/items/:product_id
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := parseIDParam(c, "product_id", "상품")
	if !ok {
		return
	}

	if err := ctrl.cartService.AddToCart(c.Request.Context(), userID, productID); err != nil {
		ctrl.respondCartError(c, err, userID, productID)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"count":   ctrl.cartService.GetCartCount(c.Request.Context(), userID),
	})
}

// RemoveFromCart removes one unit of a product
// DELETE /api/v1/cart/items/:product_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := parseIDParam(c, "product_id", "상품")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(c.Request.Context(), userID, productID); err != nil {
		ctrl.respondCartError(c, err, userID, productID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"count":   ctrl.cartService.GetCartCount(c.Request.Context(), userID),
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "장바구니를 비우지 못했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, userID, productID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrInvalidCartRequest):
		apperrors.BadRequest(c, apperrors.CartInvalidRequest, "사용자와 상품 정보가 필요합니다")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	default:
		log.Error("Cart update failed", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "장바구니를 수정하지 못했습니다")
	}
}

// parseIDParam reads a positive numeric path parameter, responding 400 when
// it is malformed.
func parseIDParam(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		apperrors.InvalidID(c, label)
		return 0, false
	}
	return uint(id), true
}
