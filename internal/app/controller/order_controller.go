package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type PlaceOrderRequest struct {
	AddressID   uint              `json:"address_id" binding:"required"`
	PaymentMode model.PaymentMode `json:"payment_mode"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// PlaceOrder converts the cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindError(c, err, "배송지를 선택해주세요")
		return
	}

	orderID, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, req.AddressID, req.PaymentMode)
	if err != nil {
		ctrl.respondPlaceOrderError(c, err, userID)
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": orderID,
	})
}

func (ctrl *OrderController) respondPlaceOrderError(c *gin.Context, err error, userID uint) {
	log := middleware.GetLoggerFromContext(c)

	var stockErr *service.InsufficientStockError
	var persistErr *service.PersistenceError

	switch {
	case errors.Is(err, service.ErrInvalidPaymentMode):
		apperrors.BadRequest(c, apperrors.OrderInvalidPayment, "지원하지 않는 결제 수단입니다")
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.OrderAddressNotFound, "배송지를 찾을 수 없습니다")
	case errors.Is(err, service.ErrCartEmpty):
		apperrors.BadRequest(c, apperrors.OrderCartEmpty, "장바구니가 비어 있습니다")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.OrderInvalidQuantity, "주문 수량이 올바르지 않습니다")
	case errors.As(err, &stockErr):
		apperrors.Conflict(c, apperrors.OrderInsufficientStock, stockErr.Message)
	case errors.As(err, &persistErr):
		log.Error("Order persistence failed", err, map[string]interface{}{
			"user_id": userID,
			"step":    persistErr.Step,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.OrderPersistenceFailed, "주문을 저장하지 못했습니다")
	default:
		log.Error("Failed to place order", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
	}
}

// GetOrders returns user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id", "주문")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus changes an order's status (admin only)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id", "주문")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "주문 상태를 입력해주세요")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "잘못된 주문 상태입니다")
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}
