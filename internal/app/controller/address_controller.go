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

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	AddressLine          string   `json:"address_line" binding:"required"`
	Phone                string   `json:"phone" binding:"required"`
	Pincode              string   `json:"pincode"`
	DeliveryInstructions string   `json:"delivery_instructions"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	IsDefault            bool     `json:"is_default"`
}

// GetAddresses returns user's addresses
// GET /api/v1/addresses
func (ctrl *AddressController) GetAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addresses, err := ctrl.addressService.GetUserAddresses(c.Request.Context(), userID)
	if err != nil {
		log.Error("Failed to fetch addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// CreateAddress adds a delivery address
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.AddressInvalid, "주소와 연락처를 입력해주세요")
		return
	}

	address := &model.Address{
		AddressLine:          req.AddressLine,
		Phone:                req.Phone,
		Pincode:              req.Pincode,
		DeliveryInstructions: req.DeliveryInstructions,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		IsDefault:            req.IsDefault,
	}
	if err := ctrl.addressService.CreateAddress(c.Request.Context(), userID, address); err != nil {
		ctrl.respondAddressError(c, err, userID)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"address": address,
	})
}

// DeleteAddress removes a delivery address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseIDParam(c, "id", "배송지")
	if !ok {
		return
	}

	if err := ctrl.addressService.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		ctrl.respondAddressError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}

// SetDefaultAddress marks an address as the default
// PUT /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseIDParam(c, "id", "배송지")
	if !ok {
		return
	}

	if err := ctrl.addressService.SetDefaultAddress(c.Request.Context(), userID, addressID); err != nil {
		ctrl.respondAddressError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default address updated",
	})
}

func (ctrl *AddressController) respondAddressError(c *gin.Context, err error, userID uint) {
	switch {
	case errors.Is(err, service.ErrInvalidAddress):
		apperrors.BadRequest(c, apperrors.AddressInvalid, "주소와 연락처를 입력해주세요")
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.AddressNotFound, "배송지를 찾을 수 없습니다")
	case errors.Is(err, service.ErrUnauthorizedAccess):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인의 배송지만 수정할 수 있습니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Address request failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "address")
	}
}
