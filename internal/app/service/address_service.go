package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUnauthorizedAccess = errors.New("unauthorized access to address")
	ErrInvalidAddress     = errors.New("address line and phone are required")
)

type AddressService interface {
	GetUserAddresses(ctx context.Context, userID uint) ([]model.Address, error)
	CreateAddress(ctx context.Context, userID uint, address *model.Address) error
	DeleteAddress(ctx context.Context, userID, addressID uint) error
	SetDefaultAddress(ctx context.Context, userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		addressRepo: addressRepo,
	}
}

func (s *addressService) GetUserAddresses(ctx context.Context, userID uint) ([]model.Address, error) {
	logger.Debug("Fetching user addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User addresses fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

// CreateAddress stores a new address. The user's first address becomes the
// default.
func (s *addressService) CreateAddress(ctx context.Context, userID uint, address *model.Address) error {
	address.AddressLine = strings.TrimSpace(address.AddressLine)
	address.Phone = strings.TrimSpace(address.Phone)
	if address.AddressLine == "" || address.Phone == "" {
		return ErrInvalidAddress
	}

	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
	})

	existing, err := s.addressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	address.ID = 0
	address.UserID = userID
	makeDefault := address.IsDefault || len(existing) == 0
	address.IsDefault = false

	if err := s.addressRepo.Create(ctx, address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if makeDefault {
		if err := s.addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
			return err
		}
		address.IsDefault = true
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
		"is_default": address.IsDefault,
	})
	return nil
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}

	if err := s.addressRepo.Delete(ctx, addressID); err != nil {
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(ctx context.Context, userID, addressID uint) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.SetDefault(ctx, userID, addressID)
}

func (s *addressService) ownedAddress(ctx context.Context, userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if address.UserID != userID {
		logger.Warn("Unauthorized address access attempt", map[string]interface{}{
			"user_id":       userID,
			"address_id":    addressID,
			"owner_user_id": address.UserID,
		})
		return nil, ErrUnauthorizedAccess
	}
	return address, nil
}
