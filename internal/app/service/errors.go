package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCartRequest = errors.New("user and product are required")
	ErrProductNotFound    = errors.New("product not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidProduct     = errors.New("invalid product")
)

// InsufficientStockError carries the stock procedure's message for the
// first line that could not be fulfilled.
type InsufficientStockError struct {
	ProductID uint
	Message   string
}

func (e *InsufficientStockError) Error() string {
	return e.Message
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PersistenceError is a store failure during order placement. Step names
// the write that failed.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
