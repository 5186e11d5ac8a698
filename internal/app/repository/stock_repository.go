package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// StockResult is the outcome of the atomic stock procedure. Message is set
// when Success is false.
type StockResult struct {
	Success bool
	Message string
}

type StockRepository interface {
	DecrementStock(ctx context.Context, productID uint, quantity int) (StockResult, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

// DecrementStock checks availability and subtracts quantity in one
// conditional UPDATE. The row lock taken by that statement is what keeps two
// concurrent checkouts from both consuming the last units.
func (r *stockRepository) DecrementStock(ctx context.Context, productID uint, quantity int) (StockResult, error) {
	if quantity <= 0 {
		return StockResult{Message: fmt.Sprintf("invalid quantity %d", quantity)}, nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock_value >= ?", productID, quantity).
		Update("stock_value", gorm.Expr("stock_value - ?", quantity))
	if res.Error != nil {
		logger.Error("Failed to decrement product stock", res.Error, map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return StockResult{}, res.Error
	}

	if res.RowsAffected == 1 {
		logger.Debug("Product stock decremented", map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return StockResult{Success: true}, nil
	}

	// Nothing matched: work out why for the caller's message.
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StockResult{Message: "product not found"}, nil
	}
	if err != nil {
		return StockResult{}, err
	}

	logger.Warn("Stock decrement rejected", map[string]interface{}{
		"product_id": productID,
		"requested":  quantity,
		"available":  product.StockValue,
	})
	return StockResult{
		Message: fmt.Sprintf("insufficient stock for %s: requested %d, available %d", product.Name, quantity, product.StockValue),
	}, nil
}
