package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCatalog is the slice of the catalog the order pipeline needs: a
// cache-only lookup for backfilling and invalidation after stock changes.
type ProductCatalog interface {
	CachedProduct(ctx context.Context, id uint) (*model.Product, bool)
	InvalidateProduct(ctx context.Context, id uint)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID, addressID uint, paymentMode model.PaymentMode) (uint, error)
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	addressRepo   repository.AddressRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	stockRepo     repository.StockRepository
	catalog       ProductCatalog
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	stockRepo repository.StockRepository,
	catalog ProductCatalog,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		addressRepo:   addressRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		stockRepo:     stockRepo,
		catalog:       catalog,
	}
}

// PlaceOrder converts the user's cart into an order.
//
// The steps run as separate statements, not one transaction. A failure
// after the order insert leaves the order row, any written lines and any
// stock already decremented in place; only the atomic stock procedure
// guards against overselling.
func (s *orderService) PlaceOrder(ctx context.Context, userID, addressID uint, paymentMode model.PaymentMode) (uint, error) {
	mode := model.PaymentMode(strings.ToLower(strings.TrimSpace(string(paymentMode))))
	if mode == "" {
		mode = model.PaymentModeCOD
	}
	if !mode.Valid() {
		return 0, ErrInvalidPaymentMode
	}

	logger.Info("Placing order", map[string]interface{}{
		"user_id":      userID,
		"address_id":   addressID,
		"payment_mode": mode,
	})

	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAddressNotFound
		}
		return 0, err
	}
	if address.UserID != userID {
		logger.Warn("Address belongs to another user", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return 0, ErrAddressNotFound
	}

	cartItems, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return 0, ErrCartEmpty
	}
	for _, item := range cartItems {
		if item.Quantity < 1 {
			logger.Warn("Cart line has invalid quantity", map[string]interface{}{
				"user_id":    userID,
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			})
			return 0, ErrInvalidQuantity
		}
	}

	if err := s.backfillProducts(ctx, cartItems); err != nil {
		return 0, err
	}

	snapshot := make(model.OrderSnapshot, 0, len(cartItems))
	lineTotals := make([]decimal.Decimal, 0, len(cartItems))
	for _, item := range cartItems {
		price := sanitizePrice(item.Product.Price)
		snapshot = append(snapshot, model.OrderSnapshotItem{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     price,
			Quantity:  item.Quantity,
		})
		lineTotals = append(lineTotals, decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	// Not rounded: the total must equal the sum over the stored lines.
	total := decimal.Sum(decimal.Zero, lineTotals...)

	order := &model.Order{
		UserID:               userID,
		Items:                snapshot,
		TotalAmount:          total.InexactFloat64(),
		AddressLine:          address.AddressLine,
		Phone:                address.Phone,
		Pincode:              address.Pincode,
		DeliveryInstructions: address.DeliveryInstructions,
		Latitude:             address.Latitude,
		Longitude:            address.Longitude,
		PaymentMode:          mode,
		Status:               model.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return 0, &PersistenceError{Step: "create order", Err: err}
	}

	lines := make([]model.OrderLine, 0, len(snapshot))
	for _, item := range snapshot {
		lines = append(lines, model.OrderLine{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			PriceEach: item.Price,
		})
	}
	if err := s.orderRepo.CreateLines(ctx, lines); err != nil {
		logger.Error("Order lines not written; order row left in place", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return 0, &PersistenceError{Step: "create order lines", Err: err}
	}

	for _, line := range lines {
		result, err := s.stockRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return 0, &PersistenceError{Step: "decrement stock", Err: err}
		}
		if !result.Success {
			logger.Warn("Stock decrement failed; earlier lines stay decremented", map[string]interface{}{
				"order_id":   order.ID,
				"product_id": line.ProductID,
				"message":    result.Message,
			})
			return 0, &InsufficientStockError{ProductID: line.ProductID, Message: result.Message}
		}
		s.catalog.InvalidateProduct(ctx, line.ProductID)
	}

	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		logger.Error("Order placed but cart was not cleared", err, map[string]interface{}{
			"order_id": order.ID,
			"user_id":  userID,
		})
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
		"line_count":   len(lines),
	})
	return order.ID, nil
}

// backfillProducts fills in product data for cart lines the storefront
// join left empty. Lookups go cache, inventory, then the product row
// itself; a line nothing resolves keeps a zero price and empty name.
func (s *orderService) backfillProducts(ctx context.Context, cartItems []model.CartItem) error {
	missing := make(map[uint]bool)
	for _, item := range cartItems {
		if item.Product.ID == 0 {
			missing[item.ProductID] = true
		}
	}
	if len(missing) == 0 {
		return nil
	}

	resolved := make(map[uint]model.Product, len(missing))
	var unresolved []uint
	for id := range missing {
		if product, ok := s.catalog.CachedProduct(ctx, id); ok {
			resolved[id] = *product
			continue
		}
		unresolved = append(unresolved, id)
	}

	if len(unresolved) > 0 {
		products, err := s.inventoryRepo.FindProductsByIDs(ctx, unresolved)
		if err != nil {
			return err
		}
		for _, product := range products {
			resolved[product.ID] = product
		}
	}

	for _, id := range unresolved {
		if _, ok := resolved[id]; ok {
			continue
		}
		product, err := s.productRepo.FindByIDUnscoped(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		resolved[id] = *product
	}

	for i := range cartItems {
		if cartItems[i].Product.ID != 0 {
			continue
		}
		product, ok := resolved[cartItems[i].ProductID]
		if !ok {
			logger.Warn("Product unresolved; line priced at zero", map[string]interface{}{
				"product_id": cartItems[i].ProductID,
			})
			continue
		}
		cartItems[i].Product = product
	}

	logger.Debug("Cart lines backfilled", map[string]interface{}{
		"missing":  len(missing),
		"resolved": len(resolved),
	})
	return nil
}

func sanitizePrice(price float64) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}
