package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/cache"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/redis"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const catalogListKey = "products:all"

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

type ProductListOptions struct {
	Search string
	Limit  int
	Offset int
}

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	StockValue  int     `json:"stock_value" binding:"gte=0"`
	IsActive    *bool   `json:"is_active"`
	ImageURL    string  `json:"image_url"`
}

type ProductService interface {
	ListProducts(ctx context.Context, opts ProductListOptions) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CachedProduct(ctx context.Context, id uint) (*model.Product, bool)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	InvalidateProduct(ctx context.Context, id uint)
}

type productService struct {
	productRepo repository.ProductRepository
	memory      *cache.Cache
	shared      *redis.Client
	ttl         time.Duration
	loads       singleflight.Group // collapses concurrent misses per key
}

// NewProductService builds the catalog reader. shared may be nil, in which
// case only the in-process tier is used.
func NewProductService(productRepo repository.ProductRepository, memory *cache.Cache, shared *redis.Client, ttl time.Duration) ProductService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &productService{
		productRepo: productRepo,
		memory:      memory,
		shared:      shared,
		ttl:         ttl,
	}
}

func (s *productService) ListProducts(ctx context.Context, opts ProductListOptions) ([]model.Product, error) {
	filter := repository.ProductFilter{
		Search: strings.TrimSpace(opts.Search),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}

	// Only the unfiltered listing is cached; searches and pages go straight
	// to the database.
	cacheable := filter.Search == "" && filter.Limit == 0 && filter.Offset == 0
	if cacheable {
		if products, ok := s.cachedList(ctx); ok {
			return copyProducts(products), nil
		}
	}

	if !cacheable {
		return s.findProducts(ctx, filter)
	}

	v, err, _ := s.loads.Do(catalogListKey, func() (interface{}, error) {
		// The result is shared by every waiter; detach it from the first caller's cancellation.
		ctx := context.WithoutCancel(ctx)
		products, err := s.findProducts(ctx, filter)
		if err != nil {
			return nil, err
		}
		s.memory.Set(catalogListKey, products, s.ttl)
		if err := s.shared.SetJSON(ctx, catalogListKey, products, s.ttl); err != nil {
			logger.Warn("Failed to write product list to redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return copyProducts(v.([]model.Product)), nil
}

// copyProducts detaches a cached listing from the caller.
func copyProducts(products []model.Product) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	return out
}

func (s *productService) findProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(ctx, filter)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) cachedList(ctx context.Context) ([]model.Product, bool) {
	if v, ok := s.memory.Get(catalogListKey); ok {
		if products, ok := v.([]model.Product); ok {
			logger.Debug("Product list served from memory cache")
			return products, true
		}
	}

	var products []model.Product
	found, err := s.shared.GetJSON(ctx, catalogListKey, &products)
	if err != nil {
		logger.Warn("Redis product list read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	if !found {
		return nil, false
	}
	s.memory.Set(catalogListKey, products, s.ttl)
	logger.Debug("Product list served from redis")
	return products, true
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	if product, ok := s.CachedProduct(ctx, id); ok {
		return product, nil
	}

	v, err, _ := s.loads.Do(productCacheKey(id), func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product", err, map[string]interface{}{
				"product_id": id,
			})
			return nil, err
		}
		s.storeProduct(ctx, product)
		return *product, nil
	})
	if err != nil {
		return nil, err
	}

	// Each caller gets its own copy of the shared result.
	product := v.(model.Product)
	return &product, nil
}

// CachedProduct looks the product up in the cache tiers only.
func (s *productService) CachedProduct(ctx context.Context, id uint) (*model.Product, bool) {
	key := productCacheKey(id)
	if v, ok := s.memory.Get(key); ok {
		if product, ok := v.(model.Product); ok {
			return &product, true
		}
	}

	var product model.Product
	found, err := s.shared.GetJSON(ctx, key, &product)
	if err != nil {
		logger.Warn("Redis product read failed", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, false
	}
	if !found {
		return nil, false
	}
	s.memory.Set(key, product, s.ttl)
	return &product, true
}

func (s *productService) storeProduct(ctx context.Context, product *model.Product) {
	key := productCacheKey(product.ID)
	s.memory.Set(key, *product, s.ttl)
	if err := s.shared.SetJSON(ctx, key, product, s.ttl); err != nil {
		logger.Warn("Failed to write product to redis", map[string]interface{}{
			"product_id": product.ID,
			"error":      err.Error(),
		})
	}
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		StockValue:  input.StockValue,
		IsActive:    true,
		ImageURL:    input.ImageURL,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)
	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.DeletedAt.Valid {
		return nil, ErrProductNotFound
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.StockValue = input.StockValue
	product.ImageURL = input.ImageURL
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.invalidate(ctx, id)
	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) InvalidateProduct(ctx context.Context, id uint) {
	s.invalidate(ctx, id)
}

func (s *productService) invalidate(ctx context.Context, id uint) {
	keys := []string{productCacheKey(id), catalogListKey}
	s.memory.Clear(keys...)
	if err := s.shared.Delete(ctx, keys...); err != nil {
		logger.Warn("Failed to invalidate redis catalog keys", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
	}
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if input.Price < 0 || math.IsNaN(input.Price) || math.IsInf(input.Price, 0) {
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidProduct)
	}
	if input.StockValue < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	return nil
}
