package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/cache"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

func setupRouterTest(t *testing.T) http.Handler {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	productService := service.NewProductService(productRepo, cache.New(), nil, 0)
	orderService := service.NewOrderService(
		repository.NewOrderRepository(testDB),
		cartRepo,
		addressRepo,
		productRepo,
		repository.NewInventoryRepository(testDB),
		repository.NewStockRepository(testDB),
		productService,
	)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: "test"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	r := NewRouter(
		controller.NewProductController(productService),
		controller.NewCartController(service.NewCartService(cartRepo)),
		controller.NewOrderController(orderService),
		controller.NewAddressController(service.NewAddressService(addressRepo)),
		middleware.NewAuthMiddleware(testSecret),
		cfg,
	)
	return r.Setup()
}

func request(t *testing.T, handler http.Handler, method, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, err := util.GenerateToken(1, "user@example.com", role, testSecret, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	handler := setupRouterTest(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"public catalog", http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{"cart requires auth", http.MethodGet, "/api/v1/cart", "", http.StatusUnauthorized},
		{"cart with token", http.MethodGet, "/api/v1/cart/count", middleware.RoleUser, http.StatusOK},
		{"orders with token", http.MethodGet, "/api/v1/orders", middleware.RoleUser, http.StatusOK},
		{"admin forbidden for user", http.MethodDelete, "/api/v1/admin/products/1", middleware.RoleUser, http.StatusForbidden},
		{"admin allowed", http.MethodDelete, "/api/v1/admin/products/1", middleware.RoleAdmin, http.StatusNotFound},
		{"preflight", http.MethodOptions, "/api/v1/products", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(t, handler, tt.method, tt.path, tt.role)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
