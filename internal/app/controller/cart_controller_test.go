package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testUserID uint = 1

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name string, price float64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Price: price, StockValue: stock, IsActive: true}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func withUser(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setUserIDInContext(c, testUserID)
		handler(c)
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func setupCartControllerTest(t *testing.T) (*gin.Engine, *model.Product) {
	testDB := newControllerTestDB(t)
	cartController := NewCartController(service.NewCartService(repository.NewCartRepository(testDB)))
	product := createTestProduct(t, testDB, "Test Product", 100, 10)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/cart", withUser(cartController.GetCart))
	router.GET("/cart/count", withUser(cartController.GetCartCount))
	router.POST("/cart/items/:product_id", withUser(cartController.AddToCart))
	router.DELETE("/cart/items/:product_id", withUser(cartController.RemoveFromCart))
	router.DELETE("/cart", withUser(cartController.ClearCart))
	router.GET("/anon/cart", cartController.GetCart)

	return router, product
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestCartController_AddAndRemove(t *testing.T) {
	router, product := setupCartControllerTest(t)
	itemPath := "/cart/items/" + uintToString(product.ID)

	w := serve(router, http.MethodPost, itemPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = serve(router, http.MethodPost, itemPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = serve(router, http.MethodGet, "/cart")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(200), body["total"])
	assert.Len(t, body["cart_items"], 1)

	w = serve(router, http.MethodDelete, itemPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = serve(router, http.MethodDelete, itemPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])

	// removing again is a no-op
	w = serve(router, http.MethodDelete, itemPath)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_CountAndClear(t *testing.T) {
	router, product := setupCartControllerTest(t)
	itemPath := "/cart/items/" + uintToString(product.ID)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(router, http.MethodPost, itemPath).Code)
	}

	w := serve(router, http.MethodGet, "/cart/count")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeBody(t, w)["count"])

	require.Equal(t, http.StatusOK, serve(router, http.MethodDelete, "/cart").Code)

	w = serve(router, http.MethodGet, "/cart/count")
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])
}

func TestCartController_InvalidRequests(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	w := serve(router, http.MethodPost, "/cart/items/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_ID", decodeBody(t, w)["error"])

	w = serve(router, http.MethodPost, "/cart/items/0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/anon/cart")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
