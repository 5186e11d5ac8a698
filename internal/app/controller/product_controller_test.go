package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := newControllerTestDB(t)
	productService := service.NewProductService(repository.NewProductRepository(testDB), cache.New(), nil, 0)
	productController := NewProductController(productService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/products", productController.GetProducts)
	router.GET("/products/:id", productController.GetProductByID)
	router.POST("/admin/products", productController.CreateProduct)
	router.PUT("/admin/products/:id", productController.UpdateProduct)
	router.DELETE("/admin/products/:id", productController.DeleteProduct)

	return router, testDB
}

func TestProductController_GetProducts(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	createTestProduct(t, testDB, "Green Tea", 5, 10)
	createTestProduct(t, testDB, "Coffee", 9, 10)

	w := serve(router, http.MethodGet, "/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = serve(router, http.MethodGet, "/products?search=Tea")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = serve(router, http.MethodGet, "/products?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_AdminLifecycle(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	w := postJSON(router, http.MethodPost, "/admin/products", service.ProductInput{
		Name:       "Kettle",
		Price:      25,
		StockValue: 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)["product"].(map[string]interface{})
	id := uint(created["id"].(float64))
	path := "/admin/products/" + uintToString(id)

	w = serve(router, http.MethodGet, "/products/"+uintToString(id))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kettle", decodeBody(t, w)["product"].(map[string]interface{})["name"])

	w = postJSON(router, http.MethodPut, path, service.ProductInput{Name: "Steel Kettle", Price: 30, StockValue: 4})
	require.Equal(t, http.StatusOK, w.Code)

	// the cached copy was invalidated by the update
	w = serve(router, http.MethodGet, "/products/"+uintToString(id))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Steel Kettle", decodeBody(t, w)["product"].(map[string]interface{})["name"])

	w = serve(router, http.MethodDelete, path)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/products/"+uintToString(id))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decodeBody(t, w)["error"])
}

func TestProductController_CreateProduct_Invalid(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	w := postJSON(router, http.MethodPost, "/admin/products", map[string]interface{}{"price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, http.MethodPost, "/admin/products", map[string]interface{}{"name": "X", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_CreateProduct_ValidationFields(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	w := postJSON(router, http.MethodPost, "/admin/products", map[string]interface{}{
		"price":       -1,
		"stock_value": 2,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", body["error"])
	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "required", fields["Name"])
	assert.Equal(t, "gte", fields["Price"])
}

func TestProductController_CreateProduct_MalformedJSON(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	w := postJSON(router, http.MethodPost, "/admin/products", "not an object")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", body["error"])
	assert.Nil(t, body["fields"])
}
