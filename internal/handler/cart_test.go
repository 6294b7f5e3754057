package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"neighborly-backend/internal/models"
	"neighborly-backend/pkg/database"
	"neighborly-backend/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCartRouter wires the cart routes behind a stub auth middleware that
// injects the given customer identity, bypassing JWT parsing.
func setupCartRouter(customerID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := &CartHandler{}
	routes := r.Group("/api/v1/cart")
	routes.Use(func(c *gin.Context) {
		c.Set("userID", customerID)
		c.Set("userType", models.UserTypeCustomer)
		c.Next()
	})
	{
		routes.GET("", h.GetCart)
		routes.POST("/items", h.AddToCart)
		routes.PUT("/items/:id", h.UpdateCartItem)
		routes.DELETE("/items/:id", h.RemoveFromCart)
		routes.DELETE("", h.ClearCart)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedCatalog(t *testing.T) (models.User, models.Product) {
	t.Helper()
	customer := models.User{Username: "cust", Email: "cust@example.com", PasswordHash: "x", UserType: models.UserTypeCustomer}
	require.NoError(t, database.DB.Create(&customer).Error)
	keeper := models.User{Username: "keeper", Email: "keeper@example.com", PasswordHash: "x", UserType: models.UserTypeShopkeeper}
	require.NoError(t, database.DB.Create(&keeper).Error)
	shop := models.Shop{OwnerID: keeper.ID, Name: "Corner Store", Status: models.ShopStatusActive, DeliveryFee: 2}
	require.NoError(t, database.DB.Create(&shop).Error)
	product := models.Product{ShopID: shop.ID, Name: "Milk", Price: 3.50, StockQuantity: 20, SKU: "MILK-1", Status: models.ProductStatusAvailable}
	require.NoError(t, database.DB.Create(&product).Error)
	return customer, product
}

func TestAddToCartUpsertsQuantity(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	// Adding the same product again bumps the quantity on the same line.
	w = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	var items []models.CartItem
	require.NoError(t, database.DB.Where("product_id = ?", product.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, _ := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 99999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCartItemReplacesQuantity(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, database.DB.Where("product_id = ?", product.ID).First(&item).Error)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", item.ID), gin.H{"quantity": 7})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, database.DB.First(&item, item.ID).Error)
	assert.Equal(t, 7, item.Quantity)
}

func TestCartItemOwnership(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, database.DB.Where("product_id = ?", product.ID).First(&item).Error)

	// Another customer cannot touch the line; it reads as not found.
	other := models.User{Username: "other", Email: "other@example.com", PasswordHash: "x", UserType: models.UserTypeCustomer}
	require.NoError(t, database.DB.Create(&other).Error)
	otherRouter := setupCartRouter(other.ID)

	w = doJSON(t, otherRouter, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", item.ID), gin.H{"quantity": 9})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, otherRouter, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", item.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, database.DB.First(&item, item.ID).Error)
	assert.Equal(t, 1, item.Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, database.DB.Where("product_id = ?", product.ID).First(&item).Error)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var n int64
	require.NoError(t, database.DB.Model(&models.CartItem{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestClearCartIsIdempotent(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 4})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Clearing again still succeeds.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var n int64
	require.NoError(t, database.DB.Model(&models.CartItem{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestGetCartTotals(t *testing.T) {
	database.DB = testutil.SetupTestDB(t)
	customer, product := seedCatalog(t)
	r := setupCartRouter(customer.ID)

	w := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalItems  int     `json:"total_items"`
		TotalAmount float64 `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalItems)
	assert.InDelta(t, 10.50, resp.TotalAmount, 1e-9)
}
