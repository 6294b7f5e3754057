package handler

import (
	"net/http"

	"neighborly-backend/internal/models"
	"neighborly-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Where("is_active = ?", true).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) ListShops(c *gin.Context) {
	query := database.DB.Where("status = ?", models.ShopStatusActive)
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shops"})
		return
	}
	c.JSON(http.StatusOK, shops)
}

func (h *CatalogHandler) GetShop(c *gin.Context) {
	var shop models.Shop
	if err := database.DB.Where("id = ? AND status = ?", c.Param("id"), models.ShopStatusActive).First(&shop).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
		return
	}
	c.JSON(http.StatusOK, shop)
}

type CreateShopRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	Address            string  `json:"address" binding:"required"`
	Phone              string  `json:"phone" binding:"required"`
	Email              string  `json:"email" binding:"omitempty,email"`
	OpeningTime        string  `json:"opening_time"`
	ClosingTime        string  `json:"closing_time"`
	IsOpen247          bool    `json:"is_open_24_7"`
	OffersDelivery     *bool   `json:"offers_delivery"`
	MinimumOrderAmount float64 `json:"minimum_order_amount" binding:"gte=0"`
	DeliveryFee        float64 `json:"delivery_fee" binding:"gte=0"`
}

func (h *CatalogHandler) CreateShop(c *gin.Context) {
	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offersDelivery := true
	if req.OffersDelivery != nil {
		offersDelivery = *req.OffersDelivery
	}

	shop := models.Shop{
		OwnerID:            c.GetUint("userID"),
		Name:               req.Name,
		Description:        req.Description,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		OpeningTime:        req.OpeningTime,
		ClosingTime:        req.ClosingTime,
		IsOpen247:          req.IsOpen247,
		Status:             models.ShopStatusActive,
		OffersDelivery:     offersDelivery,
		MinimumOrderAmount: req.MinimumOrderAmount,
		DeliveryFee:        req.DeliveryFee,
	}
	if err := database.DB.Create(&shop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shop"})
		return
	}
	c.JSON(http.StatusCreated, shop)
}

// UpdateShopRequest carries optional fields; nil means leave unchanged.
type UpdateShopRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Address            *string  `json:"address"`
	Phone              *string  `json:"phone"`
	Email              *string  `json:"email"`
	OpeningTime        *string  `json:"opening_time"`
	ClosingTime        *string  `json:"closing_time"`
	IsOpen247          *bool    `json:"is_open_24_7"`
	OffersDelivery     *bool    `json:"offers_delivery"`
	MinimumOrderAmount *float64 `json:"minimum_order_amount"`
	DeliveryFee        *float64 `json:"delivery_fee"`
}

func (h *CatalogHandler) UpdateShop(c *gin.Context) {
	var shop models.Shop
	if err := database.DB.Where("id = ? AND owner_id = ?", c.Param("id"), c.GetUint("userID")).First(&shop).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.OpeningTime != nil {
		updates["opening_time"] = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		updates["closing_time"] = *req.ClosingTime
	}
	if req.IsOpen247 != nil {
		updates["is_open247"] = *req.IsOpen247
	}
	if req.OffersDelivery != nil {
		updates["offers_delivery"] = *req.OffersDelivery
	}
	if req.MinimumOrderAmount != nil {
		updates["minimum_order_amount"] = *req.MinimumOrderAmount
	}
	if req.DeliveryFee != nil {
		updates["delivery_fee"] = *req.DeliveryFee
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&shop).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shop"})
			return
		}
	}
	c.JSON(http.StatusOK, shop)
}

type UpdateShopStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive suspended"`
}

// UpdateShopStatus lets an admin suspend or reactivate any shop.
func (h *CatalogHandler) UpdateShopStatus(c *gin.Context) {
	var req UpdateShopStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&models.Shop{}).Where("id = ?", c.Param("id")).Update("status", req.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shop status"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop status updated"})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := database.DB.Preload("Shop").Preload("Category").
		Where("status = ?", models.ProductStatusAvailable)

	if shopID := c.Query("shop"); shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}
	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ? OR brand LIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var products []models.Product
	if err := query.Order("created_at desc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.Preload("Shop").Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

type CreateProductRequest struct {
	ShopID            uint     `json:"shop_id" binding:"required"`
	CategoryID        *uint    `json:"category_id"`
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	Price             float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice     *float64 `json:"discount_price" binding:"omitempty,gt=0"`
	StockQuantity     int      `json:"stock_quantity" binding:"gte=0"`
	LowStockThreshold int      `json:"low_stock_threshold"`
	SKU               string   `json:"sku" binding:"required"`
	Brand             string   `json:"brand"`
	IsFeatured        bool     `json:"is_featured"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The shop must belong to the requesting shopkeeper.
	var shop models.Shop
	if err := database.DB.Where("id = ? AND owner_id = ?", req.ShopID, c.GetUint("userID")).First(&shop).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
		return
	}

	product := models.Product{
		ShopID:            req.ShopID,
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		DiscountPrice:     req.DiscountPrice,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		SKU:               req.SKU,
		Brand:             req.Brand,
		Status:            models.ProductStatusAvailable,
		IsFeatured:        req.IsFeatured,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create product (SKU might be duplicate)"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProductRequest carries optional fields; nil means leave unchanged.
type UpdateProductRequest struct {
	CategoryID        *uint    `json:"category_id"`
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price"`
	DiscountPrice     *float64 `json:"discount_price"`
	StockQuantity     *int     `json:"stock_quantity"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	Brand             *string  `json:"brand"`
	Status            *string  `json:"status" binding:"omitempty,oneof=available out_of_stock discontinued"`
	IsFeatured        *bool    `json:"is_featured"`
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	product, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DiscountPrice != nil {
		updates["discount_price"] = *req.DiscountPrice
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct retires a product from sale; historical order items keep
// referencing it, so rows are never removed.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	product, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	if err := database.DB.Model(&product).Update("status", models.ProductStatusDiscontinued).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product discontinued"})
}

func (h *CatalogHandler) GetLowStockAlerts(c *gin.Context) {
	var products []models.Product
	err := database.DB.
		Joins("JOIN shops ON shops.id = products.shop_id").
		Where("shops.owner_id = ?", c.GetUint("userID")).
		Where("products.stock_quantity <= products.low_stock_threshold AND products.status = ?", models.ProductStatusAvailable).
		Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) ownedProduct(c *gin.Context) (models.Product, bool) {
	var product models.Product
	err := database.DB.
		Joins("JOIN shops ON shops.id = products.shop_id").
		Where("products.id = ? AND shops.owner_id = ?", c.Param("id"), c.GetUint("userID")).
		First(&product).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return models.Product{}, false
	}
	return product, true
}
