package handler

import (
	"errors"
	"net/http"

	"neighborly-backend/internal/models"
	"neighborly-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartHandler struct{}

// getOrCreateCart lazily creates the customer's cart on first access.
func getOrCreateCart(db *gorm.DB, customerID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{CustomerID: customerID}).FirstOrCreate(&cart).Error
	return cart, err
}

func (h *CartHandler) GetCart(c *gin.Context) {
	customerID := c.GetUint("userID")

	cart, err := getOrCreateCart(database.DB, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	if err := database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		Preload("Items.Product.Shop").
		First(&cart, cart.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":         cart,
		"total_items":  cart.TotalItems(),
		"total_amount": cart.TotalAmount(),
	})
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// AddToCart upserts the (cart, product) line: a repeated add bumps the
// existing quantity instead of duplicating the row.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := database.DB.Where("id = ? AND status = ?", req.ProductID, models.ProductStatusAvailable).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	cart, err := getOrCreateCart(database.DB, c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	var item models.CartItem
	err = database.DB.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if err := database.DB.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add cart item"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
		return
	}

	item.Product = product
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product added to cart",
		"cart_item": item,
	})
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := h.ownedCartItem(c)
	if !ok {
		return
	}

	// Replaces the quantity outright, unlike AddToCart.
	if err := database.DB.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	item.Quantity = req.Quantity

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cart item updated",
		"cart_item": item,
	})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	item, ok := h.ownedCartItem(c)
	if !ok {
		return
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// ClearCart removes every line; clearing an empty cart is still a success.
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := getOrCreateCart(database.DB, c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	if err := database.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (h *CartHandler) ownedCartItem(c *gin.Context) (models.CartItem, bool) {
	var item models.CartItem
	err := database.DB.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.customer_id = ?", c.Param("id"), c.GetUint("userID")).
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return models.CartItem{}, false
	}
	return item, true
}
