package handler

import (
	"errors"
	"fmt"
	"net/http"

	"neighborly-backend/internal/models"
	"neighborly-backend/internal/service"
	"neighborly-backend/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	Checkout  *service.CheckoutEngine
	Lifecycle *service.OrderLifecycle
}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{
		Checkout:  service.NewCheckoutEngine(database.DB),
		Lifecycle: service.NewOrderLifecycle(database.DB),
	}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   c.GetUint("userID"),
		Role: c.GetString("userType"),
	}
}

type CheckoutRequest struct {
	DeliveryAddress      string `json:"delivery_address" binding:"required"`
	DeliveryPhone        string `json:"delivery_phone" binding:"required"`
	PaymentMethod        string `json:"payment_method" binding:"required,oneof=cash_on_delivery online_payment wallet"`
	DeliveryInstructions string `json:"delivery_instructions"`
	SpecialInstructions  string `json:"special_instructions"`
	CouponCode           string `json:"coupon_code"`
}

func (h *OrderHandler) PlaceOrders(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.Checkout.Checkout(c.GetUint("userID"), service.CheckoutInput{
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryPhone:        req.DeliveryPhone,
		PaymentMethod:        req.PaymentMethod,
		DeliveryInstructions: req.DeliveryInstructions,
		SpecialInstructions:  req.SpecialInstructions,
		CouponCode:           req.CouponCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock for one or more items"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place orders"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%d order(s) created successfully", len(orders)),
		"orders":  orders,
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	actor := actorFrom(c)

	page := 1
	limit := 10
	if c.Query("page") != "" {
		fmt.Sscanf(c.Query("page"), "%d", &page)
	}
	if c.Query("limit") != "" {
		fmt.Sscanf(c.Query("limit"), "%d", &limit)
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Order{}).
		Preload("Shop").Preload("Items").Preload("Items.Product")

	// Scope by role: customers see their own orders, shopkeepers the
	// orders of their shops, admins everything.
	switch actor.Role {
	case models.UserTypeCustomer:
		query = query.Where("customer_id = ?", actor.ID)
	case models.UserTypeShopkeeper:
		query = query.Where("shop_id IN (?)",
			database.DB.Model(&models.Shop{}).Select("id").Where("owner_id = ?", actor.ID))
	case models.UserTypeAdmin:
		// unrestricted
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

type UpdateOrderStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var orderID uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &orderID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	order, err := h.Lifecycle.UpdateStatus(orderID, req.Status, req.Message, actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, service.ErrTerminalStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order is already in a terminal status"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

func (h *OrderHandler) TrackOrder(c *gin.Context) {
	order, tracking, err := h.Lifecycle.Track(c.Param("order_id"), actorFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":    order,
		"tracking": tracking,
	})
}

// DeleteOrder is the out-of-band admin removal; order items and tracking
// rows go with the order.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := database.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderTracking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
