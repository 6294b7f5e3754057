package handler

import (
	"net/http"
	"time"

	"neighborly-backend/internal/models"
	"neighborly-backend/internal/service"
	"neighborly-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	Evaluator *service.CouponEvaluator
}

func NewCouponHandler() *CouponHandler {
	return &CouponHandler{Evaluator: service.NewCouponEvaluator(database.DB)}
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := database.DB.Preload("ApplicableShops").Where("is_active = ?", true).Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	ShopID   uint    `json:"shop_id" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Evaluator.Validate(req.Code, c.GetUint("userID"), req.Subtotal, req.ShopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type CreateCouponRequest struct {
	Code                  string    `json:"code" binding:"required"`
	Name                  string    `json:"name" binding:"required"`
	Description           string    `json:"description"`
	CouponType            string    `json:"coupon_type" binding:"required,oneof=percentage fixed_amount free_delivery"`
	DiscountValue         float64   `json:"discount_value" binding:"required,gt=0"`
	MinimumOrderAmount    float64   `json:"minimum_order_amount" binding:"gte=0"`
	MaximumDiscountAmount *float64  `json:"maximum_discount_amount" binding:"omitempty,gt=0"`
	UsageLimit            *int      `json:"usage_limit" binding:"omitempty,gt=0"`
	UsageLimitPerCustomer int       `json:"usage_limit_per_customer"`
	ValidFrom             time.Time `json:"valid_from" binding:"required"`
	ValidUntil            time.Time `json:"valid_until" binding:"required"`
	ShopIDs               []uint    `json:"shop_ids"`
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.ValidUntil.After(req.ValidFrom) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid_until must be after valid_from"})
		return
	}

	usagePerCustomer := req.UsageLimitPerCustomer
	if usagePerCustomer == 0 {
		usagePerCustomer = 1
	}

	coupon := models.Coupon{
		Code:                  req.Code,
		Name:                  req.Name,
		Description:           req.Description,
		CouponType:            req.CouponType,
		DiscountValue:         req.DiscountValue,
		MinimumOrderAmount:    req.MinimumOrderAmount,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		UsageLimit:            req.UsageLimit,
		UsageLimitPerCustomer: usagePerCustomer,
		ValidFrom:             req.ValidFrom,
		ValidUntil:            req.ValidUntil,
		IsActive:              true,
	}

	if len(req.ShopIDs) > 0 {
		var shops []models.Shop
		if err := database.DB.Where("id IN ?", req.ShopIDs).Find(&shops).Error; err != nil || len(shops) != len(req.ShopIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more shops not found"})
			return
		}
		coupon.ApplicableShops = shops
	}

	if err := database.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create coupon (code might be duplicate)"})
		return
	}
	c.JSON(http.StatusCreated, coupon)
}
