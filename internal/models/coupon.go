package models

import (
	"time"
)

const (
	CouponTypePercentage   = "percentage"
	CouponTypeFixedAmount  = "fixed_amount"
	CouponTypeFreeDelivery = "free_delivery"
)

type Coupon struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CouponType    string  `gorm:"size:20;not null" json:"coupon_type"`
	DiscountValue float64 `gorm:"type:decimal(10,2);not null" json:"discount_value"`

	MinimumOrderAmount    float64  `gorm:"type:decimal(10,2);default:0.00" json:"minimum_order_amount"`
	MaximumDiscountAmount *float64 `gorm:"type:decimal(10,2)" json:"maximum_discount_amount"`
	UsageLimit            *int     `json:"usage_limit"`
	UsageLimitPerCustomer int      `gorm:"default:1" json:"usage_limit_per_customer"`

	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"not null" json:"valid_until"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	// Empty means the coupon applies to every shop.
	ApplicableShops []Shop `gorm:"many2many:coupon_shops" json:"applicable_shops,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// CouponUsage records one redemption; a coupon is used at most once per order.
type CouponUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CouponID       uint      `gorm:"not null;uniqueIndex:idx_coupon_order" json:"coupon_id"`
	Coupon         Coupon    `gorm:"foreignKey:CouponID" json:"-"`
	CustomerID     uint      `gorm:"not null;index" json:"customer_id"`
	Customer       User      `gorm:"foreignKey:CustomerID" json:"-"`
	OrderID        uint      `gorm:"not null;uniqueIndex:idx_coupon_order" json:"order_id"`
	Order          Order     `gorm:"foreignKey:OrderID" json:"-"`
	DiscountAmount float64   `gorm:"type:decimal(10,2);not null" json:"discount_amount"`
	UsedAt         time.Time `gorm:"autoCreateTime" json:"used_at"`
}
