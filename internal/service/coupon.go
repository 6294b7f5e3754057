package service

import (
	"errors"
	"time"

	"neighborly-backend/internal/models"

	"gorm.io/gorm"
)

// CouponResult is the outcome of validating a coupon code against an order
// subtotal for one shop.
type CouponResult struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	Reason         string  `json:"reason,omitempty"`
}

// CouponEvaluator checks coupon applicability and computes the discount.
// Checkout does not call it yet; redemption is an extension point.
type CouponEvaluator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCouponEvaluator(db *gorm.DB) *CouponEvaluator {
	return &CouponEvaluator{db: db, now: time.Now}
}

func invalid(reason string) CouponResult {
	return CouponResult{Valid: false, Reason: reason}
}

func (e *CouponEvaluator) Validate(code string, customerID uint, subtotal float64, shopID uint) (CouponResult, error) {
	var coupon models.Coupon
	err := e.db.Preload("ApplicableShops").Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("coupon not found"), nil
		}
		return CouponResult{}, err
	}

	if !coupon.IsActive {
		return invalid("coupon is not active"), nil
	}

	now := e.now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return invalid("coupon is not valid at this time"), nil
	}

	if subtotal < coupon.MinimumOrderAmount {
		return invalid("order amount is below the coupon minimum"), nil
	}

	if len(coupon.ApplicableShops) > 0 {
		applies := false
		for _, shop := range coupon.ApplicableShops {
			if shop.ID == shopID {
				applies = true
				break
			}
		}
		if !applies {
			return invalid("coupon does not apply to this shop"), nil
		}
	}

	if coupon.UsageLimit != nil {
		var used int64
		if err := e.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&used).Error; err != nil {
			return CouponResult{}, err
		}
		if used >= int64(*coupon.UsageLimit) {
			return invalid("coupon usage limit reached"), nil
		}
	}

	var usedByCustomer int64
	if err := e.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND customer_id = ?", coupon.ID, customerID).
		Count(&usedByCustomer).Error; err != nil {
		return CouponResult{}, err
	}
	if usedByCustomer >= int64(coupon.UsageLimitPerCustomer) {
		return invalid("coupon already used by this customer"), nil
	}

	discount, err := e.discountFor(&coupon, subtotal, shopID)
	if err != nil {
		return CouponResult{}, err
	}
	return CouponResult{Valid: true, DiscountAmount: discount}, nil
}

func (e *CouponEvaluator) discountFor(coupon *models.Coupon, subtotal float64, shopID uint) (float64, error) {
	switch coupon.CouponType {
	case models.CouponTypePercentage:
		discount := subtotal * coupon.DiscountValue / 100
		if coupon.MaximumDiscountAmount != nil && discount > *coupon.MaximumDiscountAmount {
			discount = *coupon.MaximumDiscountAmount
		}
		return discount, nil
	case models.CouponTypeFixedAmount:
		if coupon.DiscountValue > subtotal {
			return subtotal, nil
		}
		return coupon.DiscountValue, nil
	case models.CouponTypeFreeDelivery:
		var shop models.Shop
		if err := e.db.First(&shop, shopID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		return shop.DeliveryFee, nil
	default:
		return 0, errors.New("unknown coupon type: " + coupon.CouponType)
	}
}
