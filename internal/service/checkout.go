package service

import (
	"crypto/rand"
	"errors"
	"time"

	"neighborly-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// orderNumberRetries bounds regeneration attempts when a freshly generated
// order number collides with an existing one.
const orderNumberRetries = 3

type CheckoutInput struct {
	DeliveryAddress      string
	DeliveryPhone        string
	PaymentMethod        string
	DeliveryInstructions string
	SpecialInstructions  string
	CouponCode           string
}

// CheckoutEngine converts a customer's cart into one immutable order per
// shop. All writes happen in a single transaction: either every order,
// order item, tracking row, and stock decrement lands and the cart is
// cleared, or nothing changes.
type CheckoutEngine struct {
	db             *gorm.DB
	now            func() time.Time
	newOrderNumber func() (string, error)
	newOrderUID    func() string
}

func NewCheckoutEngine(db *gorm.DB) *CheckoutEngine {
	return &CheckoutEngine{
		db:             db,
		now:            time.Now,
		newOrderNumber: generateOrderNumber,
		newOrderUID:    func() string { return uuid.NewString() },
	}
}

func generateOrderNumber() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}
	return string(buf), nil
}

// Checkout partitions the customer's cart lines by owning shop and creates
// one order per partition, in first-seen order over cart lines sorted by id.
// The coupon code is accepted but not applied; discount stays zero until
// coupon redemption is wired in.
func (e *CheckoutEngine) Checkout(customerID uint, in CheckoutInput) ([]models.Order, error) {
	var cart models.Cart
	err := e.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		Preload("Items.Product.Shop").
		Where("customer_id = ?", customerID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Partition cart lines by shop, keeping first-seen order stable.
	var shopOrder []uint
	partitions := make(map[uint][]models.CartItem)
	for _, item := range cart.Items {
		shopID := item.Product.ShopID
		if _, seen := partitions[shopID]; !seen {
			shopOrder = append(shopOrder, shopID)
		}
		partitions[shopID] = append(partitions[shopID], item)
	}

	var orders []models.Order
	err = e.db.Transaction(func(tx *gorm.DB) error {
		for _, shopID := range shopOrder {
			items := partitions[shopID]
			shop := items[0].Product.Shop

			var subtotal float64
			for _, item := range items {
				subtotal += item.Subtotal()
			}
			deliveryFee := shop.DeliveryFee

			order := models.Order{
				OrderUID:             e.newOrderUID(),
				CustomerID:           customerID,
				ShopID:               shopID,
				Status:               models.OrderStatusPending,
				PaymentStatus:        models.PaymentStatusPending,
				PaymentMethod:        in.PaymentMethod,
				Subtotal:             subtotal,
				DeliveryFee:          deliveryFee,
				TotalAmount:          subtotal + deliveryFee,
				DeliveryAddress:      in.DeliveryAddress,
				DeliveryPhone:        in.DeliveryPhone,
				DeliveryInstructions: in.DeliveryInstructions,
				SpecialInstructions:  in.SpecialInstructions,
			}

			if err := e.createWithFreshNumber(tx, &order); err != nil {
				return err
			}

			for _, item := range items {
				res := tx.Model(&models.Product{}).
					Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
					Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return ErrInsufficientStock
				}

				unitPrice := item.Product.EffectivePrice()
				orderItem := models.OrderItem{
					OrderID:   order.ID,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: unitPrice,
					Subtotal:  float64(item.Quantity) * unitPrice,
				}
				if err := tx.Create(&orderItem).Error; err != nil {
					return err
				}
				order.Items = append(order.Items, orderItem)
			}

			customer := customerID
			tracking := models.OrderTracking{
				OrderID:     order.ID,
				Status:      models.OrderStatusPending,
				Message:     "Order placed successfully",
				CreatedByID: &customer,
			}
			if err := tx.Create(&tracking).Error; err != nil {
				return err
			}

			order.Shop = shop
			orders = append(orders, order)
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// createWithFreshNumber inserts the order, regenerating the order number on
// a duplicate-key violation up to the retry budget.
func (e *CheckoutEngine) createWithFreshNumber(tx *gorm.DB, order *models.Order) error {
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		number, err := e.newOrderNumber()
		if err != nil {
			return err
		}
		order.OrderNumber = number

		err = tx.Create(order).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return ErrConflict
}
