package models

import (
	"time"
)

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusReadyForPickup = "ready_for_pickup"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRefunded       = "refunded"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodOnline         = "online_payment"
	PaymentMethodWallet         = "wallet"
)

// OrderStatuses enumerates every writable order status.
var OrderStatuses = map[string]bool{
	OrderStatusPending:        true,
	OrderStatusConfirmed:      true,
	OrderStatusPreparing:      true,
	OrderStatusReadyForPickup: true,
	OrderStatusOutForDelivery: true,
	OrderStatusDelivered:      true,
	OrderStatusCancelled:      true,
	OrderStatusRefunded:       true,
}

// TerminalOrderStatuses admit no further transitions.
var TerminalOrderStatuses = map[string]bool{
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
	OrderStatusRefunded:  true,
}

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// OrderUID is the opaque tracking token; OrderNumber is the
	// human-facing code. Both are unique and fixed at creation.
	OrderUID    string `gorm:"size:36;uniqueIndex;not null" json:"order_id"`
	OrderNumber string `gorm:"size:20;uniqueIndex;not null" json:"order_number"`

	CustomerID uint `gorm:"not null;index" json:"customer_id"`
	Customer   User `gorm:"foreignKey:CustomerID" json:"-"`
	ShopID     uint `gorm:"not null;index" json:"shop_id"`
	Shop       Shop `gorm:"foreignKey:ShopID" json:"shop"`

	Status        string `gorm:"size:20;default:pending" json:"status"`
	PaymentStatus string `gorm:"size:20;default:pending" json:"payment_status"`
	PaymentMethod string `gorm:"size:20;default:cash_on_delivery" json:"payment_method"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee    float64 `gorm:"type:decimal(10,2);default:0.00" json:"delivery_fee"`
	TaxAmount      float64 `gorm:"type:decimal(10,2);default:0.00" json:"tax_amount"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.00" json:"discount_amount"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	DeliveryAddress       string     `gorm:"type:text;not null" json:"delivery_address"`
	DeliveryPhone         string     `gorm:"size:17;not null" json:"delivery_phone"`
	DeliveryInstructions  string     `gorm:"type:text" json:"delivery_instructions"`
	SpecialInstructions   string     `gorm:"type:text" json:"special_instructions"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time"`

	Items    []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Tracking []OrderTracking `gorm:"foreignKey:OrderID" json:"-"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OrderItem is an immutable snapshot of one product line at order time.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}

// OrderTracking rows are append-only; the order's Status column is a
// denormalized copy of the newest row and both are written in one
// transaction.
type OrderTracking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"-"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	Message     string    `gorm:"type:text" json:"message"`
	CreatedByID *uint     `json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
