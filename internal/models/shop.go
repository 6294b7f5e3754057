package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ShopStatusActive    = "active"
	ShopStatusInactive  = "inactive"
	ShopStatusSuspended = "suspended"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	Products    []Product `json:"-"`
}

type Shop struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	OwnerID            uint      `gorm:"not null;index" json:"owner_id"`
	Owner              User      `gorm:"foreignKey:OwnerID" json:"-"`
	Name               string    `gorm:"size:200;not null" json:"name"`
	Description        string    `gorm:"type:text" json:"description"`
	Address            string    `gorm:"type:text" json:"address"`
	Phone              string    `gorm:"size:17" json:"phone"`
	Email              string    `gorm:"size:254" json:"email"`
	OpeningTime        string    `gorm:"size:5" json:"opening_time"` // HH:MM
	ClosingTime        string    `gorm:"size:5" json:"closing_time"`
	IsOpen247          bool      `gorm:"default:false" json:"is_open_24_7"`
	Status             string    `gorm:"size:20;default:active" json:"status"`
	OffersDelivery     bool      `gorm:"default:true" json:"offers_delivery"`
	MinimumOrderAmount float64   `gorm:"type:decimal(10,2);default:0.00" json:"minimum_order_amount"`
	DeliveryFee        float64   `gorm:"type:decimal(10,2);default:0.00" json:"delivery_fee"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Products           []Product `json:"-"`
}

const (
	ProductStatusAvailable    = "available"
	ProductStatusOutOfStock   = "out_of_stock"
	ProductStatusDiscontinued = "discontinued"
)

type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ShopID            uint           `gorm:"not null;index" json:"shop_id"`
	Shop              Shop           `gorm:"foreignKey:ShopID" json:"shop"`
	CategoryID        *uint          `json:"category_id"`
	Category          *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name              string         `gorm:"size:200;not null" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	Price             float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice     *float64       `gorm:"type:decimal(10,2)" json:"discount_price"`
	StockQuantity     int            `gorm:"default:0" json:"stock_quantity"`
	LowStockThreshold int            `gorm:"default:10" json:"low_stock_threshold"`
	SKU               string         `gorm:"size:100;unique;not null" json:"sku"`
	Brand             string         `gorm:"size:100" json:"brand"`
	Status            string         `gorm:"size:20;default:available" json:"status"`
	IsFeatured        bool           `gorm:"default:false" json:"is_featured"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePrice is the discount price when one is set strictly below the
// list price, otherwise the list price.
func (p *Product) EffectivePrice() float64 {
	if p.IsOnSale() {
		return *p.DiscountPrice
	}
	return p.Price
}

func (p *Product) IsOnSale() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice < p.Price
}

func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}
