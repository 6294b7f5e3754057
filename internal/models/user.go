package models

import (
	"time"

	"gorm.io/gorm"
)

// User types: 'customer', 'shopkeeper', 'admin'
const (
	UserTypeCustomer   = "customer"
	UserTypeShopkeeper = "shopkeeper"
	UserTypeAdmin      = "admin"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:150;unique;not null" json:"username"`
	Email        string         `gorm:"size:254;unique;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	UserType     string         `gorm:"size:20;default:customer" json:"user_type"`
	PhoneNumber  string         `gorm:"size:17" json:"phone_number"`
	Address      string         `gorm:"type:text" json:"address"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
