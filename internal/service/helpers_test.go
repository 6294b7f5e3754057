package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"neighborly-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seedSeq atomic.Int64

func nextSeq() int64 {
	return seedSeq.Add(1)
}

func seedUser(t *testing.T, db *gorm.DB, userType string) models.User {
	t.Helper()
	n := nextSeq()
	user := models.User{
		Username:     fmt.Sprintf("%s-%d", userType, n),
		Email:        fmt.Sprintf("%s%d@example.com", userType, n),
		PasswordHash: "x",
		UserType:     userType,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedShop(t *testing.T, db *gorm.DB, ownerID uint, deliveryFee float64) models.Shop {
	t.Helper()
	shop := models.Shop{
		OwnerID:     ownerID,
		Name:        fmt.Sprintf("shop-%d", nextSeq()),
		Status:      models.ShopStatusActive,
		DeliveryFee: deliveryFee,
	}
	require.NoError(t, db.Create(&shop).Error)
	return shop
}

func seedProduct(t *testing.T, db *gorm.DB, shopID uint, price float64, stock int) models.Product {
	t.Helper()
	n := nextSeq()
	product := models.Product{
		ShopID:        shopID,
		Name:          fmt.Sprintf("product-%d", n),
		Price:         price,
		StockQuantity: stock,
		SKU:           fmt.Sprintf("SKU-%d", n),
		Status:        models.ProductStatusAvailable,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCart(t *testing.T, db *gorm.DB, customerID uint) models.Cart {
	t.Helper()
	cart := models.Cart{CustomerID: customerID}
	require.NoError(t, db.Create(&cart).Error)
	return cart
}

func addCartLine(t *testing.T, db *gorm.DB, cartID, productID uint, quantity int) models.CartItem {
	t.Helper()
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func cartLineCount(t *testing.T, db *gorm.DB, cartID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&n).Error)
	return n
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
