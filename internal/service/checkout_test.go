package service

import (
	"fmt"
	"testing"

	"neighborly-backend/internal/models"
	"neighborly-backend/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSplitsCartByShop(t *testing.T) {
	for _, shopCount := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d_shops", shopCount), func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			customer := seedUser(t, db, models.UserTypeCustomer)
			keeper := seedUser(t, db, models.UserTypeShopkeeper)
			cart := seedCart(t, db, customer.ID)

			for i := 0; i < shopCount; i++ {
				shop := seedShop(t, db, keeper.ID, 2.50)
				product := seedProduct(t, db, shop.ID, 10.00, 100)
				addCartLine(t, db, cart.ID, product.ID, 1)
			}

			engine := NewCheckoutEngine(db)
			orders, err := engine.Checkout(customer.ID, CheckoutInput{
				DeliveryAddress: "1 Elm St",
				DeliveryPhone:   "+15550001111",
				PaymentMethod:   models.PaymentMethodCashOnDelivery,
			})
			require.NoError(t, err)
			assert.Len(t, orders, shopCount)
			assert.EqualValues(t, 0, cartLineCount(t, db, cart.ID))

			seen := map[uint]bool{}
			for _, order := range orders {
				assert.False(t, seen[order.ShopID], "one order per shop")
				seen[order.ShopID] = true
			}
		})
	}
}

func TestCheckoutTwoShopScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	keeper := seedUser(t, db, models.UserTypeShopkeeper)
	cart := seedCart(t, db, customer.ID)

	shopA := seedShop(t, db, keeper.ID, 5.00)
	shopB := seedShop(t, db, keeper.ID, 0.00)

	productA1 := seedProduct(t, db, shopA.ID, 3.99, 10)
	productA2 := seedProduct(t, db, shopA.ID, 2.49, 10)
	productB1 := seedProduct(t, db, shopB.ID, 79.99, 10)

	addCartLine(t, db, cart.ID, productA1.ID, 1)
	addCartLine(t, db, cart.ID, productA2.ID, 2)
	addCartLine(t, db, cart.ID, productB1.ID, 1)

	engine := NewCheckoutEngine(db)
	orders, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Partition order is stable: shop A appears first in the cart.
	orderA, orderB := orders[0], orders[1]
	require.Equal(t, shopA.ID, orderA.ShopID)
	require.Equal(t, shopB.ID, orderB.ShopID)

	assert.InDelta(t, 8.97, orderA.Subtotal, 1e-9)
	assert.InDelta(t, 13.97, orderA.TotalAmount, 1e-9)
	assert.InDelta(t, 79.99, orderB.Subtotal, 1e-9)
	assert.InDelta(t, 79.99, orderB.TotalAmount, 1e-9)

	assert.EqualValues(t, 0, cartLineCount(t, db, cart.ID))
}

func TestCheckoutInvariants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	keeper := seedUser(t, db, models.UserTypeShopkeeper)
	cart := seedCart(t, db, customer.ID)

	shop := seedShop(t, db, keeper.ID, 3.00)
	product := seedProduct(t, db, shop.ID, 4.25, 50)
	addCartLine(t, db, cart.ID, product.ID, 3)

	engine := NewCheckoutEngine(db)
	orders, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodWallet,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, orders[0].ID).Error)

	for _, item := range order.Items {
		assert.InDelta(t, float64(item.Quantity)*item.UnitPrice, item.Subtotal, 1e-9)
	}
	assert.InDelta(t, order.Subtotal+order.DeliveryFee+order.TaxAmount-order.DiscountAmount, order.TotalAmount, 1e-9)

	// Status matches the newest tracking row.
	var tracking models.OrderTracking
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("created_at desc, id desc").First(&tracking).Error)
	assert.Equal(t, order.Status, tracking.Status)
	assert.Equal(t, models.OrderStatusPending, tracking.Status)

	// Stock was decremented inside the same transaction.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 47, fresh.StockQuantity)
}

func TestCheckoutUsesEffectivePrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	keeper := seedUser(t, db, models.UserTypeShopkeeper)
	cart := seedCart(t, db, customer.ID)

	shop := seedShop(t, db, keeper.ID, 0.00)
	onSale := seedProduct(t, db, shop.ID, 10.00, 10)
	discount := 7.50
	require.NoError(t, db.Model(&onSale).Update("discount_price", discount).Error)

	// A "discount" above list price is ignored.
	notOnSale := seedProduct(t, db, shop.ID, 5.00, 10)
	bogus := 9.00
	require.NoError(t, db.Model(&notOnSale).Update("discount_price", bogus).Error)

	addCartLine(t, db, cart.ID, onSale.ID, 2)
	addCartLine(t, db, cart.ID, notOnSale.ID, 1)

	engine := NewCheckoutEngine(db)
	orders, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.InDelta(t, 2*7.50+5.00, orders[0].Subtotal, 1e-9)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	seedCart(t, db, customer.ID)

	engine := NewCheckoutEngine(db)
	_, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutMissingCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)

	engine := NewCheckoutEngine(db)
	_, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	keeper := seedUser(t, db, models.UserTypeShopkeeper)
	cart := seedCart(t, db, customer.ID)

	shopA := seedShop(t, db, keeper.ID, 1.00)
	shopB := seedShop(t, db, keeper.ID, 1.00)
	okProduct := seedProduct(t, db, shopA.ID, 2.00, 100)
	scarce := seedProduct(t, db, shopB.ID, 3.00, 1)

	addCartLine(t, db, cart.ID, okProduct.ID, 2)
	addCartLine(t, db, cart.ID, scarce.ID, 5)

	engine := NewCheckoutEngine(db)
	_, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing from the failed checkout may persist, including the first
	// shop's order.
	assert.EqualValues(t, 0, count(t, db, &models.Order{}))
	assert.EqualValues(t, 0, count(t, db, &models.OrderItem{}))
	assert.EqualValues(t, 0, count(t, db, &models.OrderTracking{}))
	assert.EqualValues(t, 2, cartLineCount(t, db, cart.ID))

	var fresh models.Product
	require.NoError(t, db.First(&fresh, okProduct.ID).Error)
	assert.Equal(t, 100, fresh.StockQuantity)
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	keeper := seedUser(t, db, models.UserTypeShopkeeper)
	cart := seedCart(t, db, customer.ID)

	shop := seedShop(t, db, keeper.ID, 0.00)
	product := seedProduct(t, db, shop.ID, 1.00, 10)
	addCartLine(t, db, cart.ID, product.ID, 1)

	// An order already holds the first number the generator will produce.
	other := seedUser(t, db, models.UserTypeCustomer)
	taken := models.Order{
		OrderUID:        "existing-uid",
		OrderNumber:     "TAKEN001",
		CustomerID:      other.ID,
		ShopID:          shop.ID,
		Subtotal:        1,
		TotalAmount:     1,
		DeliveryAddress: "x",
		DeliveryPhone:   "x",
	}
	require.NoError(t, db.Create(&taken).Error)

	engine := NewCheckoutEngine(db)
	numbers := []string{"TAKEN001", "TAKEN001", "FRESH002"}
	engine.newOrderNumber = func() (string, error) {
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n, nil
	}

	orders, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "FRESH002", orders[0].OrderNumber)
}

func TestCheckoutConflictExhaustionRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := seedUser(t, db, models.UserTypeCustomer)
	keeper := seedUser(t, db, models.UserTypeShopkeeper)
	cart := seedCart(t, db, customer.ID)

	shop := seedShop(t, db, keeper.ID, 0.00)
	product := seedProduct(t, db, shop.ID, 1.00, 10)
	addCartLine(t, db, cart.ID, product.ID, 1)

	other := seedUser(t, db, models.UserTypeCustomer)
	taken := models.Order{
		OrderUID:        "existing-uid",
		OrderNumber:     "TAKEN001",
		CustomerID:      other.ID,
		ShopID:          shop.ID,
		Subtotal:        1,
		TotalAmount:     1,
		DeliveryAddress: "x",
		DeliveryPhone:   "x",
	}
	require.NoError(t, db.Create(&taken).Error)

	engine := NewCheckoutEngine(db)
	engine.newOrderNumber = func() (string, error) { return "TAKEN001", nil }

	_, err := engine.Checkout(customer.ID, CheckoutInput{
		DeliveryAddress: "1 Elm St",
		DeliveryPhone:   "+15550001111",
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.ErrorIs(t, err, ErrConflict)

	// Only the pre-existing order remains; the cart is untouched.
	assert.EqualValues(t, 1, count(t, db, &models.Order{}))
	assert.EqualValues(t, 0, count(t, db, &models.OrderItem{}))
	assert.EqualValues(t, 1, cartLineCount(t, db, cart.ID))
}
