package orderControllers

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
	cartControllers "github.com/Hemachandram324/ecommerce-project/controllers/cart"
	"github.com/Hemachandram324/ecommerce-project/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Address{}, &models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Role: models.RoleCustomer}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint) models.Address {
	t.Helper()
	address := models.Address{
		UserID: userID, FullName: "Test User", Line1: "1 Main St",
		City: "Springfield", PostalCode: "12345", Country: "US",
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	return count
}

func TestFinalizePaidOrderComputesTotalFromCatalog(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	a := seedProduct(t, db, "Product A", "10.00")
	b := seedProduct(t, db, "Product B", "5.00")
	address := seedAddress(t, db, user.ID)

	orderID, err := FinalizePaidOrder(db, user.ID, address, "pay_total", []CheckoutItem{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	}, false)
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("25.00")),
		"total %s", order.Total)
	require.Len(t, order.Items, 2)

	// ORDER-1: the stored total always equals the sum over the snapshots.
	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, order.Total.Equal(sum))
}

func TestFinalizePaidOrderIsIdempotent(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "P1", "20.00")
	address := seedAddress(t, db, user.ID)

	first, err := FinalizePaidOrder(db, user.ID, address, "pay_123",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 1}}, false)
	require.NoError(t, err)

	// Retry with the same reference, even with a different item list,
	// returns the same order and creates nothing.
	second, err := FinalizePaidOrder(db, user.ID, address, "pay_123",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 5}}, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("payment_ref = ?", "pay_123").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var order models.Order
	require.NoError(t, db.First(&order, first).Error)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestFinalizePaidOrderUnknownProductPersistsNothing(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "P1", "20.00")
	address := seedAddress(t, db, user.ID)

	_, err := FinalizePaidOrder(db, user.ID, address, "pay_bad", []CheckoutItem{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	}, false)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "9999")
	assert.EqualValues(t, 0, orderCount(t, db))
}

func TestFinalizePaidOrderUnknownUser(t *testing.T) {
	db := setupDB(t)
	_, err := FinalizePaidOrder(db, 777, models.Address{Line1: "1 Main St"}, "pay_x", nil, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFinalizePaidOrderCartClearing(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	a := seedProduct(t, db, "Product A", "10.00")
	b := seedProduct(t, db, "Product B", "5.00")
	address := seedAddress(t, db, user.ID)

	_, err := cartControllers.AddItem(db, user.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = cartControllers.AddItem(db, user.ID, b.ID, 1)
	require.NoError(t, err)

	// A buy-now checkout leaves the cart alone, even for one item.
	_, err = FinalizePaidOrder(db, user.ID, address, "pay_buynow",
		[]CheckoutItem{{ProductID: a.ID, Quantity: 1}}, false)
	require.NoError(t, err)
	cart, err := cartControllers.GetCanonicalCart(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	// A cart checkout empties it and zeroes the total.
	orderID, err := FinalizePaidOrder(db, user.ID, address, "pay_cart",
		[]CheckoutItem{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 1}}, true)
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("25.00")))

	cart, err = cartControllers.GetCanonicalCart(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestFinalizePaidOrderSnapshotsAddress(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "P1", "20.00")

	// First use: no identity yet, the finalizer persists it.
	ship := models.Address{
		FullName: "Test User", Line1: "1 Main St", City: "Springfield",
		PostalCode: "12345", Country: "US",
	}
	orderID, err := FinalizePaidOrder(db, user.ID, ship, "pay_addr",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 1}}, false)
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	require.NotZero(t, order.ShippingAddressID)
	assert.Equal(t, "Springfield", order.Shipping.City)

	var saved models.Address
	require.NoError(t, db.First(&saved, order.ShippingAddressID).Error)
	assert.Equal(t, user.ID, saved.UserID)

	// Editing the address book later never rewrites order history.
	require.NoError(t, db.Model(&saved).Update("city", "Shelbyville").Error)
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, "Springfield", order.Shipping.City)
}

func TestPlaceOrderFromCart(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	a := seedProduct(t, db, "Product A", "10.00")
	address := seedAddress(t, db, user.ID)

	_, err := PlaceOrderFromCart(db, user.ID, address.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "empty cart must not check out")

	_, err = cartControllers.AddItem(db, user.ID, a.ID, 2)
	require.NoError(t, err)

	order, err := PlaceOrderFromCart(db, user.ID, address.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("20.00")))
	assert.NotEmpty(t, order.PaymentRef)

	cart, err := cartControllers.GetCanonicalCart(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrderFromCartForeignAddress(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	other := seedUser(t, db, "other@example.com")
	a := seedProduct(t, db, "Product A", "10.00")
	foreign := seedAddress(t, db, other.ID)

	_, err := cartControllers.AddItem(db, user.ID, a.ID, 1)
	require.NoError(t, err)

	_, err = PlaceOrderFromCart(db, user.ID, foreign.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	p := seedProduct(t, db, "P1", "20.00")
	address := seedAddress(t, db, owner.ID)

	orderID, err := FinalizePaidOrder(db, owner.ID, address, "pay_own",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 1}}, false)
	require.NoError(t, err)

	order, err := GetOrderForUser(db, orderID, owner.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "P1", order.Items[0].ProductName)

	_, err = GetOrderForUser(db, orderID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = GetOrderForUser(db, 555, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "P1", "20.00")
	address := seedAddress(t, db, user.ID)

	orderID, err := FinalizePaidOrder(db, user.ID, address, "pay_status",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 1}}, false)
	require.NoError(t, err)

	order, err := UpdateStatus(db, orderID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	// CANCELLED is unreachable once shipped.
	_, err = UpdateStatus(db, orderID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	order, err = UpdateStatus(db, orderID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	_, err = UpdateStatus(db, orderID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// The stored row reflects only the accepted transitions.
	var stored models.Order
	require.NoError(t, db.First(&stored, orderID).Error)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
}

func TestUpdateStatusCancelBeforeShipping(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p := seedProduct(t, db, "P1", "20.00")
	address := seedAddress(t, db, user.ID)

	orderID, err := FinalizePaidOrder(db, user.ID, address, "pay_cancel",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 1}}, false)
	require.NoError(t, err)

	order, err := UpdateStatus(db, orderID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestDeleteOrder(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	admin := models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	p := seedProduct(t, db, "P1", "20.00")
	address := seedAddress(t, db, owner.ID)

	orderID, err := FinalizePaidOrder(db, owner.ID, address, "pay_del",
		[]CheckoutItem{{ProductID: p.ID, Quantity: 1}}, false)
	require.NoError(t, err)

	err = DeleteOrder(db, orderID, other)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, DeleteOrder(db, orderID, admin))
	assert.EqualValues(t, 0, orderCount(t, db))

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 0, itemCount)
}
