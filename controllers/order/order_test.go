package orderControllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderEvent{},
	))
	return db
}

func createUserWithAddress(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Password: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	address := models.Address{
		Line1:   "12 High Street",
		City:    "Leeds",
		Country: "UK",
		ZipCode: "LS1 4DY",
		UserID:  user.ID,
	}
	require.NoError(t, db.Create(&address).Error)
	require.NoError(t, db.Model(&user).Update("default_shipping_address_id", address.ID).Error)
	user.DefaultShippingAddressID = &address.ID
	return &user
}

func createProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func addToCart(t *testing.T, db *gorm.DB, user *models.User, product *models.Product, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  qty,
	}).Error)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	productA := createProduct(t, db, "Keyboard", "10.00")
	productB := createProduct(t, db, "Mouse", "5.00")
	addToCart(t, db, user, productA, 2)
	addToCart(t, db, user, productB, 1)

	order, err := Checkout(db, user)
	require.NoError(t, err)

	assert.True(t, order.NetAmount.Equal(decimal.RequireFromString("25.00")),
		"net amount = %s", order.NetAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "12 High Street, Leeds, UK, LS1 4DY", order.Address)
	assert.NotEmpty(t, order.OrderRef)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 1, order.Items[1].Quantity)

	var events []models.OrderEvent
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.OrderStatusPending, events[0].Status)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)
}

func TestCheckoutEmptyCartIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")

	order, err := Checkout(db, user)
	require.ErrorIs(t, err, ErrCartEmpty)
	assert.Nil(t, order)

	var orderCount, eventCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderEvent{}).Count(&eventCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, eventCount)
}

func TestCheckoutWithoutDefaultAddressRollsBack(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Name: "No Address", Email: "bob@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, &user, product, 1)

	_, err := Checkout(db, &user)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAddressNotConfigured, appErr.Code)

	// Nothing was written, the cart is untouched.
	var orderCount, eventCount, cartCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderEvent{}).Count(&eventCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, eventCount)
	assert.EqualValues(t, 1, cartCount)
}

func TestCheckoutWithDanglingDefaultAddressRollsBack(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.Address{}).Error)
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)

	_, err := Checkout(db, user)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAddressNotConfigured, appErr.Code)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestNetAmountFrozenAfterPriceChange(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 2)

	order, err := Checkout(db, user)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	var fetched models.Order
	require.NoError(t, db.First(&fetched, order.ID).Error)
	assert.True(t, fetched.NetAmount.Equal(decimal.RequireFromString("20.00")),
		"net amount = %s", fetched.NetAmount)
}

func TestAdminTransitionAppendsEvent(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)
	order, err := Checkout(db, user)
	require.NoError(t, err)

	updated, err := TransitionOrderStatus(db, &admin, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	var events []models.OrderEvent
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("id ASC").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, models.OrderStatusPending, events[0].Status)
	assert.Equal(t, models.OrderStatusCancelled, events[1].Status)

	// Order.Status mirrors the latest event.
	var fetched models.Order
	require.NoError(t, db.First(&fetched, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, fetched.Status)
}

func TestIllegalTransitionRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)
	order, err := Checkout(db, user)
	require.NoError(t, err)

	_, err = TransitionOrderStatus(db, &admin, order.ID, models.OrderStatusDelivered)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidStatusTransition, appErr.Code)

	// No event was appended and the status is unchanged.
	var eventCount int64
	require.NoError(t, db.Model(&models.OrderEvent{}).Where("order_id = ?", order.ID).Count(&eventCount).Error)
	assert.EqualValues(t, 1, eventCount)

	var fetched models.Order
	require.NoError(t, db.First(&fetched, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, fetched.Status)
}

func TestUserCanCancelOwnPendingOrder(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)
	order, err := Checkout(db, user)
	require.NoError(t, err)

	updated, err := TransitionOrderStatus(db, user, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
}

func TestUserCannotTransitionToNonCancelledStatus(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)
	order, err := Checkout(db, user)
	require.NoError(t, err)

	_, err = TransitionOrderStatus(db, user, order.ID, models.OrderStatusAccepted)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestUserCannotCancelAnotherUsersOrder(t *testing.T) {
	db := setupTestDB(t)
	owner := createUserWithAddress(t, db, "alice@example.com")
	other := createUserWithAddress(t, db, "mallory@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, owner, product, 1)
	order, err := Checkout(db, owner)
	require.NoError(t, err)

	// The other user is told the order does not exist, never that it belongs
	// to someone else.
	_, err = TransitionOrderStatus(db, other, order.ID, models.OrderStatusCancelled)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeOrderNotFound, appErr.Code)

	var fetched models.Order
	require.NoError(t, db.First(&fetched, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, fetched.Status)
}

func TestTransitionMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	_, err := TransitionOrderStatus(db, &admin, 12345, models.OrderStatusAccepted)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeOrderNotFound, appErr.Code)
}

func TestCheckoutWithRemovedProductRollsBack(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 2)

	// The product is removed from the catalog while the line sits in the cart.
	require.NoError(t, db.Delete(&models.Product{}, product.ID).Error)

	_, err := Checkout(db, user)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeProductNotFound, appErr.Code)

	// No zero-priced order was committed and the cart is untouched.
	var orderCount, eventCount, cartCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderEvent{}).Count(&eventCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, eventCount)
	assert.EqualValues(t, 1, cartCount)
}

func TestApplyTransitionRejectsStaleStatus(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)
	order, err := Checkout(db, user)
	require.NoError(t, err)

	// Snapshot the order while it is still PENDING, then let another
	// transition win.
	var stale models.Order
	require.NoError(t, db.First(&stale, order.ID).Error)
	_, err = TransitionOrderStatus(db, &admin, order.ID, models.OrderStatusAccepted)
	require.NoError(t, err)

	// The stale PENDING observation must lose instead of appending a
	// CANCELLED event after ACCEPTED.
	err = applyTransition(db, &stale, models.OrderStatusCancelled)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, apperrors.CodeTransitionConflict, appErr.Code)

	var events []models.OrderEvent
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("id ASC").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, models.OrderStatusPending, events[0].Status)
	assert.Equal(t, models.OrderStatusAccepted, events[1].Status)

	var fetched models.Order
	require.NoError(t, db.First(&fetched, order.ID).Error)
	assert.Equal(t, models.OrderStatusAccepted, fetched.Status)
}

func TestCheckoutHonorsCancelledContext(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Checkout(db.WithContext(ctx), user)
	require.Error(t, err)

	// The aborted attempt left no partial order behind.
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount)
}

func TestCheckoutTwiceOnlyCreatesOneOrder(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "alice@example.com")
	product := createProduct(t, db, "Keyboard", "10.00")
	addToCart(t, db, user, product, 1)

	_, err := Checkout(db, user)
	require.NoError(t, err)

	// The cart was emptied by the first checkout.
	_, err = Checkout(db, user)
	require.ErrorIs(t, err, ErrCartEmpty)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}
