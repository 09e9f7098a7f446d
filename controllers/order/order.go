package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrCartEmpty signals checkout against an empty cart. It is a valid no-op
// outcome, not a failure: no order is created and nothing is written.
var ErrCartEmpty = errors.New("cart is empty")

// txTimeout bounds every order transaction; on expiry the whole transaction
// rolls back.
const txTimeout = 10 * time.Second

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// Checkout converts the user's current cart into a durable order, atomically.
// Reading the cart, creating the order with its items, appending the initial
// PENDING event and clearing the cart all happen in one transaction; a failure
// at any step leaves the database exactly as it was.
func Checkout(db *gorm.DB, user *models.User) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		if user.DefaultShippingAddressID == nil {
			return apperrors.BadRequest(apperrors.CodeAddressNotConfigured, "No default shipping address configured")
		}
		var address models.Address
		err := tx.Where("id = ? AND user_id = ?", *user.DefaultShippingAddressID, user.ID).First(&address).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.BadRequest(apperrors.CodeAddressNotConfigured, "No default shipping address configured")
			}
			return err
		}

		netAmount := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			// Preload skips soft-deleted products; a dangling cart line must
			// fail the checkout rather than price at zero.
			if item.Product.ID == 0 {
				return apperrors.NotFound(apperrors.CodeProductNotFound, "Product no longer available")
			}
			lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			netAmount = netAmount.Add(lineTotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order = models.Order{
			OrderRef:  generateOrderRef(),
			UserID:    user.ID,
			NetAmount: netAmount,
			Address:   address.Formatted(),
			Status:    models.OrderStatusPending,
			Items:     orderItems,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		event := models.OrderEvent{OrderID: order.ID, Status: models.OrderStatusPending}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		order.Events = []models.OrderEvent{event}

		// The delete must cover exactly the lines read above; any mismatch
		// means a concurrent cart mutation and aborts the whole checkout.
		result := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(items)) {
			return apperrors.New(http.StatusConflict, apperrors.CodeCheckoutConflict, "Cart changed during checkout, please retry")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionOrderStatus moves an order to a new status and appends the matching
// event, atomically. Admins may perform any legal transition; a user may only
// cancel their own order.
func TransitionOrderStatus(db *gorm.DB, actor *models.User, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(apperrors.CodeOrderNotFound, "Order not found")
			}
			return err
		}

		if !actor.IsAdmin() {
			if order.UserID != actor.ID {
				// Hide other users' orders instead of confirming they exist.
				return apperrors.NotFound(apperrors.CodeOrderNotFound, "Order not found")
			}
			if next != models.OrderStatusCancelled {
				return apperrors.Forbidden(apperrors.CodeForbidden, "Only cancellation is allowed")
			}
		}

		if !order.Status.CanTransitionTo(next) {
			return apperrors.BadRequest(apperrors.CodeInvalidStatusTransition,
				fmt.Sprintf("Cannot transition order from %s to %s", order.Status, next))
		}

		return applyTransition(tx, &order, next)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// applyTransition conditionally moves the order from its observed status to
// next and appends the matching event. The status guard makes a concurrent
// transition lose cleanly instead of recording an edge the state machine
// forbids.
func applyTransition(tx *gorm.DB, order *models.Order, next models.OrderStatus) error {
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(http.StatusConflict, apperrors.CodeTransitionConflict, "Order status changed concurrently, please retry")
	}

	event := models.OrderEvent{OrderID: order.ID, Status: next}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}
	order.Status = next
	order.Events = append(order.Events, event)
	return nil
}

// -------- Handlers --------

// POST /orders
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), txTimeout)
		defer cancel()

		order, err := Checkout(db.WithContext(ctx), user)
		if errors.Is(err, ErrCartEmpty) {
			c.JSON(http.StatusOK, gin.H{"message": "Cart is empty"})
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		broadcastOrderEvent(order, models.OrderStatusPending)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Scopes(paginate(c)).
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid order id"))
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("Events").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound(apperrors.CodeOrderNotFound, "Order not found"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		if order.UserID != user.ID && !user.IsAdmin() {
			apperrors.Respond(c, apperrors.NotFound(apperrors.CodeOrderNotFound, "Order not found"))
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid order id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), txTimeout)
		defer cancel()

		order, err := TransitionOrderStatus(db.WithContext(ctx), user, uint(orderID), models.OrderStatusCancelled)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		broadcastOrderEvent(order, models.OrderStatusCancelled)
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders?status=&skip=&take=
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Order("created_at DESC")

		if statusParam := c.Query("status"); statusParam != "" {
			status, err := models.ParseOrderStatus(statusParam)
			if err != nil {
				apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid order status"))
				return
			}
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Scopes(paginate(c)).Find(&orders).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid order id"))
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeInvalidStatusTransition, "Invalid order status"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), txTimeout)
		defer cancel()

		order, err := TransitionOrderStatus(db.WithContext(ctx), user, uint(orderID), newStatus)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		broadcastOrderEvent(order, newStatus)
		c.JSON(http.StatusOK, order)
	}
}

// paginate applies skip/take query params as an offset/limit pass-through.
func paginate(c *gin.Context) func(*gorm.DB) *gorm.DB {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "20"))
	if skip < 0 {
		skip = 0
	}
	if take <= 0 || take > 100 {
		take = 20
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(skip).Limit(take)
	}
}
