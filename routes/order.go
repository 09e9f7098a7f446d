package routes

import (
	orderControllers "github.com/amasood-dev/shopcart-api/controllers/order"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers the user-facing order endpoints. Requires JWT
// middleware.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(db))
	{
		// Run the checkout transaction for the caller
		orders.POST("", orderControllers.CheckoutHandler(db))

		// Fetch the caller's orders
		orders.GET("", orderControllers.GetMyOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Caller-initiated cancellation
		orders.PUT("/:orderID/cancel", orderControllers.CancelOrderHandler(db))
	}
}
