package routes

import (
	orderControllers "github.com/amasood-dev/shopcart-api/controllers/order"
	productcontroller "github.com/amasood-dev/shopcart-api/controllers/product"
	userControllers "github.com/amasood-dev/shopcart-api/controllers/user"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires JWT middleware
// plus the ADMIN role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(db), middleware.RequireAdmin)
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.PUT("/users/:id/role", userControllers.ChangeUserRole(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.GET("/export", productcontroller.ExportProductsToExcel(db))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))

			// websocket feed of order events
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
		}
	}
}
