package routes

import (
	cartControllers "github.com/amasood-dev/shopcart-api/controllers/cart"
	userControllers "github.com/amasood-dev/shopcart-api/controllers/user"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all profile, address book and cart endpoints.
// Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(db))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("", userControllers.GetUser(db))    // GET /user
		userGroup.PUT("", userControllers.UpdateUser(db)) // PUT /user

		// ──────────────── Address Book ────────────────
		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.POST("", userControllers.AddAddress(db))          // POST /user/addresses
			addressGroup.GET("", userControllers.GetAddresses(db))         // GET /user/addresses
			addressGroup.DELETE("/:id", userControllers.DeleteAddress(db)) // DELETE /user/addresses/:id
		}
	}

	// ──────────────── Shopping Cart ────────────────
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken(db))
	{
		cartGroup.POST("", cartControllers.AddCartItem(db))          // POST /cart
		cartGroup.GET("", cartControllers.GetCart(db))               // GET /cart
		cartGroup.PUT("/:id", cartControllers.UpdateCartItem(db))    // PUT /cart/:id
		cartGroup.DELETE("/:id", cartControllers.DeleteCartItem(db)) // DELETE /cart/:id
	}
}
