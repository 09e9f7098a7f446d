package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public auth + catalog routes (no middleware)
	SetupAuthRoutes(r, db)
	SetupProductRoutes(r, db)

	// JWT-protected user routes (profile, addresses, cart)
	SetupUserRoutes(r, db)

	// JWT-protected order routes
	SetupOrderRoutes(r, db)

	// Admin routes (JWT + ADMIN role)
	SetupAdminRoutes(r, db)
}
