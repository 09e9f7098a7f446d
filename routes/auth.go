package routes

import (
	"github.com/amasood-dev/shopcart-api/auth"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", auth.SignupHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
		authGroup.GET("/me", middleware.ValidateToken(db), auth.MeHandler())
	}
}
