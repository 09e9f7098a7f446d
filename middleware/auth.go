package middleware

import (
	"errors"
	"strings"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/auth"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ValidateToken authenticates the bearer token and attaches the resolved user
// to the request context for downstream handlers.
func ValidateToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Authorization header is missing"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Invalid Authorization format"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Token expired"))
			} else {
				apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Invalid or expired token"))
			}
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			// A missing user means a stale credential; anything else is a DB
			// failure and must not masquerade as one.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Invalid or expired token"))
			} else {
				apperrors.Respond(c, err)
			}
			c.Abort()
			return
		}

		c.Set("user", &user)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after ValidateToken.
func RequireAdmin(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok || !user.IsAdmin() {
		apperrors.Respond(c, apperrors.Forbidden(apperrors.CodeForbidden, "Admin access required"))
		c.Abort()
		return
	}
	c.Next()
}

// CurrentUser returns the authenticated user attached by ValidateToken.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := userVal.(*models.User)
	return user, ok
}
