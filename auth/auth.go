package auth

import (
	"errors"
	"net/http"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/signup
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		var existing models.User
		err := db.Where("email = ?", req.Email).First(&existing).Error
		if err == nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeUserAlreadyExists, "User already exists"))
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		user := models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hash),
			Role:     models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound(apperrors.CodeUserNotFound, "User does not exist"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeIncorrectPassword, "Incorrect password"))
			return
		}

		token, err := GenerateToken(user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// GET /auth/me (behind the token middleware)
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}
		c.JSON(http.StatusOK, userVal.(*models.User))
	}
}
