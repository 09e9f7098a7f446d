package userControllers

import (
	"net/http"
	"strconv"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddAddressInput struct {
	Line1   string `json:"line1" binding:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
}

// POST /user/addresses
func AddAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		var input AddAddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		address := models.Address{
			Line1:   input.Line1,
			Line2:   input.Line2,
			City:    input.City,
			Country: input.Country,
			ZipCode: input.ZipCode,
			UserID:  user.ID,
		}
		if err := db.Create(&address).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

// GET /user/addresses
func GetAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		addresses := []models.Address{}
		if err := db.Where("user_id = ?", user.ID).Find(&addresses).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, addresses)
	}
}

// DELETE /user/addresses/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid address id"))
			return
		}

		result := db.Where("id = ? AND user_id = ?", addressID, user.ID).Delete(&models.Address{})
		if result.Error != nil {
			apperrors.Respond(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound(apperrors.CodeAddressNotFound, "Address not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
