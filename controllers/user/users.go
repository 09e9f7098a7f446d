package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name                     *string `json:"name"`
	DefaultShippingAddressID *uint   `json:"default_shipping_address_id"`
	DefaultBillingAddressID  *uint   `json:"default_billing_address_id"`
}

type ChangeRoleInput struct {
	Role string `json:"role" binding:"required"`
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		var full models.User
		if err := db.Preload("Addresses").First(&full, user.ID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound(apperrors.CodeUserNotFound, "User not found"))
			return
		}

		c.JSON(http.StatusOK, full)
	}
}

// PUT /user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		// A default address must belong to the user designating it.
		if input.DefaultShippingAddressID != nil {
			if err := ownsAddress(db, user.ID, *input.DefaultShippingAddressID); err != nil {
				apperrors.Respond(c, err)
				return
			}
			updates["default_shipping_address_id"] = *input.DefaultShippingAddressID
		}
		if input.DefaultBillingAddressID != nil {
			if err := ownsAddress(db, user.ID, *input.DefaultBillingAddressID); err != nil {
				apperrors.Respond(c, err)
				return
			}
			updates["default_billing_address_id"] = *input.DefaultBillingAddressID
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				apperrors.Respond(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}

func ownsAddress(db *gorm.DB, userID, addressID uint) error {
	var address models.Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(apperrors.CodeAddressNotFound, "Address not found")
		}
		return err
	}
	return nil
}

// GET /admin/users?skip=&take=
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
		take, _ := strconv.Atoi(c.DefaultQuery("take", "20"))
		if skip < 0 {
			skip = 0
		}
		if take <= 0 || take > 100 {
			take = 20
		}

		var count int64
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var users []models.User
		if err := db.Order("created_at DESC").
			Offset(skip).Limit(take).
			Find(&users).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count, "data": users})
	}
}

// PUT /admin/users/:id/role
func ChangeUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid user id"))
			return
		}

		var input ChangeRoleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}
		role := models.Role(input.Role)
		if role != models.RoleUser && role != models.RoleAdmin {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Role must be USER or ADMIN"))
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound(apperrors.CodeUserNotFound, "User not found"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		if err := db.Model(&user).Update("role", role).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
