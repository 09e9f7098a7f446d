package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Tags        *[]string        `json:"tags"`
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid product id"))
			return
		}

		var product models.Product
		if err := db.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound(apperrors.CodeProductNotFound, "Product not found"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Price cannot be negative"))
				return
			}
			updates["price"] = *input.Price
		}
		if input.Tags != nil {
			updates["tags"] = strings.Join(*input.Tags, ",")
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				apperrors.Respond(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, product)
	}
}
