package productcontroller

import (
	"net/http"
	"strings"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Tags        []string        `json:"tags"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}
		if input.Price.IsNegative() {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Price cannot be negative"))
			return
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Tags:        strings.Join(input.Tags, ","),
		}
		if err := db.Create(&product).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
