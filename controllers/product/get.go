package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, product)
	}
}
