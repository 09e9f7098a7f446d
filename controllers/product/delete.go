package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid product id"))
			return
		}

		result := db.Delete(&models.Product{}, productID)
		if result.Error != nil {
			apperrors.Respond(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound(apperrors.CodeProductNotFound, "Product not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
