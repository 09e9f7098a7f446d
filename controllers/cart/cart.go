package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/middleware"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddCartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// POST /cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound(apperrors.CodeProductNotFound, "Product does not exist"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		// Upsert on (user_id, product_id): a duplicate add increments the
		// existing line's quantity instead of inserting a second row.
		item := models.CartItem{
			UserID:    user.ID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
			AddedAt:   time.Now(),
		}
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
				"added_at": time.Now(),
			}),
		}).Create(&item).Error
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		// Re-read the merged line so the response carries the final quantity.
		if err := db.Preload("Product").
			Where("user_id = ? AND product_id = ?", user.ID, product.ID).
			First(&item).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		items := []models.CartItem{}
		if err := db.Preload("Product").
			Where("user_id = ?", user.ID).
			Order("added_at ASC").
			Find(&items).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// PUT /cart/:id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid cart item id"))
			return
		}

		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Unprocessable(apperrors.CodeValidationFailed, "Invalid input").WithDetails(err.Error()))
			return
		}

		// Scoping by user hides other users' cart lines instead of confirming
		// they exist.
		var item models.CartItem
		if err := db.Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound(apperrors.CodeCartItemNotFound, "Cart item not found"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/:id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthorized(apperrors.CodeUnauthorized, "Unauthorized"))
			return
		}

		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid cart item id"))
			return
		}

		result := db.Where("id = ? AND user_id = ?", itemID, user.ID).Delete(&models.CartItem{})
		if result.Error != nil {
			apperrors.Respond(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound(apperrors.CodeCartItemNotFound, "Cart item not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}
