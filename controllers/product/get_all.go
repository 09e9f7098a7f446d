package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/amasood-dev/shopcart-api/apperrors"
	"github.com/amasood-dev/shopcart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /products?search=&min_price=&max_price=&skip=&take=
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		query := db.Model(&models.Product{})

		// Search over name, description and tags
		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where(
				"name ILIKE ? OR description ILIKE ? OR tags ILIKE ?",
				likePattern, likePattern, likePattern,
			)
		}

		// Price range filter
		if minPriceStr != "" {
			if mp, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
				query = query.Where("price >= ?", mp)
			} else {
				apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid min_price"))
				return
			}
		}
		if maxPriceStr != "" {
			if mp, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
				query = query.Where("price <= ?", mp)
			} else {
				apperrors.Respond(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "Invalid max_price"))
				return
			}
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
		take, _ := strconv.Atoi(c.DefaultQuery("take", "20"))
		if skip < 0 {
			skip = 0
		}
		if take <= 0 || take > 100 {
			take = 20
		}

		var products []models.Product
		if err := query.Order("created_at " + sortOrder).
			Offset(skip).Limit(take).
			Find(&products).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count, "data": products})
	}
}
