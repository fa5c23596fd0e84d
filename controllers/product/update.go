package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hemachandram324/ecommerce-project/models"
)

// Product updates are a closed set of explicit, typed operations. There is
// deliberately no generic field-name update endpoint.

type UpdatePriceInput struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

type UpdateNameInput struct {
	Name string `json:"name" binding:"required"`
}

type UpdateBrandInput struct {
	Brand string `json:"brand" binding:"required"`
}

type UpdateDescriptionInput struct {
	Description string `json:"description" binding:"required"`
}

func loadProduct(db *gorm.DB, c *gin.Context) (*models.Product, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return nil, false
	}
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		}
		return nil, false
	}
	return &product, true
}

// PUT /admin/products/:id/price
func UpdateProductPrice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadProduct(db, c)
		if !ok {
			return
		}
		var input UpdatePriceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
			return
		}
		if err := db.Model(product).Update("price", input.Price).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update price"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// PUT /admin/products/:id/name
func UpdateProductName(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadProduct(db, c)
		if !ok {
			return
		}
		var input UpdateNameInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := db.Model(product).Update("name", input.Name).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Product name already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update name"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// PUT /admin/products/:id/brand
func UpdateProductBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadProduct(db, c)
		if !ok {
			return
		}
		var input UpdateBrandInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := db.Model(product).Update("brand", input.Brand).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update brand"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// PUT /admin/products/:id/description
func UpdateProductDescription(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadProduct(db, c)
		if !ok {
			return
		}
		var input UpdateDescriptionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := db.Model(product).Update("description", input.Description).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update description"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
