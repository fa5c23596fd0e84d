package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
	"github.com/Hemachandram324/ecommerce-project/middleware"
	"github.com/Hemachandram324/ecommerce-project/models"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity"`
}

// GetCanonicalCart returns the single cart for a user, creating it on first
// access. The unique index on carts.user_id makes creation a get-or-insert:
// losing the creation race means the winner's row is the canonical cart.
// Duplicate rows that predate the constraint are repaired by keeping the
// lowest cart id and dropping the rest.
func GetCanonicalCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var carts []models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).
		Order("cart_id asc").Find(&carts).Error; err != nil {
		return nil, err
	}

	switch len(carts) {
	case 0:
		cart := models.Cart{UserID: userID, Total: decimal.Zero}
		if err := db.Create(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				var existing models.Cart
				if err := db.Preload("Items").Where("user_id = ?", userID).
					First(&existing).Error; err != nil {
					return nil, err
				}
				return &existing, nil
			}
			return nil, err
		}
		return &cart, nil
	case 1:
		return &carts[0], nil
	default:
		canonical := carts[0]
		for _, extra := range carts[1:] {
			if err := db.Where("cart_id = ?", extra.CartID).
				Delete(&models.CartItem{}).Error; err != nil {
				return nil, err
			}
			if err := db.Delete(&models.Cart{}, extra.CartID).Error; err != nil {
				return nil, err
			}
		}
		return &canonical, nil
	}
}

// refreshCart reloads the items and persists the recomputed total. Every
// mutation below runs this before returning; the cached total is never
// trusted across a mutation.
func refreshCart(tx *gorm.DB, cart *models.Cart) error {
	if err := tx.Where("cart_id = ?", cart.CartID).Find(&cart.Items).Error; err != nil {
		return err
	}
	cart.RecalculateTotal()
	return tx.Model(cart).Update("total", cart.Total).Error
}

// AddItem puts a product in the user's cart, merging quantities if the
// product is already present. The unit price is captured from the catalog at
// add time and frozen on the line.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	var cart *models.Cart
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = GetCanonicalCart(tx, userID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("product %d", productID)
			}
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
			First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:      cart.CartID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    quantity,
				Price:       product.Price,
				AddedAt:     time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		return refreshCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets a line's quantity. A quantity of zero or less removes the
// line instead of leaving a zero-quantity row.
func UpdateItem(db *gorm.DB, userID, itemID uint, quantity int) (*models.Cart, error) {
	var cart *models.Cart
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = GetCanonicalCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("cart item %d", itemID)
			}
			return err
		}
		if item.CartID != cart.CartID {
			return apperrors.Forbiddenf("cart item %d does not belong to user %d", itemID, userID)
		}

		if quantity <= 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
		} else {
			item.Quantity = quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		return refreshCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a line from the user's cart.
func RemoveItem(db *gorm.DB, userID, itemID uint) (*models.Cart, error) {
	return UpdateItem(db, userID, itemID, 0)
}

// ClearCart drops every line and zeroes the total. The cart row itself stays.
func ClearCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = GetCanonicalCart(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.CartID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return refreshCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id), err
}

// -------- Handlers --------

// GET /cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cart, err := GetCanonicalCart(db, userID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart/items
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PUT /cart/items/:itemID
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID, err := parseUintParam(c, "itemID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
			return
		}
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := UpdateItem(db, userID, itemID, input.Quantity)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /cart/items/:itemID
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID, err := parseUintParam(c, "itemID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
			return
		}
		cart, err := RemoveItem(db, userID, itemID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cart, err := ClearCart(db, userID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
