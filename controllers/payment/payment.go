package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
	orderControllers "github.com/Hemachandram324/ecommerce-project/controllers/order"
	"github.com/Hemachandram324/ecommerce-project/middleware"
	"github.com/Hemachandram324/ecommerce-project/models"
)

type PaymentIntentRequest struct {
	Amount          int64  `json:"amount" binding:"required,min=1"` // minor units
	Currency        string `json:"currency" binding:"required"`
	PaymentMethodID string `json:"payment_method_id"`
}

type CheckoutRequest struct {
	PaymentIntentID string                          `json:"payment_intent_id" binding:"required"`
	ShippingAddress models.Address                  `json:"shipping_address" binding:"required"`
	Items           []orderControllers.CheckoutItem `json:"items" binding:"required,min=1,dive"`
	// FromCart states whether this checkout consumed the user's cart; the
	// cart is only cleared when the caller says so.
	FromCart bool `json:"from_cart"`
}

// POST /payment/intent
func CreatePaymentIntentHandler(gw *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CallerID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req PaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		intent, err := gw.CreateIntent(req.Amount, req.Currency, req.PaymentMethodID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"clientSecret":    intent.ClientSecret,
			"paymentIntentId": intent.ID,
		})
	}
}

// POST /payment/checkout
func CheckoutHandler(db *gorm.DB, gw *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if _, err := gw.VerifySucceeded(req.PaymentIntentID); err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}

		orderID, err := orderControllers.FinalizePaidOrder(
			db, userID, req.ShippingAddress, req.PaymentIntentID, req.Items, req.FromCart)
		if err != nil {
			// A checkout naming an unknown product is a bad request, not a
			// missing resource.
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": orderID})
	}
}
