package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/Hemachandram324/ecommerce-project/controllers/payment"
	"github.com/Hemachandram324/ecommerce-project/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, gw *paymentControllers.Client) {
	payment := r.Group("/payment")
	payment.Use(middleware.ValidateToken)
	{
		payment.POST("/intent", paymentControllers.CreatePaymentIntentHandler(gw))
		payment.POST("/checkout", paymentControllers.CheckoutHandler(db, gw))
	}
}
