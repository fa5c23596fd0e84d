package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Hemachandram324/ecommerce-project/controllers/order"
	"github.com/Hemachandram324/ecommerce-project/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Cart-to-order flow (payment deferred, order starts PENDING)
		orders.POST("/place", orderControllers.PlaceOrderHandler(db))

		// Caller's own orders
		orders.GET("/user", orderControllers.GetUserOrdersHandler(db))

		// Single order, owner only
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Owner or admin removal
		orders.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))

		// Status machine, admin only
		orders.POST("/:orderID/status", middleware.RequireAdmin, orderControllers.UpdateOrderStatusHandler(db))

		// Live feed of order events, admin only
		orders.GET("/ws", middleware.RequireAdmin, orderControllers.OrderFeedHandler)
	}
}
