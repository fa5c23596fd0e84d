package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	addressControllers "github.com/Hemachandram324/ecommerce-project/controllers/address"
	cartControllers "github.com/Hemachandram324/ecommerce-project/controllers/cart"
	userControllers "github.com/Hemachandram324/ecommerce-project/controllers/user"
	"github.com/Hemachandram324/ecommerce-project/middleware"
)

// SetupUserRoutes registers profile, cart and address endpoints. Requires JWT
// middleware; every endpoint operates on the authenticated caller only.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))
	}

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		cartGroup.GET("", cartControllers.GetUserCart(db))
		cartGroup.POST("/items", cartControllers.AddCartItem(db))
		cartGroup.PUT("/items/:itemID", cartControllers.UpdateCartItem(db))
		cartGroup.DELETE("/items/:itemID", cartControllers.DeleteCartItem(db))
		cartGroup.DELETE("", cartControllers.ClearUserCart(db))
	}

	addressGroup := r.Group("/addresses")
	addressGroup.Use(middleware.ValidateToken)
	{
		addressGroup.GET("", addressControllers.ListAddresses(db))
		addressGroup.POST("", addressControllers.CreateAddress(db))
		addressGroup.DELETE("/:id", addressControllers.DeleteAddress(db))
	}
}
