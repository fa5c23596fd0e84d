package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Hemachandram324/ecommerce-project/controllers/order"
	productControllers "github.com/Hemachandram324/ecommerce-project/controllers/product"
	userControllers "github.com/Hemachandram324/ecommerce-project/controllers/user"
	"github.com/Hemachandram324/ecommerce-project/middleware"
)

// SetupAdminRoutes registers the admin surface. JWT-protected and gated on
// the ADMIN role claim.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		admin.GET("/users", userControllers.GetAllUsers(db))

		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))
		admin.GET("/orders/user/:userID", orderControllers.GetOrdersByUserHandler(db))

		admin.POST("/products", productControllers.CreateProduct(db))
		admin.DELETE("/products/:id", productControllers.DeleteProduct(db))
		admin.PUT("/products/:id/price", productControllers.UpdateProductPrice(db))
		admin.PUT("/products/:id/name", productControllers.UpdateProductName(db))
		admin.PUT("/products/:id/brand", productControllers.UpdateProductBrand(db))
		admin.PUT("/products/:id/description", productControllers.UpdateProductDescription(db))

		admin.POST("/categories", productControllers.CreateCategory(db))
	}
}
