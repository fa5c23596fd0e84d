package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/Hemachandram324/ecommerce-project/controllers/payment"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gw *paymentControllers.Client) {
	// Public catalog routes (no middleware)
	SetupCatalogRoutes(r, db)

	// User routes (JWT-protected): profile, cart, addresses, orders
	SetupUserRoutes(r, db)
	SetupOrderRoutes(r, db)

	// Payment intent + checkout
	SetupPaymentRoutes(r, db, gw)

	// Admin routes (JWT + role)
	SetupAdminRoutes(r, db)
}
