package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
	cartControllers "github.com/Hemachandram324/ecommerce-project/controllers/cart"
	"github.com/Hemachandram324/ecommerce-project/middleware"
	"github.com/Hemachandram324/ecommerce-project/models"
)

// CheckoutItem is one requested line of a checkout. Prices never come from
// the client; they are resolved from the product table at finalization.
type CheckoutItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// -------- Request Structs --------

type PlaceOrderRequest struct {
	ShippingAddressID uint `json:"shipping_address_id" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// generateOrderRef produces the payment reference for orders placed without
// an upfront payment. Example: 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// FinalizePaidOrder turns a verified payment plus an item list into exactly
// one persisted order. The whole sequence runs in a single transaction:
// the paymentRef lookup, the pricing, the order insert and the cart clearing
// either all land or none do. Calling it again with the same paymentRef
// returns the already-created order's id, which is what makes client retries
// after a network timeout safe. The unique index on orders.payment_ref backs
// the check under concurrency.
func FinalizePaidOrder(db *gorm.DB, userID uint, ship models.Address, paymentRef string, items []CheckoutItem, fromCart bool) (uint, error) {
	var (
		orderID uint
		created *models.Order
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		err := tx.Where("payment_ref = ?", paymentRef).First(&existing).Error
		if err == nil {
			log.Printf("order %d already finalized for payment %s", existing.ID, paymentRef)
			orderID = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("user %d", userID)
			}
			return err
		}

		// First use of this address: persist it to the address book. Either
		// way the order gets its own frozen copy below.
		if ship.ID == 0 {
			ship.UserID = userID
			if err := tx.Create(&ship).Error; err != nil {
				return err
			}
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			if item.Quantity <= 0 {
				return apperrors.InvalidStatef("quantity must be positive for product %d", item.ProductID)
			}
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("product %d", item.ProductID)
				}
				return err
			}
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
		}

		order := models.Order{
			CreatedAt:         time.Now(),
			PaymentRef:        paymentRef,
			Status:            models.OrderStatusPaid,
			Total:             total,
			UserID:            userID,
			ShippingAddressID: ship.ID,
			Shipping:          ship.Snapshot(),
			Items:             orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if fromCart {
			cart, err := cartControllers.GetCanonicalCart(tx, userID)
			if err != nil {
				return err
			}
			if err := tx.Where("cart_id = ?", cart.CartID).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Model(cart).Update("total", decimal.Zero).Error; err != nil {
				return err
			}
		}

		orderID = order.ID
		created = &order
		return nil
	})
	if err != nil {
		// Lost a concurrent finalization race on the payment_ref index: the
		// other caller's order is the one to return.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Order
			if lookupErr := db.Where("payment_ref = ?", paymentRef).
				First(&existing).Error; lookupErr == nil {
				log.Printf("concurrent finalization for payment %s, returning order %d", paymentRef, existing.ID)
				return existing.ID, nil
			}
		}
		return 0, err
	}

	if created != nil {
		log.Printf("order finalized: orderID=%d paymentRef=%s total=%s", created.ID, paymentRef, created.Total)
		broadcastOrderEvent("order.created", *created)
	}
	return orderID, nil
}

// PlaceOrderFromCart consumes the user's canonical cart into a PENDING order
// for deferred-payment flows. Line prices are the ones captured when the
// items were added, not re-read from the catalog.
func PlaceOrderFromCart(db *gorm.DB, userID, shippingAddressID uint) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var ship models.Address
		if err := tx.First(&ship, shippingAddressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("address %d", shippingAddressID)
			}
			return err
		}
		if ship.UserID != userID {
			return apperrors.Forbiddenf("address %d does not belong to user %d", shippingAddressID, userID)
		}

		cart, err := cartControllers.GetCanonicalCart(tx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperrors.InvalidStatef("cart is empty")
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			total = total.Add(ci.Subtotal())
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   ci.ProductID,
				ProductName: ci.ProductName,
				Quantity:    ci.Quantity,
				UnitPrice:   ci.Price,
			})
		}

		order = models.Order{
			CreatedAt:         time.Now(),
			PaymentRef:        generateOrderRef(),
			Status:            models.OrderStatusPending,
			Total:             total,
			UserID:            userID,
			ShippingAddressID: ship.ID,
			Shipping:          ship.Snapshot(),
			Items:             orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.CartID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(cart).Update("total", decimal.Zero).Error
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent("order.created", order)
	return &order, nil
}

// GetOrderForUser loads one order with its items and address snapshot.
// Only the owner may read it; admins use the dedicated listings instead.
func GetOrderForUser(db *gorm.DB, orderID, requesterID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("order %d", orderID)
		}
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, apperrors.Forbiddenf("order %d belongs to another user", orderID)
	}
	return &order, nil
}

func ListUserOrders(db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func ListAllOrders(db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus moves an order through the status machine. It is the only
// write an order accepts after creation.
func UpdateStatus(db *gorm.DB, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("order %d", orderID)
			}
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return apperrors.InvalidStatef("cannot transition order %d from %s to %s", orderID, order.Status, next)
		}
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next
		return tx.Where("order_id = ?", orderID).Find(&order.Items).Error
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent("order.status", order)
	return &order, nil
}

// DeleteOrder removes an order and its items. Owner or admin only; plain
// removal, nothing else is touched.
func DeleteOrder(db *gorm.DB, orderID uint, requester models.User) error {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("order %d", orderID)
		}
		return err
	}
	if order.UserID != requester.ID && !requester.IsAdmin() {
		return apperrors.Forbiddenf("order %d belongs to another user", orderID)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, orderID).Error
	})
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id), err
}

// -------- Handlers --------

// POST /orders/place
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := PlaceOrderFromCart(db, userID, req.ShippingAddressID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := parseUintParam(c, "orderID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		order, err := GetOrderForUser(db, orderID, userID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders/user
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orders, err := ListUserOrders(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ListAllOrders(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/user/:userID
func GetOrdersByUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := parseUintParam(c, "userID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		orders, err := ListUserOrders(db, targetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// POST /orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseUintParam(c, "orderID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		order, err := UpdateStatus(db, orderID, next)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := parseUintParam(c, "orderID")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		var requester models.User
		if err := db.First(&requester, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		if err := DeleteOrder(db, orderID, requester); err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
