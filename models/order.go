package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // cart-to-order flow, payment deferred
	OrderStatusPaid      OrderStatus = "PAID"      // payment verified at finalization
	OrderStatusShipped   OrderStatus = "SHIPPED"   // out for delivery
	OrderStatusDelivered OrderStatus = "DELIVERED" // customer received the items
	OrderStatusCancelled OrderStatus = "CANCELLED" // only reachable before shipping
)

type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	PaymentRef        string          `gorm:"uniqueIndex" json:"payment_ref"`
	Status            OrderStatus     `gorm:"type:VARCHAR(20)" json:"status"`
	Total             decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	UserID            uint            `gorm:"index;not null" json:"user_id"`
	ShippingAddressID uint            `json:"shipping_address_id"`
	Shipping          ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
}

// orderTransitions holds the allowed forward edges of the status machine.
// PENDING→PAID→SHIPPED→DELIVERED is linear; CANCELLED is terminal and only
// reachable before shipping.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToUpper(status) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusPaid):
		return OrderStatusPaid, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", apperrors.InvalidStatef("unknown order status %q", status)
	}
}
