package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	CartID    uint            `gorm:"primaryKey" json:"cart_id"`
	UserID    uint            `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CartID      uint            `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID   uint            `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"` // unit price captured at add time
	AddedAt     time.Time       `json:"added_at"`
}

func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// RecalculateTotal must run after every item mutation; the cart is not
// consistent until it has.
func (c *Cart) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	c.Total = total
}
