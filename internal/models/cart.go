package models

import "time"

// CartStatus tracks the lifecycle of a cart. Only one active cart may
// exist per user at a time.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusCancelled CartStatus = "cancelled"
)

// Cart holds a user's line items before checkout. TotalItems is the
// count of distinct line items and TotalPriceCents the sum of their
// subtotals; both are recomputed after every mutation.
type Cart struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Status          CartStatus `json:"status" gorm:"type:varchar(20);default:active"`
	TotalItems      int        `json:"total_items" gorm:"not null;default:0"`
	TotalPriceCents int64      `json:"total_price_cents" gorm:"not null;default:0"`
	Items           []CartItem `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CartItem is a single (book, quantity) line within a cart. The unit
// price is snapshotted at add time and never re-read from the catalog.
type CartItem struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID               string    `json:"cart_id" gorm:"type:varchar(36);index;not null"`
	BookID               string    `json:"book_id" gorm:"type:varchar(36);index;not null"`
	Quantity             int       `json:"quantity" gorm:"not null"`
	PriceAtAdditionCents int64     `json:"price_at_addition_cents" gorm:"not null"`
	SubtotalCents        int64     `json:"subtotal_cents" gorm:"not null"`
	CreatedAt            time.Time `json:"created_at"`
}

// RecalculateSubtotal keeps SubtotalCents consistent with the quantity
// and the snapshotted unit price.
func (i *CartItem) RecalculateSubtotal() {
	i.SubtotalCents = int64(i.Quantity) * i.PriceAtAdditionCents
}

// RecalculateTotals derives the cart aggregates from the current items.
func (c *Cart) RecalculateTotals() {
	c.TotalItems = len(c.Items)
	var total int64
	for _, item := range c.Items {
		total += item.SubtotalCents
	}
	c.TotalPriceCents = total
}
