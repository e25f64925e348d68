package models

import "time"

// OrderStatus is the state of an order within its lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPaid,
		OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// orderTransitions is the enforced transition table:
// PENDING -> PROCESSING | PAID | CANCELLED
// PROCESSING -> PAID | SHIPPED | CANCELLED
// PAID -> SHIPPED
// SHIPPED -> COMPLETED
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusPaid, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod identifies how an order is paid for.
type PaymentMethod string

const (
	PaymentMethodMTNMobileMoney  PaymentMethod = "mtn_mobile_money"
	PaymentMethodAirtelMoney     PaymentMethod = "airtel_money"
	PaymentMethodStripe          PaymentMethod = "stripe"
	PaymentMethodOrderOnDelivery PaymentMethod = "order_on_delivery"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodMTNMobileMoney, PaymentMethodAirtelMoney,
		PaymentMethodStripe, PaymentMethodOrderOnDelivery:
		return true
	}
	return false
}

// Address is a billing or shipping address snapshot. It is copied into
// the order at creation and stays independent of later profile edits.
type Address struct {
	Name       string `json:"name" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Street     string `json:"street" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
}

// Order is an immutable snapshot of a checked-out cart. Only the status
// and timestamps change after creation.
type Order struct {
	ID                   string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID               string        `json:"user_id" gorm:"type:varchar(36);index;not null"`
	TotalAmountCents     int64         `json:"total_amount_cents" gorm:"not null"`
	Status               OrderStatus   `json:"status" gorm:"type:varchar(20);default:pending;index"`
	PaymentMethod        PaymentMethod `json:"payment_method" gorm:"type:varchar(30)"`
	PaymentTransactionID string        `json:"payment_transaction_id,omitempty" gorm:"type:varchar(255)"`

	Billing  Address `json:"billing" gorm:"embedded;embeddedPrefix:billing_"`
	Shipping Address `json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`

	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a frozen line of an order. UnitPriceCents is the book
// price at order creation; PriceCents is unit price times quantity.
type OrderItem struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string `json:"order_id" gorm:"type:varchar(36);index;not null"`
	BookID         string `json:"book_id" gorm:"type:varchar(36);index;not null"`
	Quantity       int    `json:"quantity" gorm:"not null"`
	UnitPriceCents int64  `json:"unit_price_cents" gorm:"not null"`
	PriceCents     int64  `json:"price_cents" gorm:"not null"`
}

// OrderStatusChangeLog is an append-only audit record of admin-driven
// status changes. Rows are never updated or deleted.
type OrderStatusChangeLog struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string      `json:"order_id" gorm:"type:varchar(36);index;not null"`
	AdminID        string      `json:"admin_id" gorm:"type:varchar(36);index;not null"`
	PreviousStatus OrderStatus `json:"previous_status" gorm:"type:varchar(20);not null"`
	NewStatus      OrderStatus `json:"new_status" gorm:"type:varchar(20);not null"`
	Reason         string      `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt      time.Time   `json:"created_at" gorm:"index"`
}
