package repositories

import (
	"time"

	"bookstore/internal/models"
)

// AnalyticsFilter narrows analytics queries by creation date range and
// order status. Nil fields mean "no constraint".
type AnalyticsFilter struct {
	Start  *time.Time
	End    *time.Time
	Status *models.OrderStatus
}

// StatusBreakdownRow is one row of the per-status rollup.
type StatusBreakdownRow struct {
	Status           models.OrderStatus `json:"status"`
	OrderCount       int64              `json:"order_count"`
	TotalAmountCents int64              `json:"total_amount_cents"`
}

// PaymentBreakdownRow is one row of the per-payment-method rollup.
type PaymentBreakdownRow struct {
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
	OrderCount       int64                `json:"order_count"`
	TotalAmountCents int64                `json:"total_amount_cents"`
}

// BookSalesRow is one row of the best/worst seller rollups. Quantities
// and revenue are zero for books that never sold.
type BookSalesRow struct {
	BookID            string `json:"book_id"`
	Title             string `json:"title"`
	CategoryName      string `json:"category"`
	PriceCents        int64  `json:"price_cents"`
	TotalQuantity     int64  `json:"total_quantity"`
	TotalRevenueCents int64  `json:"total_revenue_cents"`
}

// AnalyticsRepository defines the read-only aggregate queries over the
// order store.
type AnalyticsRepository interface {
	OrderTotals(f AnalyticsFilter) (count int64, revenueCents int64, err error)
	StatusBreakdown(f AnalyticsFilter) ([]StatusBreakdownRow, error)
	PaymentMethodBreakdown(f AnalyticsFilter) ([]PaymentBreakdownRow, error)
	TopSellingBooks(f AnalyticsFilter, limit int) ([]BookSalesRow, error)
	UnderperformingBooks(f AnalyticsFilter, limit int) ([]BookSalesRow, error)
}
