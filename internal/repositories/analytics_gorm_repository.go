package repositories

import (
	"fmt"

	"gorm.io/gorm"
)

// GORMAnalyticsRepository is a GORM implementation of
// AnalyticsRepository. All monetary aggregates are integer cents.
type GORMAnalyticsRepository struct {
	db *gorm.DB
}

// NewGORMAnalyticsRepository creates a new instance of
// GORMAnalyticsRepository.
func NewGORMAnalyticsRepository(db *gorm.DB) *GORMAnalyticsRepository {
	return &GORMAnalyticsRepository{
		db: db,
	}
}

func applyOrderFilter(query *gorm.DB, f AnalyticsFilter) *gorm.DB {
	if f.Start != nil {
		query = query.Where("orders.created_at >= ?", *f.Start)
	}
	if f.End != nil {
		query = query.Where("orders.created_at <= ?", *f.End)
	}
	if f.Status != nil {
		query = query.Where("orders.status = ?", *f.Status)
	}
	return query
}

// OrderTotals returns the order count and summed revenue for the
// filtered set.
func (r *GORMAnalyticsRepository) OrderTotals(f AnalyticsFilter) (int64, int64, error) {
	var row struct {
		OrderCount   int64
		RevenueCents int64
	}
	err := applyOrderFilter(r.db.Table("orders"), f).
		Select("COUNT(orders.id) AS order_count, COALESCE(SUM(orders.total_amount_cents), 0) AS revenue_cents").
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute order totals: %w", err)
	}
	return row.OrderCount, row.RevenueCents, nil
}

// StatusBreakdown groups filtered orders by status.
func (r *GORMAnalyticsRepository) StatusBreakdown(f AnalyticsFilter) ([]StatusBreakdownRow, error) {
	var rows []StatusBreakdownRow
	err := applyOrderFilter(r.db.Table("orders"), f).
		Select("orders.status AS status, COUNT(orders.id) AS order_count, COALESCE(SUM(orders.total_amount_cents), 0) AS total_amount_cents").
		Group("orders.status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute status breakdown: %w", err)
	}
	return rows, nil
}

// PaymentMethodBreakdown groups filtered orders by payment method.
func (r *GORMAnalyticsRepository) PaymentMethodBreakdown(f AnalyticsFilter) ([]PaymentBreakdownRow, error) {
	var rows []PaymentBreakdownRow
	err := applyOrderFilter(r.db.Table("orders"), f).
		Select("orders.payment_method AS payment_method, COUNT(orders.id) AS order_count, COALESCE(SUM(orders.total_amount_cents), 0) AS total_amount_cents").
		Group("orders.payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute payment method breakdown: %w", err)
	}
	return rows, nil
}

// TopSellingBooks returns the best sellers by total quantity across
// the filtered orders.
func (r *GORMAnalyticsRepository) TopSellingBooks(f AnalyticsFilter, limit int) ([]BookSalesRow, error) {
	var rows []BookSalesRow
	err := applyOrderFilter(r.db.Table("order_items"), f).
		Select("books.id AS book_id, books.title AS title, book_categories.name AS category_name, books.price_cents AS price_cents, "+
			"COALESCE(SUM(order_items.quantity), 0) AS total_quantity, COALESCE(SUM(order_items.price_cents), 0) AS total_revenue_cents").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN books ON books.id = order_items.book_id").
		Joins("LEFT JOIN book_categories ON book_categories.id = books.category_id").
		Group("books.id, books.title, book_categories.name, books.price_cents").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top selling books: %w", err)
	}
	return rows, nil
}

// UnderperformingBooks returns the worst sellers by total quantity.
// Books with no sales at all appear with zero quantity, which is why
// the joins start from books and the order filter moves into the join
// condition instead of the WHERE clause.
func (r *GORMAnalyticsRepository) UnderperformingBooks(f AnalyticsFilter, limit int) ([]BookSalesRow, error) {
	orderJoin := "LEFT JOIN orders ON orders.id = order_items.order_id"
	args := make([]interface{}, 0, 3)
	if f.Start != nil {
		orderJoin += " AND orders.created_at >= ?"
		args = append(args, *f.Start)
	}
	if f.End != nil {
		orderJoin += " AND orders.created_at <= ?"
		args = append(args, *f.End)
	}
	if f.Status != nil {
		orderJoin += " AND orders.status = ?"
		args = append(args, *f.Status)
	}

	var rows []BookSalesRow
	err := r.db.Table("books").
		Select("books.id AS book_id, books.title AS title, book_categories.name AS category_name, books.price_cents AS price_cents, "+
			"COALESCE(SUM(CASE WHEN orders.id IS NOT NULL THEN order_items.quantity END), 0) AS total_quantity, "+
			"COALESCE(SUM(CASE WHEN orders.id IS NOT NULL THEN order_items.price_cents END), 0) AS total_revenue_cents").
		Joins("LEFT JOIN order_items ON order_items.book_id = books.id").
		Joins(orderJoin, args...).
		Joins("LEFT JOIN book_categories ON book_categories.id = books.category_id").
		Group("books.id, books.title, book_categories.name, books.price_cents").
		Order("total_quantity ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute underperforming books: %w", err)
	}
	return rows, nil
}
