package repositories

import (
	"errors"
	"fmt"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.getByID(r.db, id)
}

// GetByIDTx retrieves a single order inside an existing transaction.
func (r *GORMOrderRepository) GetByIDTx(tx *gorm.DB, id string) (*models.Order, error) {
	return r.getByID(tx, id)
}

func (r *GORMOrderRepository) getByID(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser retrieves a user's orders, newest first, with an optional
// status filter.
func (r *GORMOrderRepository) ListByUser(userID string, status *models.OrderStatus) ([]models.Order, error) {
	query := r.db.Preload("Items").Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// ListByUserPaged retrieves a page of a user's orders plus the total
// count.
func (r *GORMOrderRepository) ListByUserPaged(userID string, params ListOrdersParams) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders for user %s: %w", userID, err)
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order(fmt.Sprintf("%s %s", params.SortBy, params.Order)).
		Offset((params.Page - 1) * params.PerPage).
		Limit(params.PerPage).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, total, nil
}

// ListAll retrieves a page of every order in the store, for admins.
func (r *GORMOrderRepository) ListAll(params ListOrdersParams) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := r.db.Preload("Items").
		Order(fmt.Sprintf("%s %s", params.SortBy, params.Order)).
		Offset((params.Page - 1) * params.PerPage).
		Limit(params.PerPage).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// CreateTx inserts an order and its items inside an existing
// transaction, assigning IDs where missing.
func (r *GORMOrderRepository) CreateTx(tx *gorm.DB, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := tx.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// SaveTx persists status and payment fields of an order inside an
// existing transaction. Item rows are frozen at creation and never
// touched here.
func (r *GORMOrderRepository) SaveTx(tx *gorm.DB, order *models.Order) error {
	err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":                 order.Status,
			"payment_transaction_id": order.PaymentTransactionID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}
	return nil
}

// AppendStatusLogTx appends an audit row for an admin status change.
// The log is append-only; there is no update or delete counterpart.
func (r *GORMOrderRepository) AppendStatusLogTx(tx *gorm.DB, entry *models.OrderStatusChangeLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append order status change log: %w", err)
	}
	return nil
}
