package repositories

import (
	"bookstore/internal/models"

	"gorm.io/gorm"
)

// ListOrdersParams controls pagination and sorting of order listings.
type ListOrdersParams struct {
	Page    int
	PerPage int
	SortBy  string
	Order   string
}

// OrderRepository defines the interface for order data access. Order
// creation and status changes run inside caller-supplied transactions
// alongside the stock bookkeeping they belong with.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string, status *models.OrderStatus) ([]models.Order, error)
	ListByUserPaged(userID string, params ListOrdersParams) ([]models.Order, int64, error)
	ListAll(params ListOrdersParams) ([]models.Order, int64, error)

	CreateTx(tx *gorm.DB, order *models.Order) error
	GetByIDTx(tx *gorm.DB, id string) (*models.Order, error)
	SaveTx(tx *gorm.DB, order *models.Order) error
	AppendStatusLogTx(tx *gorm.DB, entry *models.OrderStatusChangeLog) error
}
