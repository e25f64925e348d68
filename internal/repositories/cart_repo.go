package repositories

import (
	"bookstore/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart and cart item data
// access. Mutations run inside a caller-supplied transaction so the
// stock check, the item write and the totals update commit together.
type CartRepository interface {
	GetActiveByUser(userID string) (*models.Cart, error)

	GetActiveByUserTx(tx *gorm.DB, userID string) (*models.Cart, error)
	GetByIDAndUserTx(tx *gorm.DB, cartID, userID string) (*models.Cart, error)
	CreateTx(tx *gorm.DB, cart *models.Cart) error
	SaveCartTx(tx *gorm.DB, cart *models.Cart) error

	GetItemTx(tx *gorm.DB, cartID, bookID string) (*models.CartItem, error)
	GetItemsTx(tx *gorm.DB, cartID string) ([]models.CartItem, error)
	CreateItemTx(tx *gorm.DB, item *models.CartItem) error
	SaveItemTx(tx *gorm.DB, item *models.CartItem) error
	DeleteItemTx(tx *gorm.DB, itemID string) error
	DeleteItemsByCartTx(tx *gorm.DB, cartID string) error
}
