package repositories

import (
	"errors"
	"fmt"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetActiveByUser retrieves the user's active cart with its items.
// Absence is a normal condition for users who have not added anything.
func (r *GORMCartRepository) GetActiveByUser(userID string) (*models.Cart, error) {
	return r.getActiveByUser(r.db, userID)
}

// GetActiveByUserTx is GetActiveByUser inside an existing transaction.
func (r *GORMCartRepository) GetActiveByUserTx(tx *gorm.DB, userID string) (*models.Cart, error) {
	return r.getActiveByUser(tx, userID)
}

func (r *GORMCartRepository) getActiveByUser(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").
		First(&cart, "user_id = ? AND status = ?", userID, models.CartStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetByIDAndUserTx retrieves a cart by ID, scoped to its owner, inside
// an existing transaction.
func (r *GORMCartRepository) GetByIDAndUserTx(tx *gorm.DB, cartID, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items").
		First(&cart, "id = ? AND user_id = ?", cartID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart with ID %s for user %s: %w", cartID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", cartID, err)
	}
	return &cart, nil
}

// CreateTx inserts a new cart inside an existing transaction.
func (r *GORMCartRepository) CreateTx(tx *gorm.DB, cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := tx.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// SaveCartTx persists cart aggregate fields (totals, status).
func (r *GORMCartRepository) SaveCartTx(tx *gorm.DB, cart *models.Cart) error {
	err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).
		Updates(map[string]interface{}{
			"status":            cart.Status,
			"total_items":       cart.TotalItems,
			"total_price_cents": cart.TotalPriceCents,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

// GetItemTx retrieves the line item for a (cart, book) pair inside an
// existing transaction.
func (r *GORMCartRepository) GetItemTx(tx *gorm.DB, cartID, bookID string) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.First(&item, "cart_id = ? AND book_id = ?", cartID, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for book %s in cart %s: %w", bookID, cartID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item for book %s: %w", bookID, err)
	}
	return &item, nil
}

// GetItemsTx retrieves all line items of a cart inside an existing
// transaction.
func (r *GORMCartRepository) GetItemsTx(tx *gorm.DB, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := tx.Find(&items, "cart_id = ?", cartID).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for cart %s: %w", cartID, err)
	}
	return items, nil
}

// CreateItemTx inserts a new cart item inside an existing transaction.
func (r *GORMCartRepository) CreateItemTx(tx *gorm.DB, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := tx.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// SaveItemTx persists quantity and subtotal changes to a cart item.
func (r *GORMCartRepository) SaveItemTx(tx *gorm.DB, item *models.CartItem) error {
	err := tx.Model(&models.CartItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":       item.Quantity,
			"subtotal_cents": item.SubtotalCents,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save cart item %s: %w", item.ID, err)
	}
	return nil
}

// DeleteItemTx removes a single cart item inside an existing
// transaction.
func (r *GORMCartRepository) DeleteItemTx(tx *gorm.DB, itemID string) error {
	res := tx.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// DeleteItemsByCartTx removes every line item of a cart inside an
// existing transaction.
func (r *GORMCartRepository) DeleteItemsByCartTx(tx *gorm.DB, cartID string) error {
	if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear items for cart %s: %w", cartID, err)
	}
	return nil
}
