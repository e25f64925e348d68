package services

import (
	"errors"
	"fmt"

	"bookstore/internal/models"
	"bookstore/internal/repositories"

	"gorm.io/gorm"
)

// CartService handles business logic for the shopping cart. Every
// mutation runs inside a single transaction so the stock check, the
// line item write and the totals update commit together.
type CartService struct {
	cartRepo repositories.CartRepository
	bookRepo repositories.BookRepository
	txm      repositories.TxManager
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, bookRepo repositories.BookRepository, txm repositories.TxManager) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		txm:      txm,
	}
}

// GetActiveCart returns the user's active cart. A wrapped
// repositories.ErrNotFound means the user simply has no cart yet.
func (s *CartService) GetActiveCart(userID string) (*models.Cart, error) {
	return s.cartRepo.GetActiveByUser(userID)
}

// AddItem adds quantity copies of a book to the user's active cart,
// creating the cart lazily. Stock is checked against the cumulative
// quantity in the cart, not just the increment, so repeated adds of the
// same book cannot exceed what is on the shelf. An existing line keeps
// its original price snapshot.
func (s *CartService) AddItem(userID, bookID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result *models.Cart
	err := s.txm.Do(func(tx *gorm.DB) error {
		book, err := s.bookRepo.GetByIDTx(tx, bookID)
		if err != nil {
			return err
		}

		cart, err := s.cartRepo.GetActiveByUserTx(tx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			cart = &models.Cart{UserID: userID, Status: models.CartStatusActive}
			if err := s.cartRepo.CreateTx(tx, cart); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		item, err := s.cartRepo.GetItemTx(tx, cart.ID, bookID)
		switch {
		case err == nil:
			if book.StockQuantity < item.Quantity+quantity {
				return fmt.Errorf("book %q has only %d in stock: %w",
					book.Title, book.StockQuantity, repositories.ErrInsufficientStock)
			}
			item.Quantity += quantity
			item.RecalculateSubtotal()
			if err := s.cartRepo.SaveItemTx(tx, item); err != nil {
				return err
			}
		case errors.Is(err, repositories.ErrNotFound):
			if book.StockQuantity < quantity {
				return fmt.Errorf("book %q has only %d in stock: %w",
					book.Title, book.StockQuantity, repositories.ErrInsufficientStock)
			}
			item = &models.CartItem{
				CartID:               cart.ID,
				BookID:               bookID,
				Quantity:             quantity,
				PriceAtAdditionCents: book.PriceCents,
			}
			item.RecalculateSubtotal()
			if err := s.cartRepo.CreateItemTx(tx, item); err != nil {
				return err
			}
		default:
			return err
		}

		return s.refreshTotals(tx, cart, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItem sets the absolute quantity of a line item. Quantity zero
// deletes the line; the stock check is against the new quantity, not
// the difference. An empty cart keeps its row with zero totals.
func (s *CartService) UpdateItem(userID, bookID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var result *models.Cart
	err := s.txm.Do(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetActiveByUserTx(tx, userID)
		if err != nil {
			return err
		}

		item, err := s.cartRepo.GetItemTx(tx, cart.ID, bookID)
		if err != nil {
			return err
		}

		if quantity == 0 {
			if err := s.cartRepo.DeleteItemTx(tx, item.ID); err != nil {
				return err
			}
		} else {
			book, err := s.bookRepo.GetByIDTx(tx, bookID)
			if err != nil {
				return err
			}
			if book.StockQuantity < quantity {
				return fmt.Errorf("book %q has only %d in stock: %w",
					book.Title, book.StockQuantity, repositories.ErrInsufficientStock)
			}
			item.Quantity = quantity
			item.RecalculateSubtotal()
			if err := s.cartRepo.SaveItemTx(tx, item); err != nil {
				return err
			}
		}

		return s.refreshTotals(tx, cart, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem decrements a line item's quantity by exactly one, deleting
// the line when it reaches zero. The returned flag reports whether the
// item was removed completely, for user-facing messaging.
func (s *CartService) RemoveItem(userID, bookID string) (*models.Cart, bool, error) {
	var (
		result            *models.Cart
		removedCompletely bool
	)
	err := s.txm.Do(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetActiveByUserTx(tx, userID)
		if err != nil {
			return err
		}

		item, err := s.cartRepo.GetItemTx(tx, cart.ID, bookID)
		if err != nil {
			return err
		}

		if item.Quantity <= 1 {
			if err := s.cartRepo.DeleteItemTx(tx, item.ID); err != nil {
				return err
			}
			removedCompletely = true
		} else {
			item.Quantity--
			item.RecalculateSubtotal()
			if err := s.cartRepo.SaveItemTx(tx, item); err != nil {
				return err
			}
		}

		return s.refreshTotals(tx, cart, &result)
	})
	if err != nil {
		return nil, false, err
	}
	return result, removedCompletely, nil
}

// ClearCart deletes every line item and resets the totals. The cart
// row itself stays active.
func (s *CartService) ClearCart(userID string) (*models.Cart, error) {
	var result *models.Cart
	err := s.txm.Do(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetActiveByUserTx(tx, userID)
		if err != nil {
			return err
		}
		if err := s.cartRepo.DeleteItemsByCartTx(tx, cart.ID); err != nil {
			return err
		}
		return s.refreshTotals(tx, cart, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// refreshTotals reloads the cart's items, rederives the aggregates and
// persists them. The invariant is that total_items and total_price
// always equal the sums over the current line items.
func (s *CartService) refreshTotals(tx *gorm.DB, cart *models.Cart, out **models.Cart) error {
	items, err := s.cartRepo.GetItemsTx(tx, cart.ID)
	if err != nil {
		return err
	}
	cart.Items = items
	cart.RecalculateTotals()
	if err := s.cartRepo.SaveCartTx(tx, cart); err != nil {
		return err
	}
	*out = cart
	return nil
}
