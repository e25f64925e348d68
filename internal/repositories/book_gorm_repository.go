package repositories

import (
	"errors"
	"fmt"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// GetAll retrieves a page of books with optional search and category
// filters, returning the page and the total match count.
func (r *GORMBookRepository) GetAll(params ListBooksParams) ([]models.Book, int64, error) {
	query := r.db.Model(&models.Book{})

	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var books []models.Book
	err := query.
		Order(fmt.Sprintf("%s %s", params.SortBy, params.Order)).
		Offset((params.Page - 1) * params.PerPage).
		Limit(params.PerPage).
		Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get books: %w", err)
	}
	return books, total, nil
}

// GetByID retrieves a single book by its ID.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	return r.getByID(r.db, id)
}

// GetByIDTx retrieves a single book inside an existing transaction.
func (r *GORMBookRepository) GetByIDTx(tx *gorm.DB, id string) (*models.Book, error) {
	return r.getByID(tx, id)
}

func (r *GORMBookRepository) getByID(db *gorm.DB, id string) (*models.Book, error) {
	var book models.Book
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// GetByISBN retrieves a single book by its ISBN.
func (r *GORMBookRepository) GetByISBN(isbn string) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, "isbn = ?", isbn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book with ISBN %s: %w", isbn, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ISBN %s: %w", isbn, err)
	}
	return &book, nil
}

// Create creates a new book.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update updates an existing book.
func (r *GORMBookRepository) Update(book *models.Book) error {
	res := r.db.Save(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", book.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a book by its ID.
func (r *GORMBookRepository) Delete(id string) error {
	res := r.db.Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountByCategory counts books referencing the given category. Used to
// refuse deleting a category that still has books.
func (r *GORMBookRepository) CountByCategory(categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Book{}).Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count books in category %s: %w", categoryID, err)
	}
	return count, nil
}

// DecrementStockTx atomically decrements a book's stock if and only if
// enough stock remains. Zero rows affected means the guard failed, so
// concurrent checkouts cannot oversell.
func (r *GORMBookRepository) DecrementStockTx(tx *gorm.DB, id string, quantity int) error {
	res := tx.Model(&models.Book{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for book %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

// RestoreStockTx adds quantity back to a book's stock, used when an
// order is cancelled.
func (r *GORMBookRepository) RestoreStockTx(tx *gorm.DB, id string, quantity int) error {
	res := tx.Model(&models.Book{}).
		Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to restore stock for book %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
