package repositories

import (
	"bookstore/internal/models"

	"gorm.io/gorm"
)

// ListBooksParams controls pagination, sorting and filtering of the
// catalog listing.
type ListBooksParams struct {
	Page       int
	PerPage    int
	SortBy     string
	Order      string
	Search     string
	CategoryID string
}

// BookRepository defines the interface for book data access. The Tx
// variants operate inside a caller-supplied transaction so cart and
// order flows can keep stock checks atomic.
type BookRepository interface {
	GetAll(params ListBooksParams) ([]models.Book, int64, error)
	GetByID(id string) (*models.Book, error)
	GetByISBN(isbn string) (*models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	Delete(id string) error
	CountByCategory(categoryID string) (int64, error)

	GetByIDTx(tx *gorm.DB, id string) (*models.Book, error)
	DecrementStockTx(tx *gorm.DB, id string, quantity int) error
	RestoreStockTx(tx *gorm.DB, id string, quantity int) error
}
