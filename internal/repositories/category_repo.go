package repositories

import "bookstore/internal/models"

// CategoryRepository defines the interface for book category data access.
type CategoryRepository interface {
	GetAll() ([]models.BookCategory, error)
	GetByID(id string) (*models.BookCategory, error)
	GetByName(name string) (*models.BookCategory, error)
	Create(category *models.BookCategory) error
	Update(category *models.BookCategory) error
	Delete(id string) error
}
