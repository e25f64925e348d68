package repositories

import "bookstore/internal/models"

// AuthorRepository defines the interface for author data access.
type AuthorRepository interface {
	GetAll() ([]models.Author, error)
	GetByID(id string) (*models.Author, error)
	Create(author *models.Author) error
	Update(author *models.Author) error
	Delete(id string) error
}
