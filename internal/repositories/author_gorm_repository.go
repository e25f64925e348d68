package repositories

import (
	"errors"
	"fmt"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAuthorRepository is a GORM implementation of AuthorRepository.
type GORMAuthorRepository struct {
	db *gorm.DB
}

// NewGORMAuthorRepository creates a new instance of GORMAuthorRepository.
func NewGORMAuthorRepository(db *gorm.DB) *GORMAuthorRepository {
	return &GORMAuthorRepository{
		db: db,
	}
}

// GetAll retrieves all authors ordered by name.
func (r *GORMAuthorRepository) GetAll() ([]models.Author, error) {
	var authors []models.Author
	if err := r.db.Order("name").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to get all authors: %w", err)
	}
	return authors, nil
}

// GetByID retrieves a single author by their ID.
func (r *GORMAuthorRepository) GetByID(id string) (*models.Author, error) {
	var author models.Author
	if err := r.db.First(&author, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("author with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get author by ID %s: %w", id, err)
	}
	return &author, nil
}

// Create creates a new author.
func (r *GORMAuthorRepository) Create(author *models.Author) error {
	if author.ID == "" {
		author.ID = uuid.New().String()
	}
	if err := r.db.Create(author).Error; err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// Update updates an existing author.
func (r *GORMAuthorRepository) Update(author *models.Author) error {
	res := r.db.Save(author)
	if res.Error != nil {
		return fmt.Errorf("failed to update author: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("author with ID %s: %w", author.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes an author by their ID.
func (r *GORMAuthorRepository) Delete(id string) error {
	res := r.db.Delete(&models.Author{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete author: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("author with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
