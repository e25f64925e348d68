package repositories

import (
	"errors"
	"fmt"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// GetAll retrieves all categories ordered by name.
func (r *GORMCategoryRepository) GetAll() ([]models.BookCategory, error) {
	var categories []models.BookCategory
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all book categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category by its ID.
func (r *GORMCategoryRepository) GetByID(id string) (*models.BookCategory, error) {
	var category models.BookCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book category with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book category by ID %s: %w", id, err)
	}
	return &category, nil
}

// GetByName retrieves a single category by its unique name.
func (r *GORMCategoryRepository) GetByName(name string) (*models.BookCategory, error) {
	var category models.BookCategory
	if err := r.db.First(&category, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book category %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book category %q: %w", name, err)
	}
	return &category, nil
}

// Create creates a new category.
func (r *GORMCategoryRepository) Create(category *models.BookCategory) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create book category: %w", err)
	}
	return nil
}

// Update updates an existing category.
func (r *GORMCategoryRepository) Update(category *models.BookCategory) error {
	res := r.db.Save(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update book category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book category with ID %s: %w", category.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a category by its ID.
func (r *GORMCategoryRepository) Delete(id string) error {
	res := r.db.Delete(&models.BookCategory{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete book category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book category with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
