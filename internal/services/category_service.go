package services

import (
	"errors"
	"fmt"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// CategoryService handles business logic related to book categories.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	bookRepo     repositories.BookRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, bookRepo repositories.BookRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		bookRepo:     bookRepo,
	}
}

// GetAllCategories retrieves every category, ordered by name.
func (s *CategoryService) GetAllCategories() ([]models.BookCategory, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID retrieves a single category.
func (s *CategoryService) GetCategoryByID(id string) (*models.BookCategory, error) {
	return s.categoryRepo.GetByID(id)
}

// CreateCategory adds a category, rejecting duplicate names.
func (s *CategoryService) CreateCategory(category *models.BookCategory) error {
	if _, err := s.categoryRepo.GetByName(category.Name); err == nil {
		return fmt.Errorf("category %q already exists: %w", category.Name, repositories.ErrDuplicate)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory renames or redescribes a category. A changed name must
// stay unique.
func (s *CategoryService) UpdateCategory(id string, updated *models.BookCategory) (*models.BookCategory, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if updated.Name != category.Name {
		if other, err := s.categoryRepo.GetByName(updated.Name); err == nil && other.ID != id {
			return nil, fmt.Errorf("category %q already exists: %w", updated.Name, repositories.ErrDuplicate)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	category.Name = updated.Name
	category.Description = updated.Description
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Categories still referenced by
// books cannot be deleted.
func (s *CategoryService) DeleteCategory(id string) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}
	count, err := s.bookRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%d books still reference it: %w", count, ErrCategoryInUse)
	}
	return s.categoryRepo.Delete(id)
}
