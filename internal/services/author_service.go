package services

import (
	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// AuthorService handles business logic related to authors.
type AuthorService struct {
	authorRepo repositories.AuthorRepository
}

// NewAuthorService creates a new AuthorService.
func NewAuthorService(authorRepo repositories.AuthorRepository) *AuthorService {
	return &AuthorService{
		authorRepo: authorRepo,
	}
}

// GetAllAuthors retrieves every author.
func (s *AuthorService) GetAllAuthors() ([]models.Author, error) {
	return s.authorRepo.GetAll()
}

// GetAuthorByID retrieves a single author.
func (s *AuthorService) GetAuthorByID(id string) (*models.Author, error) {
	return s.authorRepo.GetByID(id)
}

// CreateAuthor adds an author.
func (s *AuthorService) CreateAuthor(author *models.Author) error {
	return s.authorRepo.Create(author)
}

// UpdateAuthor applies changes to an existing author.
func (s *AuthorService) UpdateAuthor(id string, updated *models.Author) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	author.Name = updated.Name
	author.Biography = updated.Biography
	if err := s.authorRepo.Update(author); err != nil {
		return nil, err
	}
	return author, nil
}

// DeleteAuthor removes an author. Books keep their author_id; the
// catalog treats a dangling author reference as "author unknown".
func (s *AuthorService) DeleteAuthor(id string) error {
	return s.authorRepo.Delete(id)
}
