package services

import (
	"errors"
	"fmt"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// BookService handles business logic related to the book catalog.
type BookService struct {
	bookRepo     repositories.BookRepository
	categoryRepo repositories.CategoryRepository
	authorRepo   repositories.AuthorRepository
}

// NewBookService creates a new BookService.
func NewBookService(bookRepo repositories.BookRepository, categoryRepo repositories.CategoryRepository,
	authorRepo repositories.AuthorRepository) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
		authorRepo:   authorRepo,
	}
}

var validBookSortFields = map[string]string{
	"title":      "title",
	"price":      "price_cents",
	"created_at": "created_at",
}

// GetAllBooks retrieves a page of the catalog with optional search and
// category filtering. Search matches title and description.
func (s *BookService) GetAllBooks(page, perPage int, sortBy, order, search, categoryID string) ([]models.Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := validBookSortFields[sortBy]
	if !ok {
		return nil, 0, fmt.Errorf("invalid sort_by %q, must be one of: title, price, created_at", sortBy)
	}
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		return nil, 0, fmt.Errorf("invalid order %q, must be 'asc' or 'desc'", order)
	}

	return s.bookRepo.GetAll(repositories.ListBooksParams{
		Page:       page,
		PerPage:    perPage,
		SortBy:     column,
		Order:      order,
		Search:     search,
		CategoryID: categoryID,
	})
}

// GetBookByID retrieves a single book.
func (s *BookService) GetBookByID(id string) (*models.Book, error) {
	return s.bookRepo.GetByID(id)
}

// CreateBook adds a book to the catalog after verifying the ISBN is
// unused and the referenced category (and author, if any) exists.
func (s *BookService) CreateBook(book *models.Book) error {
	if _, err := s.bookRepo.GetByISBN(book.ISBN); err == nil {
		return fmt.Errorf("a book with ISBN %s already exists: %w", book.ISBN, repositories.ErrDuplicate)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	if _, err := s.categoryRepo.GetByID(book.CategoryID); err != nil {
		return fmt.Errorf("category %s: %w", book.CategoryID, err)
	}
	if book.AuthorID != "" {
		if _, err := s.authorRepo.GetByID(book.AuthorID); err != nil {
			return fmt.Errorf("author %s: %w", book.AuthorID, err)
		}
	}

	return s.bookRepo.Create(book)
}

// UpdateBook applies changes to an existing book. A changed ISBN must
// not collide with another book.
func (s *BookService) UpdateBook(id string, updated *models.Book) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if updated.ISBN != book.ISBN {
		if other, err := s.bookRepo.GetByISBN(updated.ISBN); err == nil && other.ID != id {
			return nil, fmt.Errorf("a book with ISBN %s already exists: %w", updated.ISBN, repositories.ErrDuplicate)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}
	if updated.CategoryID != book.CategoryID {
		if _, err := s.categoryRepo.GetByID(updated.CategoryID); err != nil {
			return nil, fmt.Errorf("category %s: %w", updated.CategoryID, err)
		}
	}
	if updated.AuthorID != "" && updated.AuthorID != book.AuthorID {
		if _, err := s.authorRepo.GetByID(updated.AuthorID); err != nil {
			return nil, fmt.Errorf("author %s: %w", updated.AuthorID, err)
		}
	}

	book.Title = updated.Title
	book.ISBN = updated.ISBN
	book.Description = updated.Description
	book.PriceCents = updated.PriceCents
	book.StockQuantity = updated.StockQuantity
	book.PublicationDate = updated.PublicationDate
	book.Edition = updated.Edition
	book.Language = updated.Language
	book.AuthorID = updated.AuthorID
	book.CategoryID = updated.CategoryID

	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBookCovers records the uploaded cover image locations. Empty
// arguments leave the corresponding cover untouched.
func (s *BookService) UpdateBookCovers(id, frontURL, frontPublicID, backURL, backPublicID string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if frontURL != "" {
		book.FrontCoverURL = frontURL
		book.FrontCoverPublicID = frontPublicID
	}
	if backURL != "" {
		book.BackCoverURL = backURL
		book.BackCoverPublicID = backPublicID
	}

	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book from the catalog.
func (s *BookService) DeleteBook(id string) error {
	return s.bookRepo.Delete(id)
}
