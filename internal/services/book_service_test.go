package services_test

import (
	"testing"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockBookRepository is a mock implementation of repositories.BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) GetAll(params repositories.ListBooksParams) ([]models.Book, int64, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) GetByID(id string) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) GetByISBN(isbn string) (*models.Book, error) {
	args := m.Called(isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Create(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Update(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBookRepository) CountByCategory(categoryID string) (int64, error) {
	args := m.Called(categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) GetByIDTx(tx *gorm.DB, id string) (*models.Book, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) DecrementStockTx(tx *gorm.DB, id string, quantity int) error {
	args := m.Called(tx, id, quantity)
	return args.Error(0)
}

func (m *MockBookRepository) RestoreStockTx(tx *gorm.DB, id string, quantity int) error {
	args := m.Called(tx, id, quantity)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.BookCategory, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookCategory), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id string) (*models.BookCategory, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookCategory), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(name string) (*models.BookCategory, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookCategory), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.BookCategory) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(category *models.BookCategory) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockAuthorRepository is a mock implementation of repositories.AuthorRepository
type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) GetAll() ([]models.Author, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Author), args.Error(1)
}

func (m *MockAuthorRepository) GetByID(id string) (*models.Author, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorRepository) Create(author *models.Author) error {
	args := m.Called(author)
	return args.Error(0)
}

func (m *MockAuthorRepository) Update(author *models.Author) error {
	args := m.Called(author)
	return args.Error(0)
}

func (m *MockAuthorRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestBookService_GetAllBooks(t *testing.T) {
	mockRepo := new(MockBookRepository)
	bookService := services.NewBookService(mockRepo, new(MockCategoryRepository), new(MockAuthorRepository))

	expected := []models.Book{{ID: "book-1", Title: "A"}, {ID: "book-2", Title: "B"}}
	mockRepo.On("GetAll", repositories.ListBooksParams{
		Page: 1, PerPage: 10, SortBy: "created_at", Order: "desc",
	}).Return(expected, int64(2), nil).Once()

	books, total, err := bookService.GetAllBooks(0, 0, "", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, expected, books)

	// The sort key is mapped onto the cents column.
	mockRepo.On("GetAll", repositories.ListBooksParams{
		Page: 2, PerPage: 5, SortBy: "price_cents", Order: "asc", Search: "go", CategoryID: "cat-1",
	}).Return([]models.Book{}, int64(0), nil).Once()
	_, _, err = bookService.GetAllBooks(2, 5, "price", "asc", "go", "cat-1")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)

	_, _, err = bookService.GetAllBooks(1, 10, "shoe_size", "asc", "", "")
	assert.Error(t, err)
	_, _, err = bookService.GetAllBooks(1, 10, "title", "sideways", "", "")
	assert.Error(t, err)
}

func TestBookService_CreateBook(t *testing.T) {
	mockRepo := new(MockBookRepository)
	mockCategories := new(MockCategoryRepository)
	mockAuthors := new(MockAuthorRepository)
	bookService := services.NewBookService(mockRepo, mockCategories, mockAuthors)

	book := &models.Book{Title: "New Book", ISBN: "9781111111111", PriceCents: 1250, CategoryID: "cat-1", AuthorID: "author-1"}

	mockRepo.On("GetByISBN", book.ISBN).Return(nil, repositories.ErrNotFound).Once()
	mockCategories.On("GetByID", "cat-1").Return(&models.BookCategory{ID: "cat-1"}, nil).Once()
	mockAuthors.On("GetByID", "author-1").Return(&models.Author{ID: "author-1"}, nil).Once()
	mockRepo.On("Create", book).Return(nil).Once()

	require.NoError(t, bookService.CreateBook(book))
	mockRepo.AssertExpectations(t)
	mockCategories.AssertExpectations(t)
	mockAuthors.AssertExpectations(t)
}

func TestBookService_CreateBook_DuplicateISBN(t *testing.T) {
	mockRepo := new(MockBookRepository)
	bookService := services.NewBookService(mockRepo, new(MockCategoryRepository), new(MockAuthorRepository))

	book := &models.Book{Title: "New Book", ISBN: "9781111111111", CategoryID: "cat-1"}
	mockRepo.On("GetByISBN", book.ISBN).Return(&models.Book{ID: "existing"}, nil).Once()

	err := bookService.CreateBook(book)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	mockRepo.AssertExpectations(t)
}

func TestBookService_CreateBook_UnknownCategory(t *testing.T) {
	mockRepo := new(MockBookRepository)
	mockCategories := new(MockCategoryRepository)
	bookService := services.NewBookService(mockRepo, mockCategories, new(MockAuthorRepository))

	book := &models.Book{Title: "New Book", ISBN: "9781111111111", CategoryID: "cat-missing"}
	mockRepo.On("GetByISBN", book.ISBN).Return(nil, repositories.ErrNotFound).Once()
	mockCategories.On("GetByID", "cat-missing").Return(nil, repositories.ErrNotFound).Once()

	err := bookService.CreateBook(book)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestBookService_UpdateBook(t *testing.T) {
	mockRepo := new(MockBookRepository)
	bookService := services.NewBookService(mockRepo, new(MockCategoryRepository), new(MockAuthorRepository))

	existing := &models.Book{ID: "book-1", Title: "Old Title", ISBN: "9781111111111", PriceCents: 1000, CategoryID: "cat-1"}
	mockRepo.On("GetByID", "book-1").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Book")).Return(nil).Once()

	updated, err := bookService.UpdateBook("book-1", &models.Book{
		Title: "New Title", ISBN: "9781111111111", PriceCents: 1500, CategoryID: "cat-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, int64(1500), updated.PriceCents)
	mockRepo.AssertExpectations(t)
}

func TestBookService_UpdateBook_ISBNCollision(t *testing.T) {
	mockRepo := new(MockBookRepository)
	bookService := services.NewBookService(mockRepo, new(MockCategoryRepository), new(MockAuthorRepository))

	existing := &models.Book{ID: "book-1", ISBN: "9781111111111", CategoryID: "cat-1"}
	mockRepo.On("GetByID", "book-1").Return(existing, nil).Once()
	mockRepo.On("GetByISBN", "9782222222222").Return(&models.Book{ID: "book-2"}, nil).Once()

	_, err := bookService.UpdateBook("book-1", &models.Book{ISBN: "9782222222222", CategoryID: "cat-1"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	mockRepo.AssertExpectations(t)
}

func TestBookService_UpdateBookCovers(t *testing.T) {
	mockRepo := new(MockBookRepository)
	bookService := services.NewBookService(mockRepo, new(MockCategoryRepository), new(MockAuthorRepository))

	existing := &models.Book{ID: "book-1", BackCoverURL: "https://img.example/old-back.png"}
	mockRepo.On("GetByID", "book-1").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Book")).Return(nil).Once()

	book, err := bookService.UpdateBookCovers("book-1", "https://img.example/front.png", "front-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/front.png", book.FrontCoverURL)
	assert.Equal(t, "front-1", book.FrontCoverPublicID)
	// An empty argument leaves the other cover alone.
	assert.Equal(t, "https://img.example/old-back.png", book.BackCoverURL)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	mockRepo := new(MockBookRepository)
	mockCategories := new(MockCategoryRepository)
	categoryService := services.NewCategoryService(mockCategories, mockRepo)

	mockCategories.On("GetByID", "cat-1").Return(&models.BookCategory{ID: "cat-1"}, nil).Once()
	mockRepo.On("CountByCategory", "cat-1").Return(int64(3), nil).Once()

	err := categoryService.DeleteCategory("cat-1")
	assert.ErrorIs(t, err, services.ErrCategoryInUse)

	mockCategories.On("GetByID", "cat-2").Return(&models.BookCategory{ID: "cat-2"}, nil).Once()
	mockRepo.On("CountByCategory", "cat-2").Return(int64(0), nil).Once()
	mockCategories.On("Delete", "cat-2").Return(nil).Once()

	require.NoError(t, categoryService.DeleteCategory("cat-2"))
	mockCategories.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	mockCategories := new(MockCategoryRepository)
	categoryService := services.NewCategoryService(mockCategories, new(MockBookRepository))

	mockCategories.On("GetByName", "Fiction").Return(&models.BookCategory{ID: "cat-1"}, nil).Once()
	err := categoryService.CreateCategory(&models.BookCategory{Name: "Fiction"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	mockCategories.AssertExpectations(t)
}
