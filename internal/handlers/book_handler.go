package handlers

import (
	"log"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service  *services.BookService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleGetBooks)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
}

// RegisterAdminRoutes registers the catalog management routes.
func (h *BookHandler) RegisterAdminRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Post("/", h.HandleCreateBook)
	bookRoutes.Put("/:id", h.HandleUpdateBook)
	bookRoutes.Patch("/:id/covers", h.HandleUpdateCovers)
	bookRoutes.Delete("/:id", h.HandleDeleteBook)
}

// HandleGetBooks retrieves a page of the catalog.
func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	books, total, err := h.service.GetAllBooks(
		c.QueryInt("page", 1),
		c.QueryInt("per_page", 10),
		c.Query("sort_by"),
		c.Query("order"),
		c.Query("search"),
		c.Query("category_id"),
	)
	if err != nil {
		log.Printf("Error getting books: %v", err)
		return respondFail(c, fiber.StatusBadRequest, err.Error())
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"books": books,
		"total": total,
	})
}

// HandleGetBookByID retrieves a single book.
func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	book, err := h.service.GetBookByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"book": book})
}

// BookRequest represents the request body for creating or updating a
// book. Prices arrive as integer cents.
type BookRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=100"`
	ISBN            string `json:"isbn" validate:"required,min=10,max=13"`
	Description     string `json:"description" validate:"omitempty,max=2000"`
	PriceCents      int64  `json:"price_cents" validate:"gte=0"`
	StockQuantity   int    `json:"stock_quantity" validate:"gte=0"`
	PublicationDate string `json:"publication_date" validate:"omitempty"`
	Edition         string `json:"edition" validate:"omitempty,max=50"`
	Language        string `json:"language" validate:"omitempty,max=50"`
	AuthorID        string `json:"author_id" validate:"omitempty,uuid"`
	CategoryID      string `json:"category_id" validate:"required,uuid"`
}

func (r *BookRequest) toModel() (*models.Book, error) {
	book := &models.Book{
		Title:         r.Title,
		ISBN:          r.ISBN,
		Description:   r.Description,
		PriceCents:    r.PriceCents,
		StockQuantity: r.StockQuantity,
		Edition:       r.Edition,
		Language:      r.Language,
		AuthorID:      r.AuthorID,
		CategoryID:    r.CategoryID,
	}
	if r.PublicationDate != "" {
		date, err := time.Parse("2006-01-02", r.PublicationDate)
		if err != nil {
			return nil, err
		}
		book.PublicationDate = &date
	}
	return book, nil
}

// HandleCreateBook adds a book to the catalog.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing book request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	book, err := req.toModel()
	if err != nil {
		return respondFail(c, fiber.StatusBadRequest, "publication_date must be YYYY-MM-DD")
	}
	if err := h.service.CreateBook(book); err != nil {
		log.Printf("Error creating book: %v", err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{"book": book})
}

// HandleUpdateBook applies changes to an existing book.
func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	updated, err := req.toModel()
	if err != nil {
		return respondFail(c, fiber.StatusBadRequest, "publication_date must be YYYY-MM-DD")
	}
	book, err := h.service.UpdateBook(c.Params("id"), updated)
	if err != nil {
		log.Printf("Error updating book %s: %v", c.Params("id"), err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"book": book})
}

// CoverRequest represents the request body for cover image updates.
type CoverRequest struct {
	FrontCoverURL      string `json:"front_cover_url" validate:"omitempty,url"`
	FrontCoverPublicID string `json:"front_cover_public_id" validate:"omitempty,max=255"`
	BackCoverURL       string `json:"back_cover_url" validate:"omitempty,url"`
	BackCoverPublicID  string `json:"back_cover_public_id" validate:"omitempty,max=255"`
}

// HandleUpdateCovers records new cover image locations.
func (h *BookHandler) HandleUpdateCovers(c *fiber.Ctx) error {
	var req CoverRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	book, err := h.service.UpdateBookCovers(c.Params("id"),
		req.FrontCoverURL, req.FrontCoverPublicID, req.BackCoverURL, req.BackCoverPublicID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"book": book})
}

// HandleDeleteBook removes a book from the catalog.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	if err := h.service.DeleteBook(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"message": "Book deleted successfully"})
}
