package handlers

import (
	"log"

	"bookstore/internal/models"
	"bookstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthorHandler handles HTTP requests for authors.
type AuthorHandler struct {
	service  *services.AuthorService
	validate *validator.Validate
}

// NewAuthorHandler creates a new AuthorHandler.
func NewAuthorHandler(service *services.AuthorService) *AuthorHandler {
	return &AuthorHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public author routes.
func (h *AuthorHandler) RegisterRoutes(router fiber.Router) {
	authorRoutes := router.Group("/authors")
	authorRoutes.Get("/", h.HandleGetAuthors)
	authorRoutes.Get("/:id", h.HandleGetAuthorByID)
}

// RegisterAdminRoutes registers the author management routes.
func (h *AuthorHandler) RegisterAdminRoutes(router fiber.Router) {
	authorRoutes := router.Group("/authors")
	authorRoutes.Post("/", h.HandleCreateAuthor)
	authorRoutes.Put("/:id", h.HandleUpdateAuthor)
	authorRoutes.Delete("/:id", h.HandleDeleteAuthor)
}

// HandleGetAuthors retrieves every author.
func (h *AuthorHandler) HandleGetAuthors(c *fiber.Ctx) error {
	authors, err := h.service.GetAllAuthors()
	if err != nil {
		log.Printf("Error getting authors: %v", err)
		return respondError(c, "Could not retrieve authors")
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"authors": authors})
}

// HandleGetAuthorByID retrieves a single author.
func (h *AuthorHandler) HandleGetAuthorByID(c *fiber.Ctx) error {
	author, err := h.service.GetAuthorByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"author": author})
}

// AuthorRequest represents the request body for author writes.
type AuthorRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Biography string `json:"biography" validate:"omitempty,max=5000"`
}

// HandleCreateAuthor adds an author.
func (h *AuthorHandler) HandleCreateAuthor(c *fiber.Ctx) error {
	var req AuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	author := models.Author{Name: req.Name, Biography: req.Biography}
	if err := h.service.CreateAuthor(&author); err != nil {
		log.Printf("Error creating author: %v", err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{"author": author})
}

// HandleUpdateAuthor applies changes to an existing author.
func (h *AuthorHandler) HandleUpdateAuthor(c *fiber.Ctx) error {
	var req AuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	author, err := h.service.UpdateAuthor(c.Params("id"),
		&models.Author{Name: req.Name, Biography: req.Biography})
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"author": author})
}

// HandleDeleteAuthor removes an author.
func (h *AuthorHandler) HandleDeleteAuthor(c *fiber.Ctx) error {
	if err := h.service.DeleteAuthor(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"message": "Author deleted successfully"})
}
