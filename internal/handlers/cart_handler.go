package handlers

import (
	"errors"
	"log"

	"bookstore/internal/middleware"
	"bookstore/internal/repositories"
	"bookstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart. All routes
// act on the authenticated user's own active cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:book_id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:book_id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart retrieves the active cart. A user who never added
// anything has no cart and gets a 404.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetActiveCart(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondFail(c, fiber.StatusNotFound, "No active cart found")
		}
		log.Printf("Error getting cart: %v", err)
		return respondError(c, "Could not retrieve cart")
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"cart": cart})
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds copies of a book to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	cart, err := h.service.AddItem(middleware.UserID(c), req.BookID, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart: %v", err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"cart": cart})
}

// UpdateItemRequest represents the request body for a quantity change.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleUpdateItem sets the absolute quantity of a line item. Quantity
// zero removes the line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	cart, err := h.service.UpdateItem(middleware.UserID(c), c.Params("book_id"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item: %v", err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"cart": cart})
}

// HandleRemoveItem decrements a line item's quantity by one.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, removed, err := h.service.RemoveItem(middleware.UserID(c), c.Params("book_id"))
	if err != nil {
		return respondDomainError(c, err)
	}

	message := "Item quantity decreased"
	if removed {
		message = "Item removed from cart"
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"cart":    cart,
		"message": message,
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.service.ClearCart(middleware.UserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"cart":    cart,
		"message": "Cart cleared",
	})
}
