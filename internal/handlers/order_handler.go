package handlers

import (
	"log"

	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the customer order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/pay", h.HandlePayOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// RegisterAdminRoutes registers the admin order routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListAllOrders)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// CreateOrderRequest represents the request body for checkout.
type CreateOrderRequest struct {
	CartID        string         `json:"cart_id" validate:"required,uuid"`
	PaymentMethod string         `json:"payment_method" validate:"required"`
	Billing       models.Address `json:"billing"`
	Shipping      models.Address `json:"shipping"`
}

// HandleCreateOrder converts the user's cart into an order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return respondFail(c, fiber.StatusBadRequest,
			"payment_method must be one of: mtn_mobile_money, airtel_money, stripe, order_on_delivery")
	}

	order, err := h.service.CreateOrder(middleware.UserID(c), req.CartID, method, req.Billing, req.Shipping)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{"order": order})
}

// HandleGetMyOrders retrieves the authenticated user's orders. With a
// page or per_page query the paginated, sortable form is used.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	if c.Query("page") != "" || c.Query("per_page") != "" {
		orders, total, err := h.service.ListUserOrders(userID,
			c.QueryInt("page", 1), c.QueryInt("per_page", 10),
			c.Query("sort_by"), c.Query("order"))
		if err != nil {
			return respondFail(c, fiber.StatusBadRequest, err.Error())
		}
		return respondSuccess(c, fiber.StatusOK, fiber.Map{
			"orders": orders,
			"total":  total,
		})
	}

	orders, err := h.service.GetUserOrders(userID, c.Query("status"))
	if err != nil {
		return respondFail(c, fiber.StatusBadRequest, err.Error())
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

// HandleGetOrderByID retrieves a single order. Customers may only see
// their own orders; admins may see any.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}

	role, _ := c.Locals("role").(string)
	if order.UserID != middleware.UserID(c) && models.Role(role) != models.RoleAdmin {
		// Report not-found rather than forbidden so order IDs cannot be probed.
		return respondFail(c, fiber.StatusNotFound, "order not found")
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"order": order})
}

// PayOrderRequest represents the request body for payment.
type PayOrderRequest struct {
	PaymentTransactionID string `json:"payment_transaction_id" validate:"omitempty,max=255"`
}

// HandlePayOrder charges a pending order.
func (h *OrderHandler) HandlePayOrder(c *fiber.Ctx) error {
	var req PayOrderRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if order.UserID != middleware.UserID(c) {
		return respondFail(c, fiber.StatusNotFound, "order not found")
	}

	order, err = h.service.ProcessPayment(order.ID, req.PaymentTransactionID)
	if err != nil {
		log.Printf("Error processing payment for order %s: %v", c.Params("id"), err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"order": order})
}

// HandleCancelOrder cancels one of the user's own orders.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if order.UserID != middleware.UserID(c) {
		return respondFail(c, fiber.StatusNotFound, "order not found")
	}

	order, err = h.service.CancelOrder(order.ID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"order": order})
}

// HandleListAllOrders retrieves a page of every order, for admins.
func (h *OrderHandler) HandleListAllOrders(c *fiber.Ctx) error {
	orders, total, err := h.service.ListAllOrders(
		c.QueryInt("page", 1), c.QueryInt("per_page", 10),
		c.Query("sort_by"), c.Query("order"))
	if err != nil {
		return respondFail(c, fiber.StatusBadRequest, err.Error())
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"orders": orders,
		"total":  total,
	})
}

// UpdateOrderStatusRequest represents the admin status change body.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.service.AdminUpdateOrderStatus(middleware.UserID(c), c.Params("id"),
		models.OrderStatus(req.Status), req.Reason)
	if err != nil {
		log.Printf("Error updating status of order %s: %v", c.Params("id"), err)
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"order": order})
}
