package handlers

import (
	"log"

	"bookstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles HTTP requests for the admin sales report.
type AnalyticsHandler struct {
	service *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// RegisterAdminRoutes registers the analytics routes.
func (h *AnalyticsHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/analytics/sales", h.HandleSalesAnalytics)
}

// HandleSalesAnalytics builds the sales report for the requested
// window. Either period=week|month|year or start_date/end_date
// (YYYY-MM-DD) may be given, plus an optional status filter.
func (h *AnalyticsHandler) HandleSalesAnalytics(c *fiber.Ctx) error {
	report, err := h.service.GetSalesAnalytics(
		c.Query("period"),
		c.Query("start_date"),
		c.Query("end_date"),
		c.Query("status"),
	)
	if err != nil {
		log.Printf("Error building sales analytics: %v", err)
		return respondFail(c, fiber.StatusBadRequest, err.Error())
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"analytics": report})
}
