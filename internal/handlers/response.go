package handlers

import (
	"errors"
	"fmt"
	"time"

	"bookstore/internal/repositories"
	"bookstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Every response uses the same envelope: "success" with a data payload,
// "fail" for client mistakes with a human-readable message, "error" for
// server faults.

func respondSuccess(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    "success",
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func respondFail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    "fail",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":    "error",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// respondValidationErrors renders field-level validation failures.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":    "fail",
		"message":   "Validation failed",
		"errors":    errorMessages,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// respondDomainError maps known domain errors onto HTTP statuses.
// Anything unrecognized is reported as an internal error without
// leaking details.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return respondFail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		return respondFail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrCartUnavailable),
		errors.Is(err, services.ErrInvalidStatusTransition):
		return respondFail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCategoryInUse):
		return respondFail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return respondFail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailNotVerified),
		errors.Is(err, services.ErrAccountDeactivated):
		return respondFail(c, fiber.StatusForbidden, err.Error())
	default:
		return respondError(c, "Internal server error")
	}
}
