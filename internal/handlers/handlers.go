// Package handlers exposes the services over HTTP.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"shop/internal/apperrors"
	"shop/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Guards are the middlewares protecting user and admin routes.
type Guards struct {
	Auth  fiber.Handler
	Admin fiber.Handler
}

var validate = validator.New()

// respondError maps the shared error taxonomy to a status code. Only
// validation failures echo the error text; it names the offending input.
func respondError(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, "Internal server error"
	detail := false
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidQuantity):
		status, message, detail = fiber.StatusBadRequest, "Validation failed", true
	case errors.Is(err, apperrors.ErrEmptyCart):
		status, message = fiber.StatusBadRequest, "Cart is empty, nothing to checkout"
	case errors.Is(err, apperrors.ErrSignatureVerification):
		status, message = fiber.StatusBadRequest, "Webhook signature verification failed"
	case errors.Is(err, apperrors.ErrMissingSessionID):
		status, message = fiber.StatusBadRequest, "Event carries no checkout session"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, message = fiber.StatusUnauthorized, "Authentication failed"
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = fiber.StatusForbidden, "Access denied"
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		status, message = fiber.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrPaymentProvider):
		status, message = fiber.StatusBadGateway, "Payment provider unavailable"
	}

	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "status", status, "error", err)
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
	slog.DebugContext(c.UserContext(), "request rejected",
		"method", c.Method(), "path", c.Path(), "status", status, "error", err)
	if !detail {
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// bindJSON parses the body into req and runs its validate tags. It writes
// the 400 response itself and reports whether the handler may continue.
func bindJSON(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, respondError(c, err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

func pagination(c *fiber.Ctx) repositories.Pagination {
	return repositories.Pagination{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}.Normalize()
}
