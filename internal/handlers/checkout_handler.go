package handlers

import (
	"shop/internal/middleware"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler starts hosted payment sessions.
type CheckoutHandler struct {
	service *services.CheckoutService
	guards  Guards
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, guards Guards) *CheckoutHandler {
	return &CheckoutHandler{service: service, guards: guards}
}

func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout/session", h.guards.Auth, h.HandleCreateSession)
}

// HandleCreateSession turns the cart into a pending order and returns the
// URL of the payment page.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	res, err := h.service.CreateSession(c.UserContext(), services.CheckoutInput{UserID: middleware.UserID(c)})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
