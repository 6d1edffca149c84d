package handlers

import (
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives payment provider notifications. It is mounted
// outside the API prefix and authenticated by signature only.
type WebhookHandler struct {
	service *services.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *services.PaymentService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhook/stripe", h.HandleStripe)
}

// HandleStripe verifies the raw body against the Stripe-Signature header.
// An unknown session is answered with 404 so the provider retries it.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	res, err := h.service.HandleNotification(c.UserContext(), payload, c.Get("Stripe-Signature"))
	if err != nil {
		return respondError(c, err)
	}

	if res.Outcome == services.OutcomeOrderNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"received": false,
			"outcome":  res.Outcome,
			"message":  "No order for this checkout session",
		})
	}
	return c.JSON(fiber.Map{
		"received": true,
		"outcome":  res.Outcome,
	})
}
