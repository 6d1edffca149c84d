package handlers

import (
	"shop/internal/middleware"
	"shop/internal/models"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	guards  Guards
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, guards Guards) *OrderHandler {
	return &OrderHandler{
		service: service,
		guards:  guards,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", h.guards.Auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)

	router.Get("/admin/orders", h.guards.Auth, h.guards.Admin, h.HandleGetAllOrders)
}

func orderQuery(c *fiber.Ctx) services.OrderQuery {
	return services.OrderQuery{
		Status:     models.OrderStatus(c.Query("status")),
		Pagination: pagination(c),
	}
}

// HandleGetOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	page, err := h.service.ListUserOrders(c.UserContext(), middleware.UserID(c), orderQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGetOrderByID retrieves a single order with its items.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderDetails(c.UserContext(), c.Params("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleGetAllOrders lists every order, optionally filtered by user_id and
// status.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	q := orderQuery(c)
	q.UserID = c.Query("user_id")
	page, err := h.service.ListAllOrders(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
