package handlers

import (
	"shop/internal/middleware"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service *services.CartService
	guards  Guards
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, guards Guards) *CartHandler {
	return &CartHandler{service: service, guards: guards}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", h.guards.Auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Put("/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
}

// AddCartItemRequest is the body of POST /cart. A missing quantity adds one.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest is the body of PUT /cart/:id. Zero removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	snap, err := h.service.Snapshot(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	snap, err := h.service.Add(c.UserContext(), middleware.UserID(c), services.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateCartItemRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	snap, err := h.service.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), *req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	snap, err := h.service.Remove(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	res, err := h.service.Clear(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
