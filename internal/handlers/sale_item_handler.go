package handlers

import (
	"time"

	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// SaleItemHandler handles HTTP requests for sale windows.
type SaleItemHandler struct {
	service *services.SaleItemService
	guards  Guards
}

// NewSaleItemHandler creates a new SaleItemHandler.
func NewSaleItemHandler(service *services.SaleItemService, guards Guards) *SaleItemHandler {
	return &SaleItemHandler{service: service, guards: guards}
}

func (h *SaleItemHandler) RegisterRoutes(router fiber.Router) {
	saleRoutes := router.Group("/sale-items")
	saleRoutes.Get("/", h.HandleList)
	saleRoutes.Get("/:id", h.HandleGet)
	saleRoutes.Post("/", h.guards.Auth, h.guards.Admin, h.HandleCreate)
	saleRoutes.Put("/:id", h.guards.Auth, h.guards.Admin, h.HandleUpdate)
	saleRoutes.Delete("/:id", h.guards.Auth, h.guards.Admin, h.HandleDelete)
}

// SaleItemRequest is the body of sale create and update requests. The
// service enforces the discount range and the window order.
type SaleItemRequest struct {
	ProductID       string          `json:"product_id"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
}

func (r SaleItemRequest) toInput() services.SaleItemInput {
	return services.SaleItemInput{
		ProductID:       r.ProductID,
		DiscountPercent: r.DiscountPercent,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
	}
}

func (h *SaleItemHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.SaleItemFilter{ProductID: c.Query("product_id")}
	page, err := h.service.List(c.UserContext(), filter, pagination(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *SaleItemHandler) HandleGet(c *fiber.Ctx) error {
	sale, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

func (h *SaleItemHandler) HandleCreate(c *fiber.Ctx) error {
	var req SaleItemRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	sale, err := h.service.Create(c.UserContext(), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

func (h *SaleItemHandler) HandleUpdate(c *fiber.Ctx) error {
	var req SaleItemRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	sale, err := h.service.Update(c.UserContext(), c.Params("id"), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

func (h *SaleItemHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
