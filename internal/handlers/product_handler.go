package handlers

import (
	"time"

	"shop/internal/models"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products and their prices.
type ProductHandler struct {
	service *services.ProductService
	pricing *services.PricingService
	guards  Guards
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, pricing *services.PricingService, guards Guards) *ProductHandler {
	return &ProductHandler{
		service: service,
		pricing: pricing,
		guards:  guards,
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes are
// admin only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/price", h.HandleGetPrice)
	productRoutes.Post("/", h.guards.Auth, h.guards.Admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", h.guards.Auth, h.guards.Admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.guards.Auth, h.guards.Admin, h.HandleDeleteProduct)
}

// ProductRequest represents the body of product create and update requests.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

func (r ProductRequest) toModel(id string) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
	}
}

// HandleGetProducts retrieves one page of products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := h.service.GetAllProducts(c.UserContext(), pagination(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleGetPrice returns the effective price, now or at the RFC 3339 instant
// given in ?at=.
func (h *ProductHandler) HandleGetPrice(c *fiber.Ctx) error {
	var at time.Time
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Query parameter 'at' must be an RFC 3339 timestamp",
				"error":   err.Error(),
			})
		}
		at = parsed
	}

	price, err := h.pricing.Resolve(c.UserContext(), c.Params("id"), at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(price)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	product := req.toModel("")
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	product := req.toModel(c.Params("id"))
	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
