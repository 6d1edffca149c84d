// Package app wires configuration, infrastructure and services into a Fiber
// application.
package app

import (
	"context"
	"time"

	"shop/internal/config"
	"shop/internal/handlers"
	"shop/internal/metrics"
	"shop/internal/middleware"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the HTTP application is built from. Publisher,
// Cache, Metrics and DB may be nil.
type Deps struct {
	Config    config.Config
	Store     repositories.Store
	DB        Pinger
	Gateway   services.PaymentGateway
	Publisher services.EventPublisher
	Cache     services.ProductCache
	Metrics   *metrics.Metrics
	AccessLog bool
}

// Services is the service layer built from Deps.
type Services struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Pricing  *services.PricingService
	Sales    *services.SaleItemService
	Carts    *services.CartService
	Checkout *services.CheckoutService
	Payments *services.PaymentService
	Orders   *services.OrderService
}

// NewServices builds the service layer.
func NewServices(d Deps) *Services {
	repos := d.Store.Repos()
	return &Services{
		Auth:     services.NewAuthService(repos.Users, d.Config.JWTSecret, d.Config.TokenTTL),
		Products: services.NewProductService(repos.Products, d.Cache),
		Pricing:  services.NewPricingService(d.Store),
		Sales:    services.NewSaleItemService(d.Store),
		Carts:    services.NewCartService(d.Store),
		Checkout: services.NewCheckoutService(d.Store, d.Gateway, d.Metrics, services.CheckoutConfig{
			ClientURL:      d.Config.ClientURL,
			PaymentTimeout: d.Config.PaymentTimeout,
		}),
		Payments: services.NewPaymentService(d.Store, d.Gateway, d.Publisher, d.Metrics),
		Orders:   services.NewOrderService(repos.Orders),
	}
}

// NewRouter registers every route on a new Fiber app.
func NewRouter(d Deps, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shop",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}
	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
		app.Get("/metrics", d.Metrics.Handler())
	}

	app.Get("/health", healthHandler(d.DB))

	guards := handlers.Guards{
		Auth:  middleware.AuthRequired(svc.Auth),
		Admin: middleware.AdminRequired(),
	}

	handlers.NewWebhookHandler(svc.Payments).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(apiV1)
	handlers.NewProductHandler(svc.Products, svc.Pricing, guards).RegisterRoutes(apiV1)
	handlers.NewSaleItemHandler(svc.Sales, guards).RegisterRoutes(apiV1)
	handlers.NewCartHandler(svc.Carts, guards).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(svc.Checkout, guards).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(svc.Orders, guards).RegisterRoutes(apiV1)

	return app
}

func healthHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, health, database := fiber.StatusOK, "healthy", "up"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				status, health, database = fiber.StatusServiceUnavailable, "unhealthy", "down"
			}
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"database": database,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
