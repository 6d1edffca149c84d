package services

import (
	"context"

	"shop/internal/models"
	"shop/pkg/payments"
)

// PaymentGateway is the payment provider as seen by checkout and webhook
// handling.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error)
	ParseEvent(payload []byte, signature string) (*payments.Event, error)
}

// EventPublisher publishes a message to an exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Mailer delivers a plain text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ProductCache is a read-through cache for single products.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
