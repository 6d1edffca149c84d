package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"shop/internal/models"
	"shop/internal/repositories"
)

// NotificationService emails buyers about their orders.
type NotificationService struct {
	users  repositories.UserRepository
	mailer Mailer
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(users repositories.UserRepository, mailer Mailer) *NotificationService {
	return &NotificationService{users: users, mailer: mailer}
}

// HandleOrderPaid consumes an order.paid message and sends the receipt.
func (s *NotificationService) HandleOrderPaid(ctx context.Context, body []byte) error {
	var ev models.OrderPaidEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("failed to decode order paid event: %w", err)
	}

	user, err := s.users.GetByID(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("failed to load buyer of order %s: %w", ev.OrderID, err)
	}

	subject := fmt.Sprintf("Payment received for order %s", ev.OrderID)
	text := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %s for order %s.\nThank you for shopping with us.\n",
		user.Username, ev.TotalAmount.StringFixed(2), ev.OrderID)
	if err := s.mailer.Send(ctx, user.Email, subject, text); err != nil {
		return fmt.Errorf("failed to email receipt for order %s: %w", ev.OrderID, err)
	}
	slog.InfoContext(ctx, "receipt sent", "order_id", ev.OrderID, "user_id", ev.UserID)
	return nil
}
