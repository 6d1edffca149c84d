package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shop/internal/apperrors"
	"shop/internal/metrics"
	"shop/internal/models"
	"shop/internal/repositories"
	"shop/pkg/payments"
	"shop/pkg/rabbitmq"
)

// NotificationOutcome says what a webhook delivery did.
type NotificationOutcome string

const (
	OutcomeIgnored       NotificationOutcome = "ignored"
	OutcomeFinalized     NotificationOutcome = "finalized"
	OutcomeAlreadyPaid   NotificationOutcome = "already_paid"
	OutcomeOrderNotFound NotificationOutcome = "order_not_found"
)

// NotificationResult is returned by PaymentService.HandleNotification.
type NotificationResult struct {
	Outcome   NotificationOutcome `json:"outcome"`
	EventType string              `json:"event_type"`
	SessionID string              `json:"session_id,omitempty"`
	OrderID   string              `json:"order_id,omitempty"`
}

// PaymentService reconciles provider notifications with pending orders.
type PaymentService struct {
	store     repositories.Store
	gateway   PaymentGateway
	publisher EventPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewPaymentService creates a new PaymentService. publisher and m may be nil.
func NewPaymentService(store repositories.Store, gateway PaymentGateway, publisher EventPublisher, m *metrics.Metrics) *PaymentService {
	return &PaymentService{
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HandleNotification authenticates a webhook delivery and, for a completed
// checkout, marks the matching order paid and empties the buyer's cart in a
// single transaction. The order row is locked for the duration, so
// concurrent or repeated deliveries of the same event finalize it once.
func (s *PaymentService) HandleNotification(ctx context.Context, payload []byte, signature string) (NotificationResult, error) {
	ev, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		s.metrics.WebhookEvent(metrics.WebhookRejected)
		return NotificationResult{}, fmt.Errorf("%w: %v", apperrors.ErrSignatureVerification, err)
	}

	result := NotificationResult{EventType: ev.Type, SessionID: ev.SessionID}
	if ev.Type != payments.EventCheckoutSessionCompleted {
		slog.DebugContext(ctx, "ignoring payment event", "event_id", ev.ID, "type", ev.Type)
		result.Outcome = OutcomeIgnored
		s.metrics.WebhookEvent(string(result.Outcome))
		return result, nil
	}
	if ev.SessionID == "" {
		slog.WarnContext(ctx, "checkout event without session id", "event_id", ev.ID)
		s.metrics.WebhookEvent(metrics.WebhookRejected)
		return result, fmt.Errorf("event %s: %w", ev.ID, apperrors.ErrMissingSessionID)
	}

	var paid *models.Order
	err = s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		order, err := lockOrderForEvent(ctx, repos, ev)
		if errors.Is(err, apperrors.ErrNotFound) {
			result.Outcome = OutcomeOrderNotFound
			return nil
		}
		if err != nil {
			return err
		}

		result.OrderID = order.ID
		if order.Status == models.OrderStatusPaid {
			result.Outcome = OutcomeAlreadyPaid
			return nil
		}

		if err := repos.Orders.UpdateStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
			return err
		}
		if _, err := repos.Carts.ClearByUser(ctx, order.UserID); err != nil {
			return err
		}
		order.Status = models.OrderStatusPaid
		paid = order
		result.Outcome = OutcomeFinalized
		return nil
	})
	if err != nil {
		s.metrics.WebhookEvent(metrics.WebhookFailed)
		if !errors.Is(err, apperrors.ErrPersistence) {
			err = fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		return NotificationResult{}, fmt.Errorf("finalize session %s: %w", ev.SessionID, err)
	}

	s.metrics.WebhookEvent(string(result.Outcome))
	switch result.Outcome {
	case OutcomeOrderNotFound:
		slog.WarnContext(ctx, "no order for completed session", "event_id", ev.ID, "session_id", ev.SessionID)
	case OutcomeAlreadyPaid:
		slog.InfoContext(ctx, "order already paid", "order_id", result.OrderID, "session_id", ev.SessionID)
	case OutcomeFinalized:
		slog.InfoContext(ctx, "order paid", "order_id", paid.ID, "user_id", paid.UserID, "session_id", ev.SessionID)
		s.publishPaid(ctx, paid, ev.SessionID)
	}
	return result, nil
}

// lockOrderForEvent locks the order by session id, falling back to the
// order_id metadata for orders whose session id was never persisted.
func lockOrderForEvent(ctx context.Context, repos repositories.Repositories, ev *payments.Event) (*models.Order, error) {
	order, err := repos.Orders.LockByStripeSessionID(ctx, ev.SessionID)
	if err == nil || !errors.Is(err, apperrors.ErrNotFound) {
		return order, err
	}

	orderID := ev.Metadata["order_id"]
	if orderID == "" {
		return nil, err
	}
	order, err = repos.Orders.LockByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.StripeSessionID != nil && *order.StripeSessionID != "" {
		if *order.StripeSessionID != ev.SessionID {
			return nil, fmt.Errorf("order %s is bound to another session: %w", orderID, apperrors.ErrNotFound)
		}
		// Checkout persisted the session after the first lookup.
		return order, nil
	}
	if err := repos.Orders.SetStripeSessionID(ctx, order.ID, ev.SessionID); err != nil {
		return nil, err
	}
	sessionID := ev.SessionID
	order.StripeSessionID = &sessionID
	return order, nil
}

func (s *PaymentService) publishPaid(ctx context.Context, order *models.Order, sessionID string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(models.OrderPaidEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		SessionID:   sessionID,
		TotalAmount: order.TotalAmount,
		PaidAt:      s.now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal order paid event", "order_id", order.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.ExchangeOrders, rabbitmq.RoutingKeyOrderPaid, body); err != nil {
		slog.WarnContext(ctx, "failed to publish order paid event", "order_id", order.ID, "error", err)
	}
}
