package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"shop/internal/apperrors"
	"shop/internal/metrics"
	"shop/internal/models"
	"shop/internal/repositories"
	"shop/pkg/payments"
)

const defaultPaymentTimeout = 10 * time.Second

// CheckoutConfig holds the redirect base URL and the payment call budget.
type CheckoutConfig struct {
	ClientURL      string
	PaymentTimeout time.Duration
}

// CheckoutInput is the payload of CheckoutService.CreateSession.
type CheckoutInput struct {
	UserID string
}

// CheckoutResult tells the client where to pay.
type CheckoutResult struct {
	RedirectURL string `json:"url"`
	SessionID   string `json:"session_id"`
	OrderID     string `json:"order_id"`
}

// CheckoutService turns a cart into a pending order and a hosted payment
// session.
type CheckoutService struct {
	store   repositories.Store
	gateway PaymentGateway
	metrics *metrics.Metrics
	cfg     CheckoutConfig
	now     func() time.Time
}

// NewCheckoutService creates a new CheckoutService. m may be nil.
func NewCheckoutService(store repositories.Store, gateway PaymentGateway, m *metrics.Metrics, cfg CheckoutConfig) *CheckoutService {
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = defaultPaymentTimeout
	}
	cfg.ClientURL = strings.TrimRight(cfg.ClientURL, "/")
	return &CheckoutService{
		store:   store,
		gateway: gateway,
		metrics: m,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession snapshots the cart into a pending order, commits it and only
// then asks the provider for a session. If the provider fails the order is
// removed again.
func (s *CheckoutService) CreateSession(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	var (
		order *models.Order
		snap  *models.CartSnapshot
	)
	err := s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		var err error
		snap, err = buildSnapshot(ctx, repos, in.UserID, s.now())
		if err != nil {
			return err
		}
		if len(snap.Items) == 0 {
			return fmt.Errorf("checkout for user %s: %w", in.UserID, apperrors.ErrEmptyCart)
		}

		order = &models.Order{
			UserID:      in.UserID,
			TotalAmount: snap.TotalPrice,
			Status:      models.OrderStatusPending,
			Items:       make([]models.OrderItem, 0, len(snap.Items)),
		}
		for _, line := range snap.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.FinalPrice,
			})
		}
		return repos.Orders.CreateWithItems(ctx, order)
	})
	if err != nil {
		s.metrics.CheckoutSession(metrics.CheckoutFailed)
		return nil, err
	}

	session, err := s.openSession(ctx, order, snap)
	if err != nil {
		slog.ErrorContext(ctx, "payment session creation failed",
			"order_id", order.ID, "user_id", in.UserID, "error", err)
		s.compensate(ctx, order.ID)
		s.metrics.CheckoutSession(metrics.CheckoutProviderError)
		return nil, fmt.Errorf("%w: order %s: %v", apperrors.ErrPaymentProvider, order.ID, err)
	}

	if err := s.store.Repos().Orders.SetStripeSessionID(ctx, order.ID, session.ID); err != nil {
		// The webhook can still find the order through the order_id metadata.
		slog.ErrorContext(ctx, "failed to persist session id",
			"order_id", order.ID, "session_id", session.ID, "error", err)
	}

	slog.InfoContext(ctx, "checkout session created",
		"order_id", order.ID, "session_id", session.ID, "user_id", in.UserID, "total", order.TotalAmount.StringFixed(2))
	s.metrics.CheckoutSession(metrics.CheckoutCreated)
	return &CheckoutResult{
		RedirectURL: session.URL,
		SessionID:   session.ID,
		OrderID:     order.ID,
	}, nil
}

func (s *CheckoutService) openSession(ctx context.Context, order *models.Order, snap *models.CartSnapshot) (*payments.Session, error) {
	req := payments.SessionRequest{
		LineItems:  make([]payments.LineItem, 0, len(snap.Items)),
		SuccessURL: s.cfg.ClientURL + "/receipt?order_id=" + url.QueryEscape(order.ID),
		CancelURL:  s.cfg.ClientURL + "/cancel",
		Metadata: map[string]string{
			"user_id":  order.UserID,
			"order_id": order.ID,
		},
	}
	for _, line := range snap.Items {
		req.LineItems = append(req.LineItems, payments.LineItem{
			Name:            line.Name,
			UnitAmountMinor: line.FinalPrice.Shift(2).IntPart(),
			Quantity:        int64(line.Quantity),
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()
	return s.gateway.CreateCheckoutSession(callCtx, req)
}

// compensate deletes an order whose payment session never came to be. It
// runs detached from the request so a cancelled client does not leave the
// order behind.
func (s *CheckoutService) compensate(ctx context.Context, orderID string) {
	ctx = context.WithoutCancel(ctx)
	err := s.store.WithinTx(ctx, func(repos repositories.Repositories) error {
		return repos.Orders.Delete(ctx, orderID)
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to remove order after payment failure", "order_id", orderID, "error", err)
	}
}
