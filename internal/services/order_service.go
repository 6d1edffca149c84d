package services

import (
	"context"
	"fmt"

	"shop/internal/apperrors"
	"shop/internal/models"
	"shop/internal/repositories"
)

// OrderQuery filters and pages an order listing.
type OrderQuery struct {
	UserID string
	Status models.OrderStatus
	repositories.Pagination
}

// OrderService handles read access to orders. Orders are created by
// CheckoutService and finalized by PaymentService.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListUserOrders returns one page of the user's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, q OrderQuery) (repositories.Page[models.Order], error) {
	q.UserID = userID
	return s.list(ctx, q)
}

// ListAllOrders returns one page of every user's orders.
func (s *OrderService) ListAllOrders(ctx context.Context, q OrderQuery) (repositories.Page[models.Order], error) {
	return s.list(ctx, q)
}

func (s *OrderService) list(ctx context.Context, q OrderQuery) (repositories.Page[models.Order], error) {
	if q.Status != "" && !q.Status.Valid() {
		return repositories.Page[models.Order]{}, fmt.Errorf("invalid order status: %s: %w", q.Status, apperrors.ErrValidation)
	}
	orders, total, err := s.orderRepo.List(ctx, repositories.OrderFilter{UserID: q.UserID, Status: q.Status}, q.Pagination)
	if err != nil {
		return repositories.Page[models.Order]{}, err
	}
	return repositories.NewPage(q.Pagination, total, orders), nil
}

// GetOrderDetails returns an order with its items. Only the owner or an
// admin may read it.
func (s *OrderService) GetOrderDetails(ctx context.Context, orderID, userID, role string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("order %s does not belong to user %s: %w", orderID, userID, apperrors.ErrForbidden)
	}
	return order, nil
}
