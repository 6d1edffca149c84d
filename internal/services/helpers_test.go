package services_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/testutil"
	"shop/pkg/payments"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockGateway is a mock implementation of services.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Session), args.Error(1)
}

func (m *MockGateway) ParseEvent(payload []byte, signature string) (*payments.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Event), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

type fixture struct {
	db    *gorm.DB
	store *repositories.GORMStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{db: db, store: repositories.NewGORMStore(db)}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedUser(t *testing.T, store repositories.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, store.Repos().Users.Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, store repositories.Store, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: dec(price), Stock: 10}
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))
	return p
}

// seedActiveSale creates a sale window around now.
func seedActiveSale(t *testing.T, store repositories.Store, productID, discount string) *models.SaleItem {
	t.Helper()
	now := time.Now().UTC()
	return seedSale(t, store, productID, discount, now.Add(-time.Hour), now.Add(time.Hour))
}

func seedSale(t *testing.T, store repositories.Store, productID, discount string, start, end time.Time) *models.SaleItem {
	t.Helper()
	s := &models.SaleItem{ProductID: productID, DiscountPercent: dec(discount), StartDate: start, EndDate: end}
	require.NoError(t, store.Repos().Sales.Create(context.Background(), s))
	return s
}

func addToCart(t *testing.T, store repositories.Store, userID, productID string, qty int) {
	t.Helper()
	require.NoError(t, store.Repos().Carts.Upsert(context.Background(), &models.CartItem{
		UserID: userID, ProductID: productID, Quantity: qty,
	}))
}

