package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"cycle-kart/internal/model"
	"cycle-kart/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const testSession = "session-1"

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context) []model.Product {
	args := m.Called(ctx)
	return args.Get(0).([]model.Product)
}

func (m *MockCatalogService) Get(ctx context.Context, id int) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, sessionID string, productID, quantity int) (model.Notification, error) {
	args := m.Called(ctx, sessionID, productID, quantity)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *MockCartService) Update(ctx context.Context, sessionID string, productID, quantity int) (model.Notification, error) {
	args := m.Called(ctx, sessionID, productID, quantity)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, sessionID string, productID int) (model.Notification, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCartService) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCartService) Count(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, sessionID string) (model.CartView, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.CartView), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, sessionID string) (model.CartView, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.CartView), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, sessionID string) (*model.Receipt, model.Notification, error) {
	args := m.Called(ctx, sessionID)
	var receipt *model.Receipt
	if r, ok := args.Get(0).(*model.Receipt); ok {
		receipt = r
	}
	return receipt, args.Get(1).(model.Notification), args.Error(2)
}

// MockFlashService is a mock implementation of FlashService.
type MockFlashService struct {
	mock.Mock
}

func (m *MockFlashService) Push(ctx context.Context, sessionID string, n model.Notification) error {
	args := m.Called(ctx, sessionID, n)
	return args.Error(0)
}

func (m *MockFlashService) Pop(ctx context.Context, sessionID string) ([]model.Notification, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

// newRequest builds a request bound to testSession with an optional {id}
// path value and form body.
func newRequest(method, target, id string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req.WithContext(session.WithID(req.Context(), testSession))
}
