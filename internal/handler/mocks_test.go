package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sudhamrit-be/internal/admin"
	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/cart"
	"sudhamrit-be/internal/category"
	"sudhamrit-be/internal/dashboard"
	"sudhamrit-be/internal/location"
	"sudhamrit-be/internal/order"
	"sudhamrit-be/internal/product"
	"sudhamrit-be/internal/user"
	"sudhamrit-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (user.User, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (user.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uint) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) Register(ctx context.Context, input admin.RegisterInput) (admin.Admin, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(admin.Admin), args.Error(1)
}

func (m *MockAdminService) Login(ctx context.Context, email, password string) (admin.Admin, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(admin.Admin), args.Error(1)
}

func (m *MockAdminService) GetByID(ctx context.Context, id uint) (admin.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(admin.Admin), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, includeInactive bool) ([]product.Product, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id uint, includeInactive bool) (product.Product, error) {
	args := m.Called(ctx, id, includeInactive)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.Input) (product.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uint, input product.Input) (product.Product, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uint) (product.DeleteOutcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(product.DeleteOutcome), args.Error(1)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context, filter string) ([]category.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]category.Category), args.Error(1)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) AddItem(ctx context.Context, userID, productID uint) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (cart.Totals, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Get(0).(cart.Totals), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, userID, productID uint) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockCartService) List(ctx context.Context, userID uint) (cart.View, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(cart.View), args.Error(1)
}

type MockCheckout struct{ mock.Mock }

func (m *MockCheckout) Initiate(ctx context.Context, userID uint) (*order.Intent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Intent), args.Error(1)
}

func (m *MockCheckout) Confirm(ctx context.Context, userID uint, intent order.Intent, paymentID, signature string) (*order.Receipt, error) {
	args := m.Called(ctx, userID, intent, paymentID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Receipt), args.Error(1)
}

func (m *MockCheckout) ConfirmOffline(ctx context.Context, userID uint, method string) (*order.Receipt, error) {
	args := m.Called(ctx, userID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Receipt), args.Error(1)
}

func (m *MockCheckout) Fail(ctx context.Context, userID uint, intent *order.Intent, reason string) {
	m.Called(ctx, userID, intent, reason)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) ListForUser(ctx context.Context, userID uint) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetForUser(ctx context.Context, orderID, userID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context, limit int) ([]order.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) MarkDelivered(ctx context.Context, orderID uint) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockDashboard struct{ mock.Mock }

func (m *MockDashboard) View(ctx context.Context) dashboard.View {
	return m.Called(ctx).Get(0).(dashboard.View)
}

type MockLocationService struct{ mock.Mock }

func (m *MockLocationService) Save(ctx context.Context, userID uint, address string) (*location.Location, error) {
	args := m.Called(ctx, userID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*location.Location), args.Error(1)
}

func (m *MockLocationService) List(ctx context.Context, userID uint) ([]location.Location, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]location.Location), args.Error(1)
}

type stubPinger struct{ err error }

func (s stubPinger) PingContext(ctx context.Context) error { return s.err }

type testServer struct {
	router     *chi.Mux
	tokens     *auth.TokenManager
	users      *MockUserService
	admins     *MockAdminService
	products   *MockProductService
	categories *MockCategoryService
	carts      *MockCartService
	checkout   *MockCheckout
	orders     *MockOrderService
	dashboard  *MockDashboard
	locations  *MockLocationService
}

func newTestServer(t *testing.T, dbErr error) *testServer {
	t.Helper()

	ts := &testServer{
		tokens:     auth.NewTokenManager("handler-test-secret", time.Hour),
		users:      new(MockUserService),
		admins:     new(MockAdminService),
		products:   new(MockProductService),
		categories: new(MockCategoryService),
		carts:      new(MockCartService),
		checkout:   new(MockCheckout),
		orders:     new(MockOrderService),
		dashboard:  new(MockDashboard),
		locations:  new(MockLocationService),
	}

	h := New(Deps{
		Tokens:     ts.tokens,
		Users:      ts.users,
		Admins:     ts.admins,
		Products:   ts.products,
		Categories: ts.categories,
		Carts:      ts.carts,
		Checkout:   ts.checkout,
		Orders:     ts.orders,
		Dashboard:  ts.dashboard,
		Locations:  ts.locations,
		DB:         stubPinger{err: dbErr},
	})
	ts.router = NewRouter(h, RouterConfig{
		Tokens:     ts.tokens,
		CORSOrigin: "http://localhost:3000",
	})
	return      ts
}

func (ts *testServer) sessionCookie(t *testing.T, p auth.Principal) *http.Cookie {
	t.Helper()
	token, _, err := ts.tokens.Issue(p)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.AccessTokenCookie, Value: token}
}

func (ts *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Envelope {
	t.Helper()
	var env utils.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var (
	customerP = auth.Principal{Kind: auth.KindCustomer, ID: 5, Name: "ravi", Email: "ravi@example.com"}
	adminP    = auth.Principal{Kind: auth.KindAdmin, ID: 1, Name: "owner", Email: "owner@sudhamrit.in"}
)
