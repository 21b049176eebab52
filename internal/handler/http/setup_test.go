package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michael-Parekh/proshop/internal/auth"
	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/repository"
	"github.com/Michael-Parekh/proshop/internal/service"
	"github.com/Michael-Parekh/proshop/internal/storage/memory"
	"github.com/Michael-Parekh/proshop/pkg/health"
	"github.com/Michael-Parekh/proshop/pkg/httputil"
	"github.com/Michael-Parekh/proshop/pkg/middleware"
)

const testSecret = "test-secret"

// --- Mock User Repository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Product Repository ---

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, params repository.ListProductsParams) ([]domain.Product, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) GetTop(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Replace(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) AddReview(ctx context.Context, productID primitive.ObjectID, review domain.Review) error {
	args := m.Called(ctx, productID, review)
	return args.Error(0)
}

// --- Mock Order Repository ---

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, result domain.PaymentResult, paidAt time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, result, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) MarkDelivered(ctx context.Context, id primitive.ObjectID, deliveredAt time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, deliveredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// --- Test Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	router    http.Handler
	userRepo  *mockUserRepo
	products  *mockProductRepo
	orders    *mockOrderRepo
	tokens    *auth.TokenManager
	store     *memory.Storage
}

// newTestEnv builds the production router over mock repositories.
func newTestEnv() *testEnv {
	logger := testLogger()
	userRepo := new(mockUserRepo)
	productRepo := new(mockProductRepo)
	orderRepo := new(mockOrderRepo)
	store := memory.New("/uploads")
	tokens := auth.NewTokenManager(testSecret, time.Hour)

	validate := func(_ context.Context, token string) (*middleware.Claims, error) {
		claims, err := tokens.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:  claims.UserID,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		}, nil
	}

	router := NewRouter(RouterConfig{
		UserService:    service.NewUserService(userRepo, tokens, nil, logger),
		ProductService: service.NewProductService(productRepo, userRepo, nil, nil, logger),
		OrderService:   service.NewOrderService(orderRepo, nil, nil, logger),
		UploadService:  service.NewUploadService(store, logger),
		TokenValidator: validate,
		HealthHandler:  health.NewHandler(),
		Logger:         logger,
		CORS:           middleware.DefaultCORSConfig(),
		PayPalClientID: "sb",
	})

	return &testEnv{
		router:    router,
		userRepo:  userRepo,
		products:  productRepo,
		orders:    orderRepo,
		tokens:    tokens,
		store:     store,
	}
}

// tokenFor issues a session token for the given identity.
func (e *testEnv) tokenFor(t *testing.T, userID primitive.ObjectID, isAdmin bool) string {
	t.Helper()
	token, err := e.tokens.Generate(userID.Hex(), "user@example.com", isAdmin)
	require.NoError(t, err)
	return token
}

// do executes a JSON request against the router.
func (e *testEnv) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeResp reads the response body into an httputil.Response.
func decodeResp(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
