package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/internal/dashboard"
	"github.com/poiu748/cafe-alya/internal/events"
	"github.com/poiu748/cafe-alya/internal/orders"
	"github.com/poiu748/cafe-alya/internal/products"
	"github.com/poiu748/cafe-alya/internal/reporting"
	pkgAuth "github.com/poiu748/cafe-alya/pkg/auth"
	"github.com/poiu748/cafe-alya/pkg/auth/session"
	"github.com/poiu748/cafe-alya/pkg/config"
	"github.com/poiu748/cafe-alya/pkg/enums"
	"github.com/poiu748/cafe-alya/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProducts struct {
	products.Service
}

func (stubProducts) Menu(ctx context.Context) ([]products.MenuSection, error) {
	return []products.MenuSection{}, nil
}

type stubOrders struct {
	orders.Service

	created int
}

func (s *stubOrders) Create(ctx context.Context, input orders.CreateOrderInput, actor *events.ActorRef) (*orders.OrderDTO, error) {
	s.created++
	return &orders.OrderDTO{ID: uuid.New()}, nil
}

type stubDashboard struct{}

func (stubDashboard) Stats(ctx context.Context) (*reporting.DashboardStats, error) {
	return &reporting.DashboardStats{}, nil
}

func (stubDashboard) Overview(ctx context.Context) (*reporting.DashboardStats, error) {
	return &reporting.DashboardStats{}, nil
}

func (stubDashboard) RevenueTrend(ctx context.Context, days int) ([]reporting.RevenuePoint, error) {
	return []reporting.RevenuePoint{}, nil
}

var _ dashboard.Service = stubDashboard{}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:5173"}},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "cafe-alya", ExpirationMinutes: 15},
	}
}

func newTestRouter(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	if deps.Sessions == nil {
		deps.Sessions = stubSessions{}
	}
	return NewRouter(testConfig(), nil, deps)
}

func bearer(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "alya",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, Dependencies{DB: stubPinger{}})

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "postgres")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	router := newTestRouter(t, Dependencies{Gatherer: reg, HTTP: httpMetrics})

	serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "cafe_http_requests_total")
}

func TestMenuIsPublic(t *testing.T) {
	ordersSvc := &stubOrders{}
	router := newTestRouter(t, Dependencies{Products: stubProducts{}, Orders: ordersSvc})

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	body := `{"customerName":"Inès","items":[{"productId":"` + uuid.NewString() + `","quantity":1}]}`
	resp = serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/menu/orders", strings.NewReader(body)))
	assert.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, 1, ordersSvc.created)
}

func TestDashboardRequiresAuth(t *testing.T) {
	router := newTestRouter(t, Dependencies{Dashboard: stubDashboard{}})

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req.Header.Set("Authorization", bearer(t, enums.UserRoleEmployee))
	resp = serve(router, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/products"},
		{http.MethodGet, "/api/v1/employees"},
		{http.MethodPost, "/api/v1/inventory"},
		{http.MethodGet, "/api/v1/loyalty/cards"},
		{http.MethodDelete, "/api/v1/orders/" + uuid.NewString()},
		{http.MethodPost, "/api/v1/auth/register"},
	}
	for _, target := range targets {
		t.Run(target.method+" "+target.path, func(t *testing.T) {
			req := httptest.NewRequest(target.method, target.path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", bearer(t, enums.UserRoleEmployee))
			resp := serve(router, req)
			assert.Equal(t, http.StatusForbidden, resp.Code)

			req = httptest.NewRequest(target.method, target.path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", bearer(t, enums.UserRoleAdmin))
			resp = serve(router, req)
			assert.NotEqual(t, http.StatusForbidden, resp.Code)
			assert.NotEqual(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/menu", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := serve(router, req)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
}
