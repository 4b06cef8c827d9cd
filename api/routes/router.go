package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiu748/cafe-alya/api/controllers"
	employeecontrollers "github.com/poiu748/cafe-alya/api/controllers/employees"
	inventorycontrollers "github.com/poiu748/cafe-alya/api/controllers/inventory"
	loyaltycontrollers "github.com/poiu748/cafe-alya/api/controllers/loyalty"
	ordercontrollers "github.com/poiu748/cafe-alya/api/controllers/orders"
	"github.com/poiu748/cafe-alya/api/middleware"
	"github.com/poiu748/cafe-alya/internal/auth"
	"github.com/poiu748/cafe-alya/internal/dashboard"
	"github.com/poiu748/cafe-alya/internal/employees"
	"github.com/poiu748/cafe-alya/internal/inventory"
	"github.com/poiu748/cafe-alya/internal/loyalty"
	"github.com/poiu748/cafe-alya/internal/orders"
	"github.com/poiu748/cafe-alya/internal/products"
	"github.com/poiu748/cafe-alya/pkg/auth/session"
	"github.com/poiu748/cafe-alya/pkg/config"
	"github.com/poiu748/cafe-alya/pkg/logger"
	"github.com/poiu748/cafe-alya/pkg/metrics"
	pkgredis "github.com/poiu748/cafe-alya/pkg/redis"
)

// RedisStore is the slice of the Redis client the HTTP layer needs.
type RedisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Dependencies carries everything the router wires into handlers. Nil
// services make their routes answer INTERNAL_ERROR.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    RedisStore
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
	Location *time.Location
	Now      func() time.Time

	Auth      auth.Service
	Products  products.Service
	Orders    orders.Service
	Employees employees.Service
	Inventory inventory.Service
	Loyalty   loyalty.Service
	Dashboard dashboard.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTP),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(deps.Redis, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Use(idempotent)
				r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
				r.Get("/me", controllers.AuthMe(deps.Auth, logg))
				r.With(middleware.AdminOnly(logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			})
		})

		r.Route("/menu", func(r chi.Router) {
			r.Use(idempotent)
			r.Get("/", controllers.MenuGet(deps.Products, logg))
			r.Post("/orders", controllers.MenuPlaceOrder(deps.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(idempotent)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", controllers.DashboardStats(deps.Dashboard, logg))
				r.Get("/overview", controllers.DashboardOverview(deps.Dashboard, logg))
				r.Get("/revenue-trend", controllers.DashboardRevenueTrend(deps.Dashboard, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(deps.Products, logg))
				r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly(logg))
					r.Post("/", controllers.ProductCreate(deps.Products, logg))
					r.Patch("/{productId}", controllers.ProductUpdate(deps.Products, logg))
					r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, loc, logg))
				r.Post("/", ordercontrollers.Create(deps.Orders, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
				r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
				r.With(middleware.AdminOnly(logg)).Delete("/{orderId}", ordercontrollers.Delete(deps.Orders, logg))
			})

			r.Route("/employees", func(r chi.Router) {
				r.Post("/{employeeId}/clock-in", employeecontrollers.ClockIn(deps.Employees, deps.Now, logg))
				r.Post("/{employeeId}/clock-out", employeecontrollers.ClockOut(deps.Employees, deps.Now, logg))
				r.Get("/{employeeId}/time-entries", employeecontrollers.TimeEntries(deps.Employees, loc, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly(logg))
					r.Get("/", employeecontrollers.List(deps.Employees, logg))
					r.Post("/", employeecontrollers.Create(deps.Employees, logg))
					r.Get("/{employeeId}", employeecontrollers.Detail(deps.Employees, logg))
					r.Patch("/{employeeId}", employeecontrollers.Update(deps.Employees, logg))
					r.Delete("/{employeeId}", employeecontrollers.Delete(deps.Employees, logg))
				})
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventorycontrollers.List(deps.Inventory, logg))
				r.Get("/{itemId}", inventorycontrollers.Detail(deps.Inventory, logg))
				r.Get("/{itemId}/movements", inventorycontrollers.Movements(deps.Inventory, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly(logg))
					r.Post("/", inventorycontrollers.Create(deps.Inventory, logg))
					r.Patch("/{itemId}", inventorycontrollers.Update(deps.Inventory, logg))
					r.Delete("/{itemId}", inventorycontrollers.Delete(deps.Inventory, logg))
					r.Post("/{itemId}/stock/add", inventorycontrollers.AddStock(deps.Inventory, logg))
					r.Post("/{itemId}/stock/remove", inventorycontrollers.RemoveStock(deps.Inventory, logg))
				})
			})

			r.Route("/loyalty/cards", func(r chi.Router) {
				r.Use(middleware.AdminOnly(logg))
				r.Get("/", loyaltycontrollers.List(deps.Loyalty, logg))
				r.Post("/", loyaltycontrollers.Create(deps.Loyalty, logg))
				r.Get("/by-phone/{phone}", loyaltycontrollers.ByPhone(deps.Loyalty, logg))
				r.Get("/{cardId}", loyaltycontrollers.Detail(deps.Loyalty, logg))
				r.Patch("/{cardId}", loyaltycontrollers.Update(deps.Loyalty, logg))
				r.Delete("/{cardId}", loyaltycontrollers.Delete(deps.Loyalty, logg))
				r.Post("/{cardId}/points", loyaltycontrollers.AddPoints(deps.Loyalty, logg))
				r.Post("/{cardId}/redeem", loyaltycontrollers.Redeem(deps.Loyalty, logg))
				r.Get("/{cardId}/transactions", loyaltycontrollers.Transactions(deps.Loyalty, logg))
			})
		})
	})

	return r
}

func readinessDeps(deps Dependencies) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.DB != nil {
		out["postgres"] = deps.DB
	}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
