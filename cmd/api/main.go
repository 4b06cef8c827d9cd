package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/poiu748/cafe-alya/api/routes"
	"github.com/poiu748/cafe-alya/internal/auth"
	"github.com/poiu748/cafe-alya/internal/dashboard"
	"github.com/poiu748/cafe-alya/internal/employees"
	"github.com/poiu748/cafe-alya/internal/events"
	"github.com/poiu748/cafe-alya/internal/inventory"
	"github.com/poiu748/cafe-alya/internal/loyalty"
	"github.com/poiu748/cafe-alya/internal/orders"
	"github.com/poiu748/cafe-alya/internal/products"
	"github.com/poiu748/cafe-alya/internal/users"
	"github.com/poiu748/cafe-alya/pkg/auth/session"
	"github.com/poiu748/cafe-alya/pkg/config"
	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/logger"
	"github.com/poiu748/cafe-alya/pkg/metrics"
	"github.com/poiu748/cafe-alya/pkg/migrate"
	"github.com/poiu748/cafe-alya/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve timezone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	publisher, closePublisher, err := newPublisher(context.Background(), cfg.RabbitMQ, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to connect to rabbitmq", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(closePublisher(), redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	deps, err := buildServices(cfg, logg, loc, dbClient, redisClient, sessionManager, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	created, err := deps.Auth.EnsureBootstrapAdmin(context.Background(), cfg.BootstrapAdmin)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap admin", err)
		os.Exit(1)
	}
	if created {
		logg.Info(logg.WithField(context.Background(), "username", cfg.BootstrapAdmin.Username), "bootstrap admin ready")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Gatherer = registry
	deps.HTTP = metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": loc.String(),
		"rabbitmq": cfg.RabbitMQ.Enabled(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	loc *time.Location,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	publisher events.Publisher,
) (routes.Dependencies, error) {
	gdb := dbClient.DB()
	now := time.Now

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gdb),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
		Now:            now,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	productService, err := products.NewService(products.NewRepository(gdb), now)
	if err != nil {
		return routes.Dependencies{}, err
	}

	ordersRepo := orders.NewRepository(gdb)
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      ordersRepo,
		Products:  productService,
		Tx:        dbClient,
		Sequencer: redisClient,
		Publisher: publisher,
		Logger:    logg,
		Location:  loc,
		Now:       now,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	employeeService, err := employees.NewService(employees.NewRepository(gdb), dbClient, now)
	if err != nil {
		return routes.Dependencies{}, err
	}

	inventoryRepo := inventory.NewRepository(gdb)
	inventoryService, err := inventory.NewService(inventoryRepo, dbClient, publisher, logg, now)
	if err != nil {
		return routes.Dependencies{}, err
	}

	loyaltyService, err := loyalty.NewService(loyalty.NewRepository(gdb), dbClient, now)
	if err != nil {
		return routes.Dependencies{}, err
	}

	dashboardService, err := dashboard.NewService(
		dashboard.NewOrderSource(ordersRepo),
		dashboard.NewInventorySource(inventoryRepo),
		loc,
		now,
	)
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:        dbClient,
		Redis:     redisClient,
		Sessions:  sessionManager,
		Location:  loc,
		Now:       now,
		Auth:      authService,
		Products:  productService,
		Orders:    orderService,
		Employees: employeeService,
		Inventory: inventoryService,
		Loyalty:   loyaltyService,
		Dashboard: dashboardService,
	}, nil
}

// newPublisher connects to RabbitMQ when configured and otherwise falls back
// to logging events.
func newPublisher(ctx context.Context, cfg config.RabbitMQConfig, logg *logger.Logger) (events.Publisher, func() error, error) {
	if !cfg.Enabled() {
		logg.Warn(ctx, "rabbitmq disabled, events will only be logged")
		return events.NewLogPublisher(logg), func() error { return nil }, nil
	}
	publisher, err := events.DialRabbitMQ(ctx, cfg, logg)
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}
