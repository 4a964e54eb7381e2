package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/api/operations_service_api"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/operations"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"
)

// App is the fully wired service.
type App struct {
	Router     *gin.Engine
	GRPC       *grpc.Server
	Dispatcher *operations.Dispatcher
	Metrics    *metrics.Metrics

	closers []func() error
}

type AppOption func(*appOptions)

type appOptions struct {
	migrate bool
}

// WithMigrations applies pending migrations before serving. Postgres only.
func WithMigrations(enabled bool) AppOption {
	return func(o *appOptions) {
		o.migrate = enabled
	}
}

// NewApp builds the store, optional cache and event producer, services and
// transports from cfg. Close releases everything it opened.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...AppOption) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{}
	checks := map[string]api.HealthCheck{}

	store, err := app.openStore(ctx, cfg, o, checks)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	flightOpts := []flights.FlightServiceOption{flights.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTLDuration())
		app.closers = append(app.closers, redisCache.Close)
		checks["redis"] = redisCache.Ping
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
	}

	bookingOpts := []booking.BookingServiceOption{
		booking.WithUserDirectory(store.Users),
		booking.WithOwnershipCheck(cfg.Booking.EnforceCancelOwnership),
		booking.WithLogger(logger),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		app.closers = append(app.closers, producer.Close)
		checks["kafka"] = producer.CheckConnection
		bookingOpts = append(bookingOpts,
			booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
			booking.WithPublishTimeout(cfg.Kafka.PublishTimeout()),
		)
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	flightService := flights.NewFlightService(store.Flights, flightOpts...)
	services := operations.Services{
		Flights: flightService,
		Users: users.NewUserService(store.Users, issuer, users.TokenHours(cfg.Auth.TokenTTLMinutes),
			users.WithBcryptCost(cfg.Auth.BcryptCost),
			users.WithLogger(logger),
		),
		Bookings: booking.NewBookingService(store.Bookings, bookingOpts...),
	}

	app.Metrics = metrics.New()
	app.Dispatcher = operations.NewDispatcher(services,
		operations.WithLogger(logger),
		operations.WithObserver(app.Metrics),
	)

	resolver := auth.NewResolver(issuer, logger)
	app.Router = api.NewRouter(api.Deps{
		Executor:     app.Dispatcher,
		Flights:      flightService,
		Resolver:     resolver,
		Logger:       logger,
		Metrics:      app.Metrics,
		HealthChecks: checks,
	})
	if cfg.GRPC.Address != "" {
		app.GRPC = operations_service_api.NewGRPCServer(app.Dispatcher, resolver, logger)
	}

	logger.Info(ctx, "application wired",
		"storage", cfg.Storage.Driver,
		"cache", cfg.Redis.Addr != "",
		"events", len(cfg.Kafka.Brokers) > 0,
		"grpc", app.GRPC != nil,
	)
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, o appOptions, checks map[string]api.HealthCheck) (*repository.Store, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return repository.NewMemoryStore(), nil
	}

	pool, err := OpenPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	checks["postgres"] = pool.Ping

	if o.migrate {
		if err := repository.MigrateUp(ctx, pool); err != nil {
			return nil, err
		}
	}
	return repository.NewPostgresStore(pool), nil
}

// OpenPool creates a lazily connecting pgx pool for cfg.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
