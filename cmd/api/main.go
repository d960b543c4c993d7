package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/roomreserve-backend/api/controllers"
	"github.com/angelmondragon/roomreserve-backend/api/routes"
	"github.com/angelmondragon/roomreserve-backend/internal/auth"
	"github.com/angelmondragon/roomreserve-backend/internal/bookings"
	"github.com/angelmondragon/roomreserve-backend/internal/rooms"
	"github.com/angelmondragon/roomreserve-backend/internal/users"
	"github.com/angelmondragon/roomreserve-backend/pkg/auth/session"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"github.com/angelmondragon/roomreserve-backend/pkg/db"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
	"github.com/angelmondragon/roomreserve-backend/pkg/metrics"
	"github.com/angelmondragon/roomreserve-backend/pkg/migrate"
	"github.com/angelmondragon/roomreserve-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
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
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := dbClient.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	reservationMetrics := metrics.NewReservationMetrics(registry)

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	refreshService, err := auth.NewRefreshService(auth.RefreshServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}
	adminService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	if _, err := adminService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		return err
	}

	roomsService, err := rooms.NewService(rooms.ServiceParams{
		Repo:   rooms.NewRepository(conn),
		TX:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return err
	}
	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		Repo:    bookings.NewRepository(conn),
		TX:      dbClient,
		Logger:  logg,
		Metrics: reservationMetrics,
	})
	if err != nil {
		return err
	}
	usersService, err := users.NewService(users.ServiceParams{
		Repo:    userRepo,
		TX:      dbClient,
		Logger:  logg,
		Metrics: reservationMetrics,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		Logger: logg,
		Checks: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Sessions:       sessionManager,
		RateLimits:     redisClient,
		Idempotency:    redisClient,
		Auth:           authService,
		Register:       registerService,
		Refresh:        refreshService,
		Rooms:          roomsService,
		Bookings:       bookingsService,
		Users:          usersService,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
