package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/roomreserve-backend/api/controllers"
	"github.com/angelmondragon/roomreserve-backend/api/middleware"
	"github.com/angelmondragon/roomreserve-backend/internal/auth"
	"github.com/angelmondragon/roomreserve-backend/internal/bookings"
	"github.com/angelmondragon/roomreserve-backend/internal/rooms"
	"github.com/angelmondragon/roomreserve-backend/internal/users"
	"github.com/angelmondragon/roomreserve-backend/pkg/auth/session"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
	"github.com/angelmondragon/roomreserve-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/roomreserve-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Revoke(context.Context, string) error
}

// Dependencies lists everything the router wires into handlers. Nil stores
// disable rate limiting and idempotency replay.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Checks   map[string]controllers.Pinger
	Sessions sessionManager

	RateLimits  middleware.RateLimitStore
	Idempotency pkgredis.IdempotencyStore

	Auth     auth.Service
	Register auth.RegisterService
	Refresh  auth.RefreshService
	Rooms    rooms.Service
	Bookings bookings.Service
	Users    users.Service

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)
	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Checks))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, deps.RateLimits, logg), idempotent).Post("/signup", controllers.AuthSignup(deps.Register, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Refresh, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/rooms", controllers.RoomsList(deps.Rooms, logg))
		r.Get("/rooms/{roomId}", controllers.RoomsGet(deps.Rooms, logg))

		r.Get("/bookings", controllers.BookingsList(deps.Bookings, logg))
		r.Get("/bookings/{bookingId}", controllers.BookingsGet(deps.Bookings, logg))
		r.With(idempotent).Post("/bookings", controllers.BookingsCreate(deps.Bookings, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.With(idempotent).Post("/rooms", controllers.RoomsCreate(deps.Rooms, logg))
			r.Put("/rooms/{roomId}", controllers.RoomsUpdate(deps.Rooms, logg))
			r.Delete("/rooms/{roomId}", controllers.RoomsDelete(deps.Rooms, logg))

			r.Patch("/bookings/{bookingId}/status", controllers.BookingsUpdateStatus(deps.Bookings, logg))

			r.Get("/admin/users", controllers.AdminUsersList(deps.Users, logg))
			r.Post("/admin/users/{userId}/approve", controllers.AdminUsersApprove(deps.Users, logg))
			r.Post("/admin/users/{userId}/deny", controllers.AdminUsersDeny(deps.Users, logg))
			r.Delete("/admin/users/{userId}", controllers.AdminUsersDelete(deps.Users, logg))
		})
	})

	return r
}
