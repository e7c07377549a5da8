package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/replyhub/replyhub-backend/api/controllers"
	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/assignments"
	"github.com/replyhub/replyhub-backend/internal/auth"
	"github.com/replyhub/replyhub-backend/internal/reviews"
	"github.com/replyhub/replyhub-backend/internal/rules"
	"github.com/replyhub/replyhub-backend/internal/stats"
	"github.com/replyhub/replyhub-backend/pkg/auth/session"
	"github.com/replyhub/replyhub-backend/pkg/config"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	"github.com/replyhub/replyhub-backend/pkg/logger"
	"github.com/replyhub/replyhub-backend/pkg/metrics"
	"github.com/replyhub/replyhub-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	reqMetrics *metrics.RequestMetrics,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	accessService access.Service,
	assignmentsService assignments.Service,
	reviewsService reviews.Service,
	rulesService rules.Service,
	statsService stats.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(reqMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	authGate := middleware.AuthGate(middleware.AuthGateDeps{
		JWTConfig:    cfg.JWT,
		CookieConfig: cfg.Cookie,
		Auth:         authService,
		Sessions:     sessionChecker,
		Metrics:      reqMetrics,
		Logger:       logg,
	})
	operatorOrAdmin := middleware.RequireRoles(logg, accessService, enums.RoleOperator, enums.RoleAdmin)
	storeScoped := middleware.RequireStoreAccess(logg, accessService)

	signinLimit := middleware.AuthRateLimit(middleware.SigninRateLimitPolicy(cfg.AuthRateLimit), redisClient, logg)
	signupLimit := middleware.AuthRateLimit(middleware.SignupRateLimitPolicy(cfg.AuthRateLimit), redisClient, logg)

	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, cachePinger, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(signupLimit).Post("/signup", controllers.AuthSignup(authService, cfg.Cookie, logg))
		r.With(signinLimit).Post("/signin", controllers.AuthSignin(authService, cfg.Cookie, logg))
		r.Post("/signout", controllers.AuthSignout(authService, cfg.Cookie, logg))
		r.Post("/refresh-token", controllers.AuthRefreshToken(authService, cfg.Cookie, logg))
		r.With(authGate).Get("/user", controllers.AuthCurrentUser(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authGate)

		r.Put("/user", controllers.UserUpdateProfile(authService, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Get("/user/{userID}/stores", controllers.StoresForUser(authService, accessService, logg))
			r.With(operatorOrAdmin).Post("/assignments", controllers.ReplaceAssignments(assignmentsService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.With(storeScoped).Get("/", controllers.ReviewsList(reviewsService, logg))
			r.Post("/", controllers.ReviewsCreate(reviewsService, accessService, logg))
		})

		r.Route("/rules", func(r chi.Router) {
			r.With(operatorOrAdmin).Get("/", controllers.RulesList(rulesService, logg))
			r.Get("/{id}", controllers.RulesGet(rulesService, accessService, logg))
			r.Put("/{id}", controllers.RulesUpdate(rulesService, accessService, logg))
		})

		r.With(storeScoped).Get("/stats/details", controllers.StatsDetails(statsService, logg))
	})

	return r
}
