// Package function adapts the API for function-per-request runtimes: the
// whole dependency graph is built once, on the first request, and every
// invocation after that reuses the same router.
package function

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/api/routes"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/assignments"
	"github.com/replyhub/replyhub-backend/internal/auth"
	"github.com/replyhub/replyhub-backend/internal/reviews"
	"github.com/replyhub/replyhub-backend/internal/rules"
	"github.com/replyhub/replyhub-backend/internal/stats"
	"github.com/replyhub/replyhub-backend/internal/stores"
	"github.com/replyhub/replyhub-backend/internal/users"
	"github.com/replyhub/replyhub-backend/pkg/auth/session"
	"github.com/replyhub/replyhub-backend/pkg/config"
	"github.com/replyhub/replyhub-backend/pkg/db"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
	"github.com/replyhub/replyhub-backend/pkg/metrics"
	"github.com/replyhub/replyhub-backend/pkg/redis"
)

var (
	initOnce sync.Once
	router   http.Handler
	initErr  error
	logg     *logger.Logger
)

// ReplyHub is the exported entrypoint for the function runtime. Upstream
// failures surface to the caller; there are no degraded fallbacks.
func ReplyHub(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(bootstrap)
	if initErr != nil {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.Wrap(pkgerrors.CodeDependency, initErr, "service initialization failed"))
		return
	}
	router.ServeHTTP(w, r)
}

func bootstrap() {
	logg = logger.New(logger.Options{ServiceName: "function"})

	cfg, err := config.Load()
	if err != nil {
		initErr = fmt.Errorf("load config: %w", err)
		return
	}

	logg = logger.New(logger.Options{
		ServiceName: "function",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	router, initErr = buildRouter(context.Background(), cfg, logg)
}

func buildRouter(ctx context.Context, cfg *config.Config, logg *logger.Logger) (http.Handler, error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap redis: %w", err)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	userRepo := users.NewRepository(dbClient.DB())
	assignmentsRepo := assignments.NewRepository(dbClient.DB())
	storesRepo := stores.NewRepository(dbClient.DB())
	rulesRepo := rules.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        userRepo,
		AssignmentsRepo: assignmentsRepo,
		SessionManager:  sessionManager,
		TxRunner:        dbClient,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	accessService, err := access.NewService(assignmentsRepo, storesRepo, rulesRepo)
	if err != nil {
		return nil, fmt.Errorf("create access service: %w", err)
	}

	assignmentsService, err := assignments.NewService(assignmentsRepo, userRepo, dbClient)
	if err != nil {
		return nil, fmt.Errorf("create assignments service: %w", err)
	}

	reviewsService, err := reviews.NewService(reviewsRepo)
	if err != nil {
		return nil, fmt.Errorf("create reviews service: %w", err)
	}

	rulesService, err := rules.NewService(rulesRepo)
	if err != nil {
		return nil, fmt.Errorf("create rules service: %w", err)
	}

	statsService, err := stats.NewService(reviewsRepo)
	if err != nil {
		return nil, fmt.Errorf("create stats service: %w", err)
	}

	registry := prometheus.NewRegistry()
	reqMetrics := metrics.NewRequestMetrics(registry)

	return routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		sessionManager,
		reqMetrics,
		registry,
		authService,
		accessService,
		assignmentsService,
		reviewsService,
		rulesService,
		statsService,
	), nil
}
