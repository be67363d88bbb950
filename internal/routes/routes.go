// Package routes defines the API routing configuration.
package routes

import (
	"context"
	"time"

	"gigpay/internal/config"
	"gigpay/internal/handlers"
	"gigpay/internal/logger"
	"gigpay/internal/metrics"
	"gigpay/internal/middleware"
	"gigpay/internal/repositories"
	"gigpay/internal/repositories/cache"
	"gigpay/internal/services/access"
	"gigpay/internal/services/auth"
	"gigpay/internal/services/balance"
	"gigpay/internal/services/transfer"
	"gigpay/internal/utils/response"
	"gigpay/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Deps carries the process-wide resources the routes are built from. Cache
// may be nil, in which case profiles are always read from the database.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Cache   *cache.CacheService
	Metrics *metrics.Collector
	Logger  *logger.Logger
}

// SetupRoutes wires repositories, services and handlers onto app.
func SetupRoutes(app *fiber.App, deps Deps) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NewCollector()
	}

	// Repositories
	accounts := repositories.NewAccountRepository(deps.DB)
	jobs := repositories.NewJobRepository(deps.DB)
	contracts := repositories.NewContractRepository(deps.DB)
	ledger := repositories.NewLedgerRepository(deps.DB)
	transactor := repositories.NewTransactor(deps.DB)

	// Services
	var (
		transferCache transfer.ProfileCache
		balanceCache  balance.ProfileCache
		authCache     auth.ProfileCache
	)
	if deps.Cache != nil {
		transferCache, balanceCache, authCache = deps.Cache, deps.Cache, deps.Cache
	}

	guard := access.NewGuard(jobs, contracts, log)
	transferService := transfer.NewService(transfer.Dependencies{
		Guard:      guard,
		Accounts:   accounts,
		Jobs:       jobs,
		Ledger:     ledger,
		Transactor: transactor,
		Cache:      transferCache,
		Metrics:    collector,
		Logger:     log,
	}, transfer.Config{Timeout: deps.Config.TransferTimeout})
	balanceService := balance.NewService(balance.Dependencies{
		Accounts:   accounts,
		Jobs:       jobs,
		Ledger:     ledger,
		Transactor: transactor,
		Cache:      balanceCache,
		Metrics:    collector,
		Logger:     log,
	}, deps.Config.TransferTimeout)
	authService := auth.NewService(accounts, authCache, deps.Config.JWTSecret, deps.Config.TokenTTL, log)

	// Handlers
	v := validation.New()
	jobHandler := handlers.NewJobHandler(transferService)
	balanceHandler := handlers.NewBalanceHandler(balanceService, v)
	authHandler := handlers.NewAuthHandler(authService, v, log)
	healthHandler := handlers.NewHealthHandler(healthChecks(deps))
	authMiddleware := middleware.NewAuthMiddleware(authService, log)

	app.Use(collector.Middleware())

	// Public routes
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
	app.Post("/auth/login", loginLimiter(), authHandler.Login)

	// Authenticated routes
	api := app.Group("/", authMiddleware.Handler)
	api.Post("/jobs/:job_id/pay", jobHandler.PayJob)
	api.Post("/balances/deposit/:userId", balanceHandler.Deposit)
}

func loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	})
}

func healthChecks(deps Deps) map[string]handlers.HealthCheckFunc {
	checks := map[string]handlers.HealthCheckFunc{
		"database": func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	return checks
}
