package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portsrepo "github.com/wealthsync/wealthsync-backend/internal/core/ports/repositories"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/core/services"
	"github.com/wealthsync/wealthsync-backend/internal/handlers"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
	"github.com/wealthsync/wealthsync-backend/internal/platform/config"
	"github.com/wealthsync/wealthsync-backend/internal/repositories/database/pgsql"
	"github.com/wealthsync/wealthsync-backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title WealthSync Backend API
// @version 1.0
// @description Personal finance dashboard backend with autopilot payment orchestration.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Scheduler-Token")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := buildServices(repos, cfg)

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires the repositories into the service facades.
func buildServices(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	clk := clock.WallClock

	autopilotService := services.NewAutopilotService(
		repos.PaymentOrderRepo, repos.BillRepo, repos.SubscriptionRepo,
		repos.SavingsGoalRepo, repos.NotificationRepo, cfg.Autopilot, clk,
	)
	allocationService := services.NewAllocationService(
		repos.BillRepo, repos.SubscriptionRepo, repos.SavingsGoalRepo,
		repos.IncomeSourceRepo, repos.TransactionRepo, repos.BudgetRepo, clk,
	)
	spendingService := services.NewSpendingService(
		repos.BillRepo, repos.SubscriptionRepo, repos.SavingsGoalRepo,
		repos.IncomeSourceRepo, repos.TransactionRepo, clk,
	)
	timelineService := services.NewTimelineService(
		autopilotService, repos.PaymentOrderRepo, repos.BillRepo, repos.SubscriptionRepo,
		repos.SavingsGoalRepo, repos.IncomeSourceRepo, repos.TransactionRepo, repos.BudgetRepo, clk,
	)

	return &portssvc.ServiceContainer{
		Autopilot:  autopilotService,
		Allocation: allocationService,
		Spending:   spendingService,
		Timeline:   timelineService,
	}
}

// runMigrations applies all pending up migrations from the migrations
// directory over a short-lived database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
