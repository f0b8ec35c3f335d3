package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bulatsharif/trading-api/internal/cache"
	"github.com/bulatsharif/trading-api/internal/config"
	"github.com/bulatsharif/trading-api/internal/email"
	"github.com/bulatsharif/trading-api/internal/platform/postgres"
	"github.com/bulatsharif/trading-api/internal/platform/redis"
	"github.com/bulatsharif/trading-api/internal/service/auth"
	"github.com/bulatsharif/trading-api/internal/store"
	"github.com/bulatsharif/trading-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	roleStore      store.RoleStore
	operationStore store.OperationStore
	tradeStore     store.TradeStore
	taskStore      task.TaskStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	cacheBackend  *redis.RedisCache
	longOperation *cache.Wrapper

	emailSender   email.Sender
	reportFactory *task.ReportEmailTaskFactory
	taskRunner    *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	hasher := auth.NewBcryptHasher()
	app.passwordHasher = hasher
	app.passwordVerifier = hasher

	app.userStore = postgres.NewPostgresUserStore(db, app.passwordHasher, logger)
	app.roleStore = postgres.NewPostgresRoleStore(db, logger)
	app.operationStore = postgres.NewPostgresOperationStore(db, logger)
	app.tradeStore = postgres.NewPostgresTradeStore(db, logger)

	app.cacheBackend, err = redis.New(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache backend: %w", err)
	}
	app.longOperation = cache.NewWrapper(
		app.cacheBackend,
		"long_operation",
		cfg.Cache.LongOperationTTL,
		logger,
	)

	app.emailSender, err = email.NewAWSSESSender(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	app.reportFactory = task.NewReportEmailTaskFactory(app.emailSender, app.tradeStore, logger)

	// The factory doubles as the rehydrator so tasks persisted before a
	// crash regain their execution function at startup.
	app.taskStore = postgres.NewPostgresTaskStore(db, app.reportFactory)

	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:            app.config.Task.WorkerCount,
		QueueSize:              app.config.Task.QueueSize,
		StuckTaskAge:           app.config.Task.StuckTaskAge,
		StuckTaskCheckInterval: app.config.Task.StuckTaskCheckInterval,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.cacheBackend != nil {
		if err := app.cacheBackend.Close(); err != nil {
			app.logger.Error("error closing cache backend", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
