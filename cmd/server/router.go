package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/bulatsharif/trading-api/internal/api"
	apiMiddleware "github.com/bulatsharif/trading-api/internal/api/middleware"
)

// longOperationDelay is how long the uncached long-operation payload takes
// to produce.
const longOperationDelay = 2 * time.Second

// computeLongOperation produces the long-operation payload. Only invoked on
// cache misses; the result is cached with the configured TTL.
func computeLongOperation(ctx context.Context) ([]byte, error) {
	select {
	case <-time.After(longOperationDelay):
		return []byte("Many very long operation that heavy compute result"), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout))
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.roleStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	operationHandler := api.NewOperationHandler(
		app.operationStore,
		app.longOperation,
		computeLongOperation,
		app.logger,
	)
	reportHandler := api.NewReportHandler(app.reportFactory, app.taskRunner, app.logger)
	userHandler := api.NewUserHandler(app.userStore, app.logger)
	tradeHandler := api.NewTradeHandler(app.tradeStore, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	// Authentication endpoints (public, rate limited)
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, 1*time.Minute))
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/jwt/login", authHandler.Login)
	})

	r.Route("/operations", func(r chi.Router) {
		r.Get("/", operationHandler.List)
		r.Get("/long-operation", operationHandler.LongOperation)
	})

	r.Get("/users/{id}", userHandler.Get)
	r.Post("/trades", tradeHandler.Create)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/report/dashboard", reportHandler.Dashboard)
		r.Get("/protected-route", api.ProtectedGreeting)
	})

	r.Get("/unprotected-route", api.UnprotectedGreeting)

	r.Get("/health", app.healthCheck)

	return r
}

// healthCheck reports liveness and database connectivity.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error("health check database ping failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, writeErr := w.Write([]byte("database unavailable")); writeErr != nil {
			app.logger.Error("failed to write health check response", "error", writeErr)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", "error", err)
	}
}
