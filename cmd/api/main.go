package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/lorrc/field-service-analytics/internal/adapters/primary/http"
	mw "github.com/lorrc/field-service-analytics/internal/adapters/primary/http/middleware"
	"github.com/lorrc/field-service-analytics/internal/auth"
	"github.com/lorrc/field-service-analytics/internal/config"
	"github.com/lorrc/field-service-analytics/internal/core/services"
	"github.com/lorrc/field-service-analytics/internal/infrastructure/logging"
	"github.com/lorrc/field-service-analytics/internal/infrastructure/storage"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// 3. Open the Fact Store
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open fact store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close fact store", "error", err)
		}
	}()
	logger.Info("fact store connection established", "driver", store.Driver)

	// 4. Initialize Security
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)

	// 5. Initialize Rate Limiters
	var generalRateLimiter, reportRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		general := mw.DefaultRateLimiterConfig()
		general.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		general.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(ctx, general)

		reports := mw.ReportRateLimiterConfig()
		reports.RequestsPerSecond = cfg.RateLimit.ReportRPS
		reports.BurstSize = cfg.RateLimit.ReportBurst
		reportRateLimiter = mw.NewRateLimiter(ctx, reports)
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Fact reader with the reference-data cache in front of it
	referenceCache := services.NewReferenceCache(store.Reader, cfg.Analytics.ReferenceCacheTTL)

	// Services (Core)
	utilizationService := services.NewUtilizationService(referenceCache, logger, cfg.Analytics.RankingSize)

	// Handlers (Primary Adapters)
	utilizationHandler := httpAdapter.NewUtilizationHandler(
		utilizationService,
		referenceCache,
		errorHandler,
		logger,
		cfg.Analytics.MaxRangeDays,
	)
	healthHandler := httpAdapter.NewHealthHandler(store.Health, store.Driver, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware(mw.ByClientIP))
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(mw.JWTMiddleware(tokenManager))
		if reportRateLimiter != nil {
			r.Use(reportRateLimiter.Middleware(mw.ByEmployee))
		}

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(auth.RoleAdmin, auth.RoleDispatcher))
			utilizationHandler.RegisterRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(auth.RoleAdmin))
			utilizationHandler.RegisterAdminRoutes(r)
		})
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return
	}

	logger.Info("server shutdown complete")
}
