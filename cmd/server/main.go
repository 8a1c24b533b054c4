// Package main is the entry point for the concierge server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/ai"
	"github.com/stafflink/concierge/internal/clock"
	"github.com/stafflink/concierge/internal/config"
	"github.com/stafflink/concierge/internal/database"
	"github.com/stafflink/concierge/internal/handler"
	"github.com/stafflink/concierge/internal/knowledge"
	"github.com/stafflink/concierge/internal/logging"
	"github.com/stafflink/concierge/internal/metrics"
	"github.com/stafflink/concierge/internal/middleware"
	"github.com/stafflink/concierge/internal/ratelimit"
	"github.com/stafflink/concierge/internal/repository"
	"github.com/stafflink/concierge/internal/service"
	"github.com/stafflink/concierge/internal/shutdown"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logging.New(loggingConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.Zap()
	defer func() { _ = logger.Sync() }()

	logger.Info("starting concierge server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Environment),
	)

	// Initialize database
	ctx := context.Background()
	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	// Note: db.Close() is handled by shutdown coordinator

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db.Pool)
	eventRepo := repository.NewChatEventRepository(db.Pool)

	// Initialize AI client with a shared clock
	clk := clock.New()
	claudeClient := ai.NewClaudeClient(&cfg.Anthropic, clk, logger)

	// Initialize rate limiter and suggestion cache
	limiter := ratelimit.NewClientLimiter(ratelimit.Config{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
	}, clk, logger)
	suggestionCache := ratelimit.NewSuggestionCache(cfg.Chat.SuggestionCacheTTL, clk)

	// Initialize metrics
	m := metrics.NewMetrics()

	// Initialize chat service
	chatService := service.NewChatService(
		profileRepo,
		eventRepo,
		knowledge.DefaultStore(),
		claudeClient,
		suggestionCache,
		cfg.Chat,
		clk,
		logger,
		m,
	)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService, cfg.Chat.MaxHistoryMessages, logger)
	healthHandler := handler.NewHealthHandler(handler.HealthHandlerConfig{
		HealthChecker:   db,
		AIHealthChecker: claudeClient,
		Logger:          logger,
	})
	logLevelHandler := handler.NewLogLevelHandler(log.AtomicLevel(), logger)

	// Initialize request correlation
	correlation := middleware.NewRequestCorrelation(logger)

	// Initialize router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(correlation.Middleware) // First: add correlation IDs
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(corsOptions(cfg)))
	r.Use(m.Middleware)

	// Operational endpoints stay outside the chat rate limit
	healthHandler.RegisterRoutes(r)
	r.Handle("/metrics", m.Handler())
	r.Handle("/api/admin/log-level", logLevelHandler)

	// Chat API: body size cap and per-client rate limit
	r.Group(func(r chi.Router) {
		r.Use(middleware.BodySizeLimiterJSON())
		r.Use(middleware.RateLimit(limiter, m, logger))
		chatHandler.RegisterRoutes(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Initialize shutdown coordinator
	shutdownCoord := shutdown.NewCoordinator(&shutdown.Config{
		Timeout: 30 * time.Second,
	}, logger)

	// Phase 2 (Drain): Let in-flight requests complete
	shutdownCoord.RegisterFunc(shutdown.PhaseDrain, "http-server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	// Phase 4 (Cleanup): Close connections and flush buffers
	shutdownCoord.RegisterFunc(shutdown.PhaseCleanup, "database", func(ctx context.Context) error {
		db.Close()
		return nil
	})

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("received shutdown signal")

	// Execute graceful shutdown
	if err := shutdownCoord.Shutdown(ctx); err != nil {
		logger.Error("shutdown completed with errors", zap.Error(err))
	}
}

// loggingConfig maps application configuration onto the logging package.
func loggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Environment,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	}
}

// corsOptions builds the CORS policy for the embedded chat widget. Only
// the methods and headers the widget actually sends are allowed.
func corsOptions(cfg *config.Config) cors.Options {
	return cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Correlation-ID"},
		MaxAge:         300,
	}
}
