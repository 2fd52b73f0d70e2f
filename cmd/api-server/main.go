package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"yamdb/database"
	"yamdb/internal/config"
	httpapi "yamdb/internal/http-api"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	applog "yamdb/internal/logger"
	"yamdb/internal/mail"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid_config", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// 1. Schema, then the pool repositories share
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("migration_failed", "error", err)
		os.Exit(1)
	}
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// 2. Rate limiter for /auth, shared through Redis when configured
	var limiter middleware.Limiter = middleware.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis_unavailable_using_local_limiter", "error", err)
		} else {
			defer rdb.Close()
			perWindow := int64(cfg.RateLimitBurst) + int64(cfg.RateLimitRPS*cfg.RateLimitWin.Seconds())
			limiter = middleware.NewRedisLimiter(rdb, perWindow, cfg.RateLimitWin, logger)
			logger.Info("redis_rate_limiter_enabled", "limit", perWindow, "window", cfg.RateLimitWin)
		}
	}

	// 3. Repositories and services
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Auth:           service.NewAuthService(userRepo, mail.New(cfg, logger), cfg, logger),
		Users:          service.NewUserService(userRepo, logger),
		Categories:     service.NewCategoryService(categoryRepo),
		Genres:         service.NewGenreService(genreRepo),
		Titles:         service.NewTitleService(titleRepo, categoryRepo, genreRepo),
		Reviews:        service.NewReviewService(reviewRepo, titleRepo, logger),
		Comments:       service.NewCommentService(commentRepo, reviewRepo),
		AuthLimiter:    limiter,
		PageSize:       cfg.PageSize,
		TrustedProxies: cfg.TrustedProxies,
		MetricsEnabled: cfg.PrometheusEnabled,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
			return
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		database.Close(db)
		os.Exit(1)
	}
}
