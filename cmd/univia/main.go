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

	"github.com/hibiken/asynq"

	"github.com/univia-erp/univia-erp/internal/app"
	"github.com/univia-erp/univia-erp/internal/auth"
	"github.com/univia-erp/univia-erp/internal/observability"
	"github.com/univia-erp/univia-erp/internal/platform/cache"
	"github.com/univia-erp/univia-erp/internal/platform/db"
	"github.com/univia-erp/univia-erp/internal/rbac"
	"github.com/univia-erp/univia-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	issuer, err := auth.NewIssuer(cfg.SecretKey, cfg.JWTAlgorithm, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	if err != nil {
		logger.Error("configure token issuer", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	var collegeNames *cache.NameCache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, college name cache disabled", slog.Any("error", err))
	} else {
		collegeNames = cache.NewNameCache(redisClient, "college_name", time.Duration(cfg.CollegeNameCacheMinutes)*time.Minute)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	recorder := &jobs.Recorder{Client: jobClient, Logger: logger, Metrics: metrics}

	rbacRepo := rbac.NewRepository(dbpool)
	rbacService := rbac.NewService(rbacRepo)
	rbacMiddleware := rbac.Middleware{Verifier: issuer, Checker: rbacService, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, rbacService, issuer, collegeNames)
	authHandler := auth.NewHandler(logger, authService, issuer, recorder)

	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthHandler:        authHandler,
		PermissionsHandler: permissionsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	}()

	logger.Info("univia listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}
