package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	httpServer "taskmanager/internal/http"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/logger"
	"taskmanager/internal/migrations"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/stdlib"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()

	dbPool := db.MustConnect(cfg.DatabaseURL)
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, stdlib.OpenDBFromPool(dbPool)); err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
		logger.Info("migrations applied")
	}

	tokens, err := service.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		logger.Fatal("token manager", "error", err)
	}

	store := db.NewPoolStore(dbPool)
	repos := repository.NewPostgresManager()
	auditService := service.NewAuditService(store, repos)
	authService := service.NewAuthService(store, repos, service.NewPasswordHasher(cfg.BcryptCost), tokens,
		service.WithAudit(auditService))
	taskService := service.NewTaskService(store, repos)

	health := handlers.NewHealthHandler(dbPool, version)

	redisClient := middleware.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
		health.AddCheck("redis", handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := httpServer.NewRouter(httpServer.Deps{
		Config:  cfg,
		Auth:    authService,
		Tasks:   taskService,
		Audit:   auditService,
		Health:  health,
		Limiter: middleware.NewRateLimiter(redisClient),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.Env, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
