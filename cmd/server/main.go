// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/logging"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/internal/storage"
	"github.com/gurkanbulca/taskboard/internal/transport/grpcapi"
	"github.com/gurkanbulca/taskboard/internal/transport/httpapi"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

const revocationCleanupInterval = time.Hour

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Environment,
	})

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the task store
	stores, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to close store")
		}
	}()

	if cfg.Server.AutoMigrate {
		if err := stores.Migrate(ctx); err != nil {
			return fmt.Errorf("run auto migration: %w", err)
		}
	}

	revocations, closeRevocations, err := newRevocationList(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRevocations()

	// Initialize services
	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)
	passwordManager := auth.NewPasswordManager(auth.WithMinLength(cfg.Password.MinLength))

	taskService := service.NewTaskService(repository.NewGuardedTaskRepository(stores.Tasks), logger)
	authService := service.NewAuthService(stores.Users, tokenManager, passwordManager, revocations, logger)

	grpcServer := grpcapi.NewServer(taskService, authService, grpcapi.ServerConfig{
		Reflection: cfg.Server.GRPCReflection && !cfg.IsProduction(),
	}, logger)

	httpServer := &http.Server{
		Addr: ":" + cfg.Server.HTTPPort,
		Handler: httpapi.NewRouter(
			httpapi.NewHandler(taskService, authService, logger),
			httpapi.RouterConfig{AllowedOrigins: cfg.Server.AllowedOrigins},
			logger,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("serve grpc: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve http: %w", err)
		}
	}()

	// Wait for interrupt signal
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case serveErr = <-errCh:
		logger.WithError(serveErr).Error("Server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP shutdown incomplete")
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		logger.Warn("gRPC graceful stop timed out, forcing")
		grpcServer.Stop()
	}

	logger.Info("Server shutdown complete")
	return serveErr
}

// newRevocationList uses Redis when REDIS_ADDR is set so every replica sees
// sign-outs. Otherwise revoked ids live in memory and are pruned hourly.
func newRevocationList(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (auth.RevocationList, func(), error) {
	if cfg.Redis.Addr == "" {
		list := auth.NewMemoryRevocationList()
		go startCleanupJob(ctx, list, logger)
		return list, func() {}, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.WithField("addr", cfg.Redis.Addr).Info("Using Redis token revocation list")

	closeFn := func() {
		if err := rc.Close(); err != nil {
			logger.WithError(err).Error("Failed to close redis client")
		}
	}
	return auth.NewRedisRevocationList(rc, ""), closeFn, nil
}

// startCleanupJob prunes expired entries from the in-memory revocation list
func startCleanupJob(ctx context.Context, list *auth.MemoryRevocationList, logger logrus.FieldLogger) {
	ticker := time.NewTicker(revocationCleanupInterval)
	defer ticker.Stop()

	logger.Info("Starting revocation cleanup job (runs every hour)")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := list.Prune()
			logger.WithFields(logrus.Fields{"removed": removed, "remaining": list.Len()}).Debug("Revocation cleanup completed")
		}
	}
}
