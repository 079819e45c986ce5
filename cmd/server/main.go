package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/config"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/conversion"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/handlers"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/repository"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if cfg.AppEnv == "production" && cfg.JWTSecret == "dev-insecure-secret-change" {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Migrations: golang-migrate for postgres, gorm for sqlite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// 5. Reset-link delivery
	var notifier services.ResetNotifier
	if cfg.ResetDelivery == "redis" {
		rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		notifier = services.NewRedisNotifier(rdb, cfg.ResetQueueKey, cfg.FrontendBaseURL)
	} else {
		notifier = services.NewLogNotifier(logger, cfg.FrontendBaseURL)
	}

	// 6. Initialize Services
	store := repository.NewStore(db)
	tokenService := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	authService := services.NewAuthService(store, tokenService, notifier, logger,
		time.Duration(cfg.ResetExpireMinutes)*time.Minute)
	converter := conversion.NewHTTPConverter(cfg.ConverterURL)

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, authService, converter)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter()

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exiting")
	return nil
}
