package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/database"
	"yamdb/internal/config"
	httpapi "yamdb/internal/http-api"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/jobs"
	"yamdb/internal/middleware/auth"
	"yamdb/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	var notifier service.Notifier
	switch cfg.Notifier {
	case "redis":
		rdb, err := notify.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer closeRedis(rdb, logger)
		notifier = notify.NewRedisNotifier(rdb, cfg.MailQueueKey)
		logger.Info("Confirmation codes queued to redis", "key", cfg.MailQueueKey)
	default:
		notifier = notify.NewLogNotifier(logger)
		logger.Warn("Confirmation codes are only logged, set NOTIFIER=redis to deliver them")
	}

	// Repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	ratings := service.NewRatingService(titleRepo, reviewRepo, tx, logger)
	userService := service.NewUserService(userRepo, logger)
	services := httpapi.Services{
		Auth: service.NewAuthService(userRepo, issuer, notifier, service.AuthOptions{
			CodeLength:    cfg.ConfirmationCodeLength,
			SingleUseCode: cfg.ConfirmationCodeSingleUse,
		}, logger),
		Users:      userService,
		Categories: service.NewCategoryService(categoryRepo, logger),
		Genres:     service.NewGenreService(genreRepo, logger),
		Titles:     service.NewTitleService(titleRepo, categoryRepo, genreRepo, tx, logger),
		Reviews:    service.NewReviewService(reviewRepo, titleRepo, ratings, tx, logger),
		Comments:   service.NewCommentService(commentRepo, reviewRepo, logger),
	}

	if cfg.SuperuserUsername != "" {
		if err := userService.EnsureSuperuser(ctx, cfg.SuperuserUsername, cfg.SuperuserEmail); err != nil {
			return fmt.Errorf("bootstrap superuser: %w", err)
		}
	}

	scheduler, err := jobs.NewScheduler(cfg.RatingSyncSchedule, jobs.NewRatingSyncJob(ratings, time.Minute, logger), logger)
	if err != nil {
		return err
	}
	scheduler.Start()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(services, httpapi.RouterOptions{
		Tokens:      issuer,
		Users:       userRepo,
		AuthLimiter: middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		scheduler.Stop(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server_stopped_gracefully")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func closeRedis(rdb *redis.Client, logger *slog.Logger) {
	if err := rdb.Close(); err != nil {
		logger.Warn("Failed to close redis client", "error", err)
	}
}
