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

	"github.com/ErlanBelekov/guide-api/config"
	"github.com/ErlanBelekov/guide-api/internal/auth"
	"github.com/ErlanBelekov/guide-api/internal/clock"
	"github.com/ErlanBelekov/guide-api/internal/email"
	"github.com/ErlanBelekov/guide-api/internal/health"
	"github.com/ErlanBelekov/guide-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/guide-api/internal/infrastructure/storage"
	ctxlog "github.com/ErlanBelekov/guide-api/internal/log"
	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/ErlanBelekov/guide-api/internal/ratelimit"
	"github.com/ErlanBelekov/guide-api/internal/repository"
	httptransport "github.com/ErlanBelekov/guide-api/internal/transport/http"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel(), os.Stdout)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	// Auth
	userRepo := postgres.NewUserRepository(pool)
	codec := auth.NewCodec([]byte(cfg.JWTSecret), clock.Real{})
	hasher := auth.NewHasher(auth.Params{
		MemoryKB:    cfg.Argon2MemoryKB,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: cfg.Argon2Parallelism,
	})
	mailer := email.NewMailer(email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger), cfg.FrontendBaseURL)

	authUsecase, err := usecase.NewAuthUsecase(userRepo, hasher, codec, mailer, usecase.TokenTTLs{
		Access:        cfg.AccessTokenTTL,
		Refresh:       cfg.RefreshTokenTTL,
		EmailVerify:   cfg.EmailVerifyTTL,
		EmailChange:   cfg.EmailChangeTTL,
		PasswordReset: cfg.PasswordResetTTL,
	}, logger)
	if err != nil {
		stop()
		log.Fatalf("auth: %v", err)
	}
	gate := usecase.NewGate(codec, userRepo)

	// Content
	contentUsecase := usecase.NewContentUsecase(
		postgres.NewCategoryRepository(pool),
		postgres.NewSubCategoryRepository(pool),
		postgres.NewPostRepository(pool),
		postgres.NewMediaRepository(pool),
	)
	personalInfoUsecase := usecase.NewPersonalInformationUsecase(postgres.NewPersonalInformationRepository(pool))

	// Files
	fileStorage, err := newStorage(ctx, cfg)
	if err != nil {
		stop()
		log.Fatalf("storage: %v", err)
	}
	fileUsecase := usecase.NewFileUsecase(fileStorage, cfg.PublicBaseURL)

	deps := map[string]health.Pinger{"postgres": pool}

	// Rate limiting is optional; without Redis every request is let through.
	var limiter *ratelimit.Limiter
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		limiter = ratelimit.New(rdb, cfg.RateLimitPerMinute, time.Minute)
		deps["redis"] = health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	metrics.Register()
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	handlers := httptransport.Handlers{
		Auth:                handler.NewAuthHandler(authUsecase, cfg.CookieSecure, logger),
		User:                handler.NewUserHandler(usecase.NewUserUsecase(userRepo), authUsecase, logger),
		Content:             handler.NewContentHandler(contentUsecase, logger),
		PersonalInformation: handler.NewPersonalInformationHandler(personalInfoUsecase, logger),
		File:                handler.NewFileHandler(fileUsecase, cfg.MaxUploadMB<<20, logger),
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, handlers, gate, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (repository.FileStorage, error) {
	if cfg.StorageBackend == "s3" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	}

	local, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
