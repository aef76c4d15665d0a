package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hr-compass/internal/config"
	"github.com/hr-compass/internal/infrastructure/dynamo"
	jwtinfra "github.com/hr-compass/internal/infrastructure/jwt"
	"github.com/hr-compass/internal/infrastructure/llm"
	"github.com/hr-compass/internal/infrastructure/postgres"
	"github.com/hr-compass/internal/infrastructure/smtp"
	"github.com/hr-compass/internal/observability"
	"github.com/hr-compass/internal/pkg/logger"
	transporthttp "github.com/hr-compass/internal/transport/http"
	appmiddleware "github.com/hr-compass/internal/transport/http/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()

	users, otps, closeStore := openStore(ctx, cfg, zlog)
	defer closeStore()

	signer, err := jwtinfra.NewProvider(cfg.SessionSecret, cfg.SessionExpiry)
	if err != nil {
		zlog.Fatal("session signer", zap.Error(err))
	}

	if cfg.LLMAPIKey == "" {
		zlog.Warn("LLM_API_KEY is not set; chat requests will fail")
	}
	if cfg.SMTPPassword == "" {
		zlog.Warn("SMTP_PASSWORD is not set; passcodes cannot be delivered")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var limiter *appmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustProxy)
		defer limiter.Stop()
	}

	deps := &transporthttp.Deps{
		UserRepo: users,
		OtpRepo:  otps,
		Notifier: smtp.NewOTPNotifier(smtp.NewMailer(cfg)),
		LLM:      llm.NewClient(cfg, zlog),
		Signer:   signer,
		Metrics:  observability.NewMetrics(reg),
		Gatherer: reg,
		Limiter:  limiter,
		Logger:   zlog,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("port", cfg.AppPort),
			zap.String("env", cfg.AppEnv),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
		return
	}
	zlog.Info("server stopped")
}

// openStore connects the configured backend and returns its user and
// passcode repositories plus a close func.
func openStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (transporthttp.UserRepository, transporthttp.OtpRepository, func()) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			zlog.Fatal("postgres", zap.Error(err))
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			zlog.Fatal("postgres migrate", zap.Error(err))
		}
		return postgres.NewUserRepo(pool), postgres.NewOtpRepo(pool), pool.Close

	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			zlog.Fatal("dynamodb", zap.Error(err))
		}
		// Creates the tables if they don't exist.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables, zlog)
		return dynamo.NewUserRepo(client, cfg.DynamoTables.Users), dynamo.NewOtpRepo(client, cfg.DynamoTables.Otps), func() {}

	default:
		zlog.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
		return nil, nil, nil
	}
}
