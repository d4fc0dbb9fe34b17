// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	commonaws "workwise-backend/internal/common/aws"
	"workwise-backend/internal/common/config"
	"workwise-backend/internal/common/database"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/common/observability"
	stripe "workwise-backend/internal/common/payments"
	"workwise-backend/internal/server"
	"workwise-backend/internal/services/auth/security"
	"workwise-backend/internal/services/auth/session"
	"workwise-backend/internal/services/auth/twofactor"
	"workwise-backend/internal/services/jobs"
	"workwise-backend/internal/services/marketing/analytics"
	"workwise-backend/internal/services/marketing/rules"
	"workwise-backend/internal/services/notifications"
	"workwise-backend/internal/services/payments"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("api-server")
	defer obs.Shutdown()

	tracing, err := observability.NewTracing(cfg.App.Name, cfg.App.Environment, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}
	defer tracing.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	stripeClient := stripe.NewStripeClient(
		cfg.Integrations.Stripe.APIKey,
		cfg.Integrations.Stripe.BaseURL,
		config.GetDuration(cfg.Integrations.Stripe.Timeout),
	)

	snsClient, err := commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client init failed", zap.Error(err))
	}

	sesClient, err := commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}
	notificationService := notifications.NewService(notifications.Config{
		EmailEnabled: cfg.Integrations.AWS.SES.Enabled,
		SMSEnabled:   cfg.Integrations.AWS.SNS.Enabled,
		FromEmail:    cfg.Integrations.AWS.SES.FromEmail,
	}, pg.DB, sesClient, snsClient, log)

	zapLog.Info("All external service clients initialized")

	// --- Wire Services ---
	ruleStore := rules.NewStore(pg.DB)
	ruleCache := rules.NewCache(rdb.Client, config.GetDuration(cfg.Marketing.RuleCacheTTL), log)
	ruleService := rules.NewService(ruleStore, ruleCache, log)

	analyticsStore := analytics.NewStore(pg.DB)
	analyticsService := analytics.NewService(
		analyticsStore, ruleStore, rdb.Client,
		config.GetDuration(cfg.Scheduler.SnapshotTTL),
		cfg.Marketing.AnalyticsWindow,
		log,
	)

	jobStore := jobs.NewStore(pg.DB)
	jobSearch := jobs.NewSearch(esClient.Client, cfg.Database.Elasticsearch.JobsIndex)
	jobService := jobs.NewService(jobStore, jobSearch, ruleService, analyticsService, log)

	sessionStore := session.NewStore(rdb.Client, config.GetDuration(cfg.Auth.Session.TTL), log)
	authMiddleware := session.NewMiddleware(sessionStore, cfg.Auth.Session.CookieName)

	twoFactorStore := twofactor.NewStore(pg.DB)
	twoFactorProvider := twofactor.NewSNSProvider(snsClient, cfg.Integrations.AWS.SNS.DefaultSMSSenderID)
	twoFactorService := twofactor.NewService(twoFactorStore, rdb.Client, twoFactorProvider, sessionStore, notificationService, twofactor.Limits{
		CodeTTL:         config.GetDuration(cfg.Auth.TwoFactor.CodeTTL),
		ResendWindow:    config.GetDuration(cfg.Auth.TwoFactor.ResendWindow),
		MaxAttempts:     cfg.Auth.TwoFactor.MaxAttempts,
		MaxSendsPerHour: cfg.Auth.TwoFactor.MaxSendsPerHour,
	}, log)

	securityService := security.NewService(security.NewStore(pg.DB), log)
	paymentService := payments.NewService(payments.NewStore(pg.DB), stripeClient, log)

	// --- Scheduler ---
	if cfg.Scheduler.Enabled {
		scheduler := analytics.NewScheduler(analyticsService, log)
		if err := scheduler.Start(cfg.Scheduler.StatsSnapshot); err != nil {
			zapLog.Fatal("scheduler start failed", zap.Error(err))
		}
		defer scheduler.Stop()
		zapLog.Info("Stats snapshot scheduler started",
			zap.String("spec", cfg.Scheduler.StatsSnapshot))
	}

	// --- HTTP Server ---
	srv := server.New(cfg, server.Handlers{
		Rules:     rules.NewHandler(ruleService, log),
		Analytics: analytics.NewHandler(analyticsService, log),
		Jobs:      jobs.NewHandler(jobService, log),
		Session:   session.NewHandler(sessionStore, cfg.Auth.Session.CookieName, log),
		TwoFactor: twofactor.NewHandler(twoFactorService, log),
		Security:  security.NewHandler(securityService, log),
		Payments:  payments.NewHandler(paymentService, log),
	}, authMiddleware, obs, tracing, log)

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
