package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sopiautomobile/lead-platform/internal/admin"
	"github.com/sopiautomobile/lead-platform/internal/api/router"
	appconfig "github.com/sopiautomobile/lead-platform/internal/config"
	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/internal/notify"
	"github.com/sopiautomobile/lead-platform/internal/observability/metrics"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
	)

	repo, err := openRepository(cfg)
	if err != nil {
		logger.Error("failed to open lead store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = repo.Close() }()

	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)

	sinks := buildSinks(cfg, logger)
	dispatcher := notify.NewDispatcher(sinks, cfg.SinkTimeout, logger, leadMetrics)
	logger.Info("notification channels configured", "sinks", dispatcher.Sinks())

	sessions := openSessionStore(cfg, logger)

	intakeService := leads.NewService(repo, dispatcher, logger, leadMetrics)
	leadsHandler := leads.NewHandler(intakeService, logger)
	authHandler := admin.NewAuthHandler(cfg.AdminUsername, cfg.AdminPassword, sessions, cfg.Env == "production", logger)
	adminLeads := admin.NewLeadsHandler(repo, dispatcher, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		AdminAuth:          authHandler,
		AdminLeads:         adminLeads,
		Sessions:           sessions,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IntakeRateLimit:    cfg.IntakeRateLimit,
		IntakeRateBurst:    cfg.IntakeRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}

func openRepository(cfg *appconfig.Config) (leads.Repository, error) {
	switch cfg.StorageDriver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return leads.Connect(ctx, cfg.DatabaseURL)
	case "memory":
		return leads.NewInMemoryRepository(), nil
	default:
		return leads.NewSQLiteRepository(cfg.SQLitePath)
	}
}

func openSessionStore(cfg *appconfig.Config, logger *logging.Logger) admin.SessionStore {
	if cfg.RedisAddr == "" {
		return admin.NewMemoryStore(cfg.SessionTTL)
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return admin.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL, logger)
}

// buildSinks assembles the fan-out list from configuration. Constructors
// return nil for unconfigured channels, which are skipped.
func buildSinks(cfg *appconfig.Config, logger *logging.Logger) []notify.Sink {
	var sender notify.EmailSender
	if s := notify.NewResendSender(notify.ResendConfig{
		APIKey:    cfg.ResendAPIKey,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}, logger); s != nil {
		sender = s
	} else if s := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}, logger); s != nil {
		sender = s
	} else {
		logger.Warn("no email provider configured, emails will not be sent")
	}

	var companyRecipients []string
	if cfg.CompanyEmail != "" {
		companyRecipients = []string{cfg.CompanyEmail}
	}

	var sinks []notify.Sink
	if sender != nil {
		if s := notify.NewCompanyEmailSink(sender, companyRecipients, cfg.CCEmails, cfg.AdminPanelURL, logger); s != nil {
			sinks = append(sinks, s)
		}
		if s := notify.NewCustomerEmailSink(sender, logger); s != nil {
			sinks = append(sinks, s)
		}
	}
	if s := notify.NewWebhookSink(cfg.WebhookURL, cfg.WebhookSecret, logger); s != nil {
		sinks = append(sinks, s)
	}
	if s := notify.NewOneSignalSink(cfg.OneSignalAppID, cfg.OneSignalAPIKey, cfg.OneSignalUserID, cfg.AdminPanelURL, logger); s != nil {
		sinks = append(sinks, s)
	}
	if s := notify.NewFirebaseSink(cfg.FirebaseServerKey, cfg.FirebaseToken, logger); s != nil {
		sinks = append(sinks, s)
	}
	if s := notify.NewTelegramSink(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.AdminPanelURL, logger); s != nil {
		sinks = append(sinks, s)
	}
	return sinks
}
