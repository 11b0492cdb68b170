package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Storage
	StorageDriver string // sqlite, postgres or memory
	SQLitePath    string
	DatabaseURL   string

	// Admin authentication
	AdminUsername string
	AdminPassword string
	SessionTTL    time.Duration

	// Redis session store (optional; in-memory sessions when unset)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email providers
	ResendAPIKey   string
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyEmail   string
	CCEmails       []string

	// Outbound lead webhook
	WebhookURL    string
	WebhookSecret string

	// Push channels
	OneSignalAppID    string
	OneSignalAPIKey   string
	OneSignalUserID   string
	FirebaseServerKey string
	FirebaseToken     string
	TelegramBotToken  string
	TelegramChatID    int64

	// Notification fan-out
	SinkTimeout   time.Duration
	AdminPanelURL string

	// Intake rate limiting (requests/sec per IP)
	IntakeRateLimit float64
	IntakeRateBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),

		StorageDriver: strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", "sqlite"))),
		SQLitePath:    getEnv("SQLITE_PATH", "data/leads.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("ADMIN_SESSION_TTL", 24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "onboarding@resend.dev"),
		FromName:       getEnv("FROM_NAME", "Sopi Automobile"),
		CompanyEmail:   getEnv("COMPANY_EMAIL", ""),
		CCEmails:       getEnvAsSlice("CC_EMAILS"),

		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),

		OneSignalAppID:    getEnv("ONESIGNAL_APP_ID", ""),
		OneSignalAPIKey:   getEnv("ONESIGNAL_API_KEY", ""),
		OneSignalUserID:   getEnv("ONESIGNAL_USER_ID", ""),
		FirebaseServerKey: getEnv("FIREBASE_SERVER_KEY", ""),
		FirebaseToken:     getEnv("FIREBASE_DEVICE_TOKEN", ""),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:    getEnvAsInt64("TELEGRAM_CHAT_ID", 0),

		SinkTimeout:   getEnvAsDuration("SINK_TIMEOUT", 10*time.Second),
		AdminPanelURL: getEnv("ADMIN_PANEL_URL", "https://sopiautomobile.de/admin"),

		IntakeRateLimit: getEnvAsFloat("INTAKE_RATE_LIMIT", 1),
		IntakeRateBurst: getEnvAsInt("INTAKE_RATE_BURST", 5),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
