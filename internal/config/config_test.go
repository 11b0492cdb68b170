package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.StorageDriver != "sqlite" {
		t.Errorf("expected default storage driver sqlite, got %s", cfg.StorageDriver)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default session TTL 24h, got %s", cfg.SessionTTL)
	}
	if cfg.SinkTimeout != 10*time.Second {
		t.Errorf("expected default sink timeout 10s, got %s", cfg.SinkTimeout)
	}
	if cfg.FromName != "Sopi Automobile" {
		t.Errorf("unexpected default from name: %s", cfg.FromName)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("SINK_TIMEOUT", "3s")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")
	t.Setenv("CC_EMAILS", "a@example.com, b@example.com, ")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("INTAKE_RATE_LIMIT", "2.5")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.StorageDriver != "postgres" {
		t.Errorf("expected normalized driver postgres, got %s", cfg.StorageDriver)
	}
	if cfg.SinkTimeout != 3*time.Second {
		t.Errorf("expected sink timeout 3s, got %s", cfg.SinkTimeout)
	}
	if cfg.TelegramChatID != -100123456 {
		t.Errorf("expected chat id -100123456, got %d", cfg.TelegramChatID)
	}
	if len(cfg.CCEmails) != 2 || cfg.CCEmails[1] != "b@example.com" {
		t.Errorf("unexpected CC list: %v", cfg.CCEmails)
	}
	if !cfg.RedisTLS {
		t.Error("expected redis TLS enabled")
	}
	if cfg.IntakeRateLimit != 2.5 {
		t.Errorf("expected rate limit 2.5, got %f", cfg.IntakeRateLimit)
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SINK_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.SinkTimeout != 10*time.Second {
		t.Errorf("expected fallback 10s, got %s", cfg.SinkTimeout)
	}
}
