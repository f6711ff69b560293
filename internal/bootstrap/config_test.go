package bootstrap

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.ServerAddr)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes() != 200<<20 {
		t.Errorf("expected 200 MiB upload limit, got %d", cfg.MaxUploadBytes())
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Errorf("unexpected ffmpeg paths %s %s", cfg.FFmpegPath, cfg.FFprobePath)
	}
	if !cfg.CompressPDF {
		t.Error("expected PDF compression by default")
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAX_UPLOAD_MB", "50")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.ServerAddr)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.SessionTTL)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.MaxUploadBytes() != 50<<20 {
		t.Errorf("expected 50 MiB, got %d", cfg.MaxUploadBytes())
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("expected 2.5 rps, got %v", cfg.RateLimitRPS)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "malformed duration", key: "SESSION_TTL", value: "soon"},
		{name: "zero ttl", key: "SESSION_TTL", value: "0s"},
		{name: "negative janitor", key: "JANITOR_INTERVAL", value: "-1m"},
		{name: "malformed int", key: "REDIS_DB", value: "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfig_CookieKey(t *testing.T) {
	cfg := &Config{HMACKey: "secret"}
	if string(cfg.CookieKey()) != "secret" {
		t.Error("expected configured key to be used")
	}

	cfg = &Config{}
	a, b := cfg.CookieKey(), cfg.CookieKey()
	if len(a) != 32 || string(a) == string(b) {
		t.Error("expected a fresh random 32 byte key")
	}
}
