package bootstrap

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL"   envDefault:"info"`

	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`

	SessionTTL      time.Duration `env:"SESSION_TTL"      envDefault:"1h"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"5m"`
	TempDir         string        `env:"TEMP_DIR"`
	MaxUploadMB     int           `env:"MAX_UPLOAD_MB"    envDefault:"200"`

	FFmpegPath  string `env:"FFMPEG_PATH"  envDefault:"ffmpeg"`
	FFprobePath string `env:"FFPROBE_PATH" envDefault:"ffprobe"`
	JPEGQuality int    `env:"JPEG_QUALITY" envDefault:"80"`
	CompressPDF bool   `env:"PDF_COMPRESS" envDefault:"true"`

	HMACKey      string `env:"HMAC_KEY"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0.5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"5"`

	OTELEndpoint string `env:"OTEL_ENDPOINT"`

	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`
	IndexHTML string `env:"INDEX_HTML" envDefault:"./static/index.html"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("parse config: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.JanitorInterval <= 0 {
		return nil, fmt.Errorf("parse config: JANITOR_INTERVAL must be positive, got %s", cfg.JanitorInterval)
	}
	return cfg, nil
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// CookieKey returns the configured HMAC key, or a random one that lives as
// long as the process when none is set.
func (c *Config) CookieKey() []byte {
	if c.HMACKey != "" {
		return []byte(c.HMACKey)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return key
}
