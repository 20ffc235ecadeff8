package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env         string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT" envDefault:"8080" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	JWTSecret        string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m" validate:"min=1s"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h" validate:"gtfield=AccessTokenTTL"`
	EmailVerifyTTL   time.Duration `env:"EMAIL_VERIFY_TTL" envDefault:"48h" validate:"min=1m"`
	EmailChangeTTL   time.Duration `env:"EMAIL_CHANGE_TTL" envDefault:"24h" validate:"min=1m"`
	PasswordResetTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h" validate:"min=1m"`

	Argon2MemoryKB    uint32 `env:"ARGON2_MEMORY_KB" envDefault:"65536" validate:"min=8192,max=1048576"`
	Argon2Iterations  uint32 `env:"ARGON2_ITERATIONS" envDefault:"1" validate:"min=1,max=16"`
	Argon2Parallelism uint8  `env:"ARGON2_PARALLELISM" envDefault:"4" validate:"min=1"`

	ResendAPIKey    string `env:"RESEND_API_KEY"    validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom      string `env:"RESEND_FROM"       validate:"required_if=Env production,required_if=Env staging"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000" validate:"url"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"   envDefault:"http://localhost:8080" validate:"url"`

	// empty disables rate limiting
	RedisURL           string `env:"REDIS_URL"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10" validate:"min=1"`

	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"local" validate:"oneof=local s3"`
	StorageDir        string `env:"STORAGE_DIR" envDefault:"./uploads" validate:"required_if=StorageBackend local"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket          string `env:"S3_BUCKET" validate:"required_if=StorageBackend s3"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	MaxUploadMB       int64  `env:"MAX_UPLOAD_MB" envDefault:"20" validate:"min=1,max=1024"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
