package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Michael-Parekh/proshop/pkg/config"
)

// Config holds all configuration for the storefront service. It is
// constructed once at process start and passed by reference to every
// component that needs it; there is no ambient/global access.
type Config struct {
	Environment string `env:"NODE_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"PORT" envDefault:"5000"`

	// MongoDB
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"proshop"`

	// Redis (best-effort caching; the service runs without it)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"720h"` // 30 days

	// PayPal
	PayPalClientID string `env:"PAYPAL_CLIENT_ID" envDefault:"sb"`
	PayPalAPIBase  string `env:"PAYPAL_API_BASE" envDefault:""`
	PayPalSecret   string `env:"PAYPAL_SECRET" envDefault:""`

	// Uploads
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.JWTExpiry <= 0 {
		return nil, fmt.Errorf("invalid JWT expiry: %s", cfg.JWTExpiry)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
