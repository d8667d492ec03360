package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/yungbote/courseprogress-backend/internal/data/db"
	"github.com/yungbote/courseprogress-backend/internal/observability"
)

type Config struct {
	LogMode string `env:"LOG_MODE" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"8080"`

	JWTSecretKey string `env:"JWT_SECRET_KEY,required,notEmpty"`

	// Empty RedisAddr keeps event delivery on the in-process hub.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisChannel  string `env:"REDIS_CHANNEL" envDefault:"courseprogress:sse"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	EnrollmentListConcurrency int  `env:"ENROLLMENT_LIST_CONCURRENCY" envDefault:"4"`
	AutoMigrate               bool `env:"POSTGRES_AUTO_MIGRATE" envDefault:"true"`

	Postgres db.PostgresConfig
	Otel     observability.OtelConfig
	Metrics  observability.MetricsConfig
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func LoadConfig(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.EnrollmentListConcurrency <= 0 {
		return Config{}, fmt.Errorf("ENROLLMENT_LIST_CONCURRENCY must be positive, got %d", cfg.EnrollmentListConcurrency)
	}
	return cfg, nil
}
