package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultJWTSecret is the placeholder secret used when JWT_SECRET is unset.
const DefaultJWTSecret = "change-me"

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Vivaah"`
		Port int    `envconfig:"PORT" default:"8080"`
		Env  string `envconfig:"APP_ENV" default:"development"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"vivaah"`
		// Apply the embedded schema on startup.
		Migrate bool `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	}

	Broker struct {
		// Empty URL disables RabbitMQ publishing; events are logged instead.
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"vivaah.bookings"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"vivaah.notifications"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	Tracing struct {
		// OTLP/HTTP collector endpoint, host:port. Empty disables tracing export.
		Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		Insecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}

	if cfg.Auth.JWTSecret == DefaultJWTSecret {
		if cfg.App.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET must be set when APP_ENV is production")
		}

		slog.Warn("JWT_SECRET not set, using the insecure default", "env", cfg.App.Env)
	}

	return &cfg, nil
}
