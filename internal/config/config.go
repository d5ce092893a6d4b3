package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DB failure policies applied when the database cannot be reached at startup.
const (
	FailurePolicyContinue = "continue"
	FailurePolicyExit     = "exit"
)

// Config holds the application configuration.
type Config struct {
	AppPort     string `validate:"required"`
	FrontendURL string `validate:"required"`
	Database    DatabaseConfig
	RabbitMQURL string
	LogLevel    string `validate:"required,oneof=trace debug info warn error"`
	LogFormat   string `validate:"required,oneof=console json"`
}

// DatabaseConfig holds connection and pool settings.
type DatabaseConfig struct {
	Driver          string        `validate:"required,oneof=postgres sqlite memory"`
	DSN             string        `validate:"required_unless=Driver memory"`
	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
	FailurePolicy   string        `validate:"required,oneof=continue exit"`
}

// ExitOnFailure reports whether the process must stop when the database is unreachable.
func (c DatabaseConfig) ExitOnFailure() bool {
	return c.FailurePolicy == FailurePolicyExit
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=127.0.0.1 user=postgres password=postgres dbname=products port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_FAILURE_POLICY", FailurePolicyContinue)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		Database: DatabaseConfig{
			Driver:          v.GetString("DATABASE_DRIVER"),
			DSN:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			FailurePolicy:   v.GetString("DB_FAILURE_POLICY"),
		},
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
