// Package config loads runtime settings from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the shop.
type Config struct {
	AppPort string

	DBDriver      string
	DatabaseDSN   string
	DBAutoMigrate bool

	JWTSecret string
	TokenTTL  time.Duration

	RabbitMQURL     string
	RedisAddr       string
	ProductCacheTTL time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeAPIBaseURL    string
	Currency            string
	ClientURL           string
	PaymentTimeout      time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	LogLevel slog.Level
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=shop port=5432 sslmode=disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("PRODUCT_CACHE_TTL", "10m")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("STRIPE_API_BASE_URL", "")
	v.SetDefault("CURRENCY", "usd")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "shop@localhost")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads the configuration from v. When configFile is not empty it is
// merged in first; environment variables always win. Callers that start the
// server run Validate on the result.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := Config{
		AppPort:             v.GetString("APP_PORT"),
		DBDriver:            strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		DBAutoMigrate:       v.GetBool("DB_AUTO_MIGRATE"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		TokenTTL:            v.GetDuration("TOKEN_TTL"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		ProductCacheTTL:     v.GetDuration("PRODUCT_CACHE_TTL"),
		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		StripeAPIBaseURL:    v.GetString("STRIPE_API_BASE_URL"),
		Currency:            strings.ToLower(v.GetString("CURRENCY")),
		ClientURL:           v.GetString("CLIENT_URL"),
		PaymentTimeout:      v.GetDuration("PAYMENT_TIMEOUT"),
		SMTPHost:            v.GetString("SMTP_HOST"),
		SMTPPort:            v.GetInt("SMTP_PORT"),
		SMTPUsername:        v.GetString("SMTP_USERNAME"),
		SMTPPassword:        v.GetString("SMTP_PASSWORD"),
		SMTPFrom:            v.GetString("SMTP_FROM"),
		LogLevel:            level,
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
// DB_DRIVER is checked by database.Open.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.StripeWebhookSecret == "" {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET is required"))
	}
	if c.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
