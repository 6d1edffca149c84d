package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shop/internal/cache"
	"shop/internal/config"
	"shop/internal/database"
	"shop/internal/metrics"
	"shop/internal/repositories"
	"shop/internal/services"
	"shop/pkg/mailer"
	"shop/pkg/payments"
	"shop/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime owns the process-wide resources opened by Bootstrap.
type Runtime struct {
	Services      *Services
	Deps          Deps
	DB            *gorm.DB
	MQ            *rabbitmq.Client
	Redis         *redis.Client
	Notifications *services.NotificationService
}

// Bootstrap opens the database, optional Redis and RabbitMQ connections and
// the Stripe gateway. Optional backends are skipped when unconfigured.
func Bootstrap(ctx context.Context, cfg config.Config) (*Runtime, error) {
	db, err := database.Open(database.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseDSN})
	if err != nil {
		return nil, err
	}
	rt := &Runtime{DB: db}

	if cfg.DBAutoMigrate {
		if err := database.Migrate(db, cfg.DBDriver); err != nil {
			rt.Close()
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	deps := Deps{
		Config:    cfg,
		Store:     repositories.NewGORMStore(db),
		DB:        sqlDB,
		Metrics:   metrics.New(),
		AccessLog: true,
		Gateway: payments.NewStripeGateway(payments.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.Currency,
			Timeout:       cfg.PaymentTimeout,
			APIBaseURL:    cfg.StripeAPIBaseURL,
		}),
	}

	if cfg.RedisAddr != "" {
		rt.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rt.Redis.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, product cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = rt.Redis.Close()
			rt.Redis = nil
		} else {
			deps.Cache = cache.NewProductCache(rt.Redis, cfg.ProductCacheTTL)
		}
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			slog.Warn("rabbitmq unavailable, order events disabled", "error", err)
		} else {
			rt.MQ = mq
			deps.Publisher = mq
		}
	}

	rt.Deps = deps
	rt.Services = NewServices(deps)
	rt.Notifications = services.NewNotificationService(deps.Store.Repos().Users, mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}))
	return rt, nil
}

// Close releases every resource held by the runtime.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.MQ != nil {
		errs = append(errs, rt.MQ.Close())
	}
	if rt.Redis != nil {
		errs = append(errs, rt.Redis.Close())
	}
	if rt.DB != nil {
		errs = append(errs, database.Close(rt.DB))
	}
	return errors.Join(errs...)
}
