package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/jump-backend/internal/tracing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideRedisClient(lc fx.Lifecycle, cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

// StartTracing never blocks startup: a broken exporter only costs traces.
func StartTracing(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			tp, err := tracing.InitTracer(ctx, cfg.OTELEndpoint)
			if err != nil {
				logger.Warn("tracing init failed, continuing without tracing", "error", err)
				return nil
			}
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return tp.Shutdown(ctx)
				},
			})
			return nil
		},
	})
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideRedisClient,
	),
	fx.Invoke(StartTracing),
)
