package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eleven-am/jump-backend/internal/calc"
	"github.com/eleven-am/jump-backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	SessionHandler *session.Handler
	CalcHandler    *calc.Handler
	Config         *Config
}

func ProvideCalcHandler(logger *slog.Logger) *calc.Handler {
	return calc.NewHandler(logger.With("handler", "calc"))
}

func ProvideUploadLimiter(lc fx.Lifecycle, cfg *Config) *UploadLimiter {
	l := NewUploadLimiter(RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		CleanupInterval:   DefaultRateLimiterConfig().CleanupInterval,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			l.Stop()
			return nil
		},
	})
	return l
}

func RegisterRoutes(e *echo.Echo, params HandlerParams, limiter *UploadLimiter) {
	api := e.Group("/api/v1")

	params.CalcHandler.RegisterRoutes(api)
	params.SessionHandler.RegisterRoutes(api.Group("/sessions"),
		limiter.Middleware(),
		middleware.BodyLimit(fmt.Sprintf("%dM", params.Config.MaxUploadMB)),
	)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())

	e.Static("/assets", params.Config.StaticDir)
	e.GET("/*", func(c echo.Context) error {
		return c.File(params.Config.IndexHTML)
	})
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideCalcHandler,
		ProvideUploadLimiter,
	),
	fx.Invoke(RegisterRoutes),
)
