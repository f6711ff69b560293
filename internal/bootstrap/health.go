package bootstrap

import (
	"github.com/eleven-am/jump-backend/internal/health"
	"github.com/eleven-am/jump-backend/internal/session"
	"github.com/eleven-am/jump-backend/internal/video"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const version = "1.0.0"

func ProvideHealthHandler(
	redis *redis.Client,
	ffmpeg *video.FFmpegBackend,
	opener *video.Opener,
	workspace *session.Workspace,
) *health.Handler {
	return health.NewHandler(
		redis,
		ffmpeg,
		workspace.Root(),
		opener.Extensions(),
		version,
	)
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
