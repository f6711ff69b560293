package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/jump-backend/internal/report"
	"github.com/eleven-am/jump-backend/internal/session"
	"github.com/eleven-am/jump-backend/internal/video"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideSessionStore(client *redis.Client, cfg *Config) *session.Store {
	return session.NewStore(client, cfg.SessionTTL)
}

func ProvideWorkspace(cfg *Config, logger *slog.Logger) (*session.Workspace, error) {
	return session.NewWorkspace(cfg.TempDir, logger)
}

func ProvideGuard(cfg *Config) *session.Guard {
	return session.NewGuard(cfg.CookieKey(), cfg.CookieSecure, cfg.SessionTTL)
}

func ProvideRenderer(cfg *Config) *report.Renderer {
	return report.NewRenderer(cfg.CompressPDF)
}

func ProvideSessionService(
	store *session.Store,
	workspace *session.Workspace,
	opener *video.Opener,
	renderer *report.Renderer,
	logger *slog.Logger,
) *session.Service {
	return session.NewService(store, workspace, opener, renderer, logger)
}

func ProvideSessionHandler(svc *session.Service, guard *session.Guard, cfg *Config, logger *slog.Logger) *session.Handler {
	return session.NewHandler(svc, guard, cfg.JPEGQuality, logger.With("handler", "session"))
}

func StartJanitor(lc fx.Lifecycle, svc *session.Service, cfg *Config) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				svc.RunJanitor(ctx, cfg.JanitorInterval)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

var SessionModule = fx.Options(
	fx.Provide(
		ProvideSessionStore,
		ProvideWorkspace,
		ProvideGuard,
		ProvideRenderer,
		ProvideSessionService,
		ProvideSessionHandler,
	),
	fx.Invoke(StartJanitor),
)
