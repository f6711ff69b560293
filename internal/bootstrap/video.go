package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/jump-backend/internal/video"
	"go.uber.org/fx"
)

var ffmpegExtensions = []string{".mp4", ".mov", ".m4v", ".avi", ".webm", ".mkv"}

func ProvideFFmpegBackend(cfg *Config, logger *slog.Logger) *video.FFmpegBackend {
	return video.NewFFmpegBackend(video.FFmpegConfig{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
	}, logger)
}

func ProvideOpener(ffmpeg *video.FFmpegBackend, logger *slog.Logger) *video.Opener {
	opener := video.NewOpener()
	opener.Register(video.NewIVFBackend(), ".ivf")
	opener.Register(ffmpeg, ffmpegExtensions...)

	if err := ffmpeg.Available(); err != nil {
		logger.Warn("ffmpeg unavailable, only IVF uploads can be analyzed", "error", err)
	}
	return opener
}

var VideoModule = fx.Options(
	fx.Provide(
		ProvideFFmpegBackend,
		ProvideOpener,
	),
)
