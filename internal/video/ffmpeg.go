package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

type FFmpegConfig struct {
	FFmpegPath  string
	FFprobePath string
}

// FFmpegBackend shells out to ffprobe for metadata and to ffmpeg for single frames.
type FFmpegBackend struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

func NewFFmpegBackend(cfg FFmpegConfig, logger *slog.Logger) *FFmpegBackend {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegBackend{
		ffmpeg:  cfg.FFmpegPath,
		ffprobe: cfg.FFprobePath,
		logger:  logger.With("component", "ffmpeg-backend"),
	}
}

func (b *FFmpegBackend) Name() string {
	return "ffmpeg"
}

// Available reports whether both binaries can be found.
func (b *FFmpegBackend) Available() error {
	for _, bin := range []string{b.ffmpeg, b.ffprobe} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}
	return nil
}

func (b *FFmpegBackend) Open(ctx context.Context, path string) (Source, error) {
	meta, err := b.probe(ctx, path)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("video probed",
		"path", path,
		"frame_count", meta.FrameCount,
		"frame_rate", meta.FrameRate)

	return &ffmpegSource{backend: b, path: path, meta: meta}, nil
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	NbFrames      string `json:"nb_frames"`
	NbReadPackets string `json:"nb_read_packets"`
	AvgFrameRate  string `json:"avg_frame_rate"`
	RFrameRate    string `json:"r_frame_rate"`
}

func (b *FFmpegBackend) probe(ctx context.Context, path string) (Metadata, error) {
	out, err := b.runProbe(ctx, path, "stream=nb_frames,avg_frame_rate,r_frame_rate")
	if err != nil {
		return Metadata{}, err
	}
	meta, err := parseProbe(out)
	if err != nil {
		return Metadata{}, err
	}

	if meta.FrameCount <= 0 {
		// Containers such as webm/mkv carry no frame count; count packets instead.
		out, err := b.runProbe(ctx, path, "stream=nb_read_packets", "-count_packets")
		if err != nil {
			return Metadata{}, err
		}
		counted, err := parseProbe(out)
		if err != nil {
			return Metadata{}, err
		}
		meta.FrameCount = counted.FrameCount
	}

	if err := meta.Validate(); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func (b *FFmpegBackend) runProbe(ctx context.Context, path, entries string, extra ...string) ([]byte, error) {
	args := []string{"-v", "error", "-select_streams", "v:0"}
	args = append(args, extra...)
	args = append(args, "-show_entries", entries, "-of", "json", path)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.ffprobe, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w, output: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func parseProbe(data []byte) (Metadata, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Metadata{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return Metadata{}, fmt.Errorf("%w: no video stream", ErrInvalidMetadata)
	}
	s := out.Streams[0]

	var meta Metadata
	for _, count := range []string{s.NbFrames, s.NbReadPackets} {
		if n, err := strconv.Atoi(count); err == nil && n > 0 {
			meta.FrameCount = n
			break
		}
	}
	for _, rate := range []string{s.AvgFrameRate, s.RFrameRate} {
		if fps, err := parseRational(rate); err == nil && fps > 0 {
			meta.FrameRate = fps
			break
		}
	}
	return meta, nil
}

// parseRational parses ffprobe rates such as "30000/1001" or "25".
func parseRational(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", s, err)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", s, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("parse rate %q: zero denominator", s)
	}
	return n / d, nil
}

type ffmpegSource struct {
	backend *FFmpegBackend
	path    string
	meta    Metadata
}

func (s *ffmpegSource) FrameCount() int {
	return s.meta.FrameCount
}

func (s *ffmpegSource) FrameRate() float64 {
	return s.meta.FrameRate
}

func (s *ffmpegSource) Frame(ctx context.Context, index int) (image.Image, error) {
	if !s.meta.Contains(index) {
		return nil, fmt.Errorf("%w: index %d outside [0,%d]", ErrFrameUnavailable, index, s.meta.LastIndex())
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.backend.ffmpeg,
		"-v", "error",
		"-i", s.path,
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, index),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v, output: %s", ErrFrameUnavailable, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: no frame at index %d", ErrFrameUnavailable, index)
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: decode png: %v", ErrFrameUnavailable, err)
	}
	return img, nil
}

func (s *ffmpegSource) Close() error {
	return nil
}
