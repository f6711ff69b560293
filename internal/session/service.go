package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/jump-backend/internal/kinematics"
	"github.com/eleven-am/jump-backend/internal/metrics"
	"github.com/eleven-am/jump-backend/internal/report"
	"github.com/eleven-am/jump-backend/internal/shared"
	"github.com/eleven-am/jump-backend/internal/video"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	videoFileName  = "video"
	reportFileName = "report.pdf"
)

type Service struct {
	store     *Store
	workspace *Workspace
	opener    *video.Opener
	renderer  *report.Renderer
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(store *Store, workspace *Workspace, opener *video.Opener, renderer *report.Renderer, logger *slog.Logger) *Service {
	s := &Service{
		store:     store,
		workspace: workspace,
		opener:    opener,
		renderer:  renderer,
		logger:    logger.With("component", "session"),
		tracer:    otel.Tracer("session"),
		now:       time.Now,
	}
	s.syncActive()
	return s
}

// syncActive sets the workspace gauge from disk so directories left by an
// earlier process are counted too.
func (s *Service) syncActive() {
	n, err := s.workspace.Count()
	if err != nil {
		s.logger.Warn("count workspaces failed", "error", err)
		return
	}
	metrics.ActiveWorkspaces.Set(float64(n))
}

func (s *Service) TTL() time.Duration {
	return s.store.TTL()
}

// Open stores the upload in a fresh workspace, reads its metadata and creates
// the session. Nothing is left on disk when any step fails.
func (s *Service) Open(ctx context.Context, filename string, body io.Reader) (sess *Session, err error) {
	ctx, span := s.tracer.Start(ctx, "Service.Open")
	defer func() { endSpan(span, err) }()
	start := time.Now()

	name := filepath.Base(strings.TrimSpace(filename))
	span.SetAttributes(attribute.String("video.name", name))
	if !s.opener.Supported(name) {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeUnsupported).Inc()
		return nil, fmt.Errorf("%w: %q", video.ErrUnsupportedFormat, filepath.Ext(name))
	}

	id := shared.NewID(IDPrefix)
	span.SetAttributes(attribute.String("session.id", id))
	dir, err := s.workspace.Acquire(id)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if rerr := dir.Release(); rerr != nil {
			s.logger.Error("release workspace failed", "error", rerr, "session_id", id)
		}
	}()

	videoPath := filepath.Join(dir.Path(), videoFileName+strings.ToLower(filepath.Ext(name)))
	if err := writeFile(videoPath, body); err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("store upload: %w", err)
	}

	meta, err := video.Probe(ctx, s.opener, videoPath)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, video.ErrInvalidMetadata) || errors.Is(err, video.ErrUnsupportedFormat) {
			outcome = metrics.OutcomeUnsupported
		}
		metrics.UploadsTotal.WithLabelValues(outcome).Inc()
		return nil, fmt.Errorf("%w: %w", ErrUnreadableVideo, err)
	}

	sess = New(id, name, videoPath, meta, s.now())
	if err := s.store.Create(ctx, sess); err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.UploadsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.syncActive()
	metrics.StageDuration.WithLabelValues("open").Observe(time.Since(start).Seconds())
	s.logger.Info("session opened",
		"session_id", id,
		"video", name,
		"frame_count", meta.FrameCount,
		"frame_rate", meta.FrameRate,
	)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	if !shared.ValidID(IDPrefix, id) {
		return nil, shared.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) getOpen(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == StatusClosed {
		return nil, ErrClosed
	}
	if sess.Status == StatusAnalyzed {
		taken, err := s.store.Downloaded(ctx, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrClosed
		}
	}
	return sess, nil
}

func (s *Service) UpdateAthlete(ctx context.Context, id string, athlete Athlete) (*Session, error) {
	athlete, err := athlete.Normalize()
	if err != nil {
		return nil, err
	}
	sess, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Athlete == athlete {
		return sess, nil
	}
	sess.Athlete = athlete
	return sess, s.save(ctx, sess)
}

func (s *Service) UpdateSelection(ctx context.Context, id string, sel Selection) (*Session, error) {
	sess, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sel.Validate(sess.Metadata); err != nil {
		return nil, err
	}
	if sess.Selection == sel {
		return sess, nil
	}
	sess.Selection = sel
	return sess, s.save(ctx, sess)
}

// save persists an edited session. Any earlier analysis no longer matches the
// inputs, so its result and report are dropped.
func (s *Service) save(ctx context.Context, sess *Session) error {
	if sess.ReportPath != "" {
		if err := os.Remove(sess.ReportPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove stale report failed", "error", err, "session_id", sess.ID)
		}
	}
	sess.invalidate()
	sess.UpdatedAt = s.now()
	return s.store.Update(ctx, sess)
}

// VideoPath returns the stored upload for playback.
func (s *Service) VideoPath(ctx context.Context, id string) (string, error) {
	sess, err := s.getOpen(ctx, id)
	if err != nil {
		return "", err
	}
	return sess.VideoPath, nil
}

// Preview decodes one frame of the session video. Failures are reported as
// video.ErrFrameUnavailable and never affect the session.
func (s *Service) Preview(ctx context.Context, id string, index int) (img image.Image, err error) {
	ctx, span := s.tracer.Start(ctx, "Service.Preview",
		trace.WithAttributes(attribute.String("session.id", id), attribute.Int("frame.index", index)))
	defer func() { endSpan(span, err) }()

	sess, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Metadata.Contains(index) {
		return nil, fmt.Errorf("%w: index %d not in [0, %d]", video.ErrFrameUnavailable, index, sess.Metadata.LastIndex())
	}

	start := time.Now()
	img, err = s.decode(ctx, sess.VideoPath, index)
	if err != nil {
		metrics.PreviewFailuresTotal.Inc()
		s.logger.Debug("frame preview unavailable", "error", err, "session_id", id, "index", index)
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("preview").Observe(time.Since(start).Seconds())
	return img, nil
}

func (s *Service) decode(ctx context.Context, path string, index int) (image.Image, error) {
	src, err := s.opener.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", video.ErrFrameUnavailable, err)
	}
	defer src.Close()

	img, err := src.Frame(ctx, index)
	if err != nil {
		if errors.Is(err, video.ErrFrameUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", video.ErrFrameUnavailable, err)
	}
	return img, nil
}

type Analysis struct {
	Session *Session
	Result  kinematics.Result
	Summary report.Summary
}

// Analyze runs the flight-time computation on the current selection and renders
// the report. A rejected selection leaves no result and no report behind.
func (s *Service) Analyze(ctx context.Context, id string) (a *Analysis, err error) {
	ctx, span := s.tracer.Start(ctx, "Service.Analyze", trace.WithAttributes(attribute.String("session.id", id)))
	defer func() { endSpan(span, err) }()
	start := time.Now()

	sess, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := kinematics.Compute(kinematics.Input{
		FrameRate:    sess.Metadata.FrameRate,
		TakeoffIndex: sess.Selection.TakeoffIndex,
		LandingIndex: sess.Selection.LandingIndex,
		MassKg:       float64(sess.Athlete.WeightKg),
	})
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	now := s.now()
	sess.Result = &res
	sess.AnalyzedAt = &now

	dir, err := s.workspace.Path(id)
	if err != nil {
		return nil, err
	}
	reportPath := filepath.Join(dir, reportFileName)
	if err := s.renderReport(reportPath, sess.Document()); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	sess.ReportPath = reportPath
	sess.Status = StatusAnalyzed
	sess.UpdatedAt = now
	if err := s.store.Update(ctx, sess); err != nil {
		os.Remove(reportPath)
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("update session: %w", err)
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.StageDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	s.logger.Info("jump analyzed",
		"session_id", id,
		"flight_time_s", res.FlightTime,
		"jump_height_cm", res.JumpHeightCM,
	)
	return &Analysis{Session: sess, Result: res, Summary: report.Display(res)}, nil
}

// renderReport writes to a temporary file first so a failed render never leaves
// a partial report at path.
func (s *Service) renderReport(path string, doc report.Document) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := s.renderer.Render(f, doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize report: %w", err)
	}
	return nil
}

// ReportFile streams a generated report. Closing it ends the session.
type ReportFile struct {
	Name    string
	Size    int64
	file    *os.File
	onClose func() error
	once    sync.Once
	err     error
}

func (r *ReportFile) Read(p []byte) (int, error) {
	return r.file.Read(p)
}

func (r *ReportFile) Close() error {
	r.once.Do(func() {
		r.err = errors.Join(r.file.Close(), r.onClose())
	})
	return r.err
}

// Report hands out the rendered PDF exactly once. The session is marked closed
// immediately and released when the returned file is closed.
func (s *Service) Report(ctx context.Context, id string) (rf *ReportFile, err error) {
	ctx, span := s.tracer.Start(ctx, "Service.Report", trace.WithAttributes(attribute.String("session.id", id)))
	defer func() { endSpan(span, err) }()

	sess, err := s.getOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusAnalyzed || sess.ReportPath == "" {
		return nil, ErrNotAnalyzed
	}

	f, err := os.Open(sess.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat report: %w", err)
	}

	claimed, err := s.store.ClaimDownload(ctx, id)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("claim report: %w", err)
	}
	if !claimed {
		f.Close()
		return nil, ErrClosed
	}

	sess.Status = StatusClosed
	sess.UpdatedAt = s.now()
	if err := s.store.Update(ctx, sess); err != nil {
		f.Close()
		if rerr := s.store.ReleaseDownload(context.WithoutCancel(ctx), id); rerr != nil {
			s.logger.Error("release report claim failed", "error", rerr, "session_id", id)
		}
		return nil, fmt.Errorf("update session: %w", err)
	}

	metrics.ReportsDownloadedTotal.Inc()
	releaseCtx := context.WithoutCancel(ctx)
	return &ReportFile{
		Name: report.FileName(sess.Athlete.Name),
		Size: info.Size(),
		file: f,
		onClose: func() error {
			return s.Close(releaseCtx, id)
		},
	}, nil
}

// Close releases the workspace and state of a session. Closing an unknown or
// already closed session is a no-op.
func (s *Service) Close(ctx context.Context, id string) error {
	if !shared.ValidID(IDPrefix, id) {
		return shared.ErrNotFound
	}

	existed, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if err := s.workspace.Release(id); err != nil {
		return err
	}
	s.syncActive()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if existed {
		s.logger.Info("session closed", "session_id", id)
	}
	return nil
}

// Sweep releases workspaces whose session expired without being closed.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	ids, err := s.workspace.Stale(s.store.TTL(), s.now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, id := range ids {
		alive, err := s.store.Exists(ctx, id)
		if err != nil {
			return swept, err
		}
		if alive {
			continue
		}
		if err := s.workspace.Release(id); err != nil {
			s.logger.Warn("sweep workspace failed", "error", err, "session_id", id)
			continue
		}
		swept++
		metrics.WorkspacesSweptTotal.Inc()
	}
	s.syncActive()
	return swept, nil
}

func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("janitor sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("janitor released abandoned workspaces", "count", n)
			}
		}
	}
}

func writeFile(path string, body io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
