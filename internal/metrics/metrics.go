package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jump_uploads_total",
		Help: "Total number of uploaded videos, by outcome",
	}, []string{"outcome"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jump_analyses_total",
		Help: "Total number of jump computations, by outcome",
	}, []string{"outcome"})

	PreviewFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jump_preview_failures_total",
		Help: "Total number of frame previews that could not be decoded",
	})

	ReportsDownloadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jump_reports_downloaded_total",
		Help: "Total number of PDF reports downloaded",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jump_stage_duration_seconds",
		Help:    "Duration of session stages",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})

	ActiveWorkspaces = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jump_active_workspaces",
		Help: "Number of session workspaces currently on disk",
	})

	WorkspacesSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jump_workspaces_swept_total",
		Help: "Total number of abandoned workspaces removed by the janitor",
	})
)

const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
)
