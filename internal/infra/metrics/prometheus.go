package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kb_jobs_processed_total",
		Help: "Total number of lecture jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kb_job_processing_duration_seconds",
		Help:    "Duration of lecture processing pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kb_frames_sampled_total",
		Help: "Total number of frames sampled across all jobs",
	})

	SlidesAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kb_slides_accepted_total",
		Help: "Total number of unique slides accepted across all jobs",
	})

	FrameRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kb_frame_rejections_total",
		Help: "Sampled frames rejected, by reason",
	}, []string{"reason"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kb_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kb_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
