// Package metrics exposes prometheus instrumentation for the job
// pipeline and the chat front-end.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	JobsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_jobs_submitted_total",
		Help: "The total number of submitted video jobs",
	}, []string{"source"}) // source: http, chat

	JobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_jobs_finished_total",
		Help: "The total number of finished video jobs",
	}, []string{"outcome"}) // outcome: primary, fallback, placeholder, error

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_job_stage_duration_seconds",
		Help:    "Duration of each pipeline stage.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"stage"})

	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Inbound chat messages by reply classification",
	}, []string{"tag"})

	AdmissionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admission_rejected_total",
		Help: "Requests rejected before entering the pipeline",
	}, []string{"reason"}) // reason: rate_limited, content_blocked
)

// Handler serves the prometheus scrape endpoint through echo.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
