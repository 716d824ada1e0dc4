package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RunsTotal           *prometheus.CounterVec
	RunDuration         prometheus.Histogram
	RecordsProcessed    *prometheus.CounterVec
	RecordFailures      prometheus.Counter
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvest_runs_total",
			Help: "Total number of harvest runs.",
		},
		[]string{"status"}, // status: success, error
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvest_run_duration_seconds",
			Help:    "Duration of harvest runs.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
	)

	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvest_records_processed_total",
			Help: "Total number of question records successfully reconciled.",
		},
		[]string{"language"},
	)

	RecordFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harvest_record_failures_total",
			Help: "Total number of question records skipped due to errors.",
		},
	)
}
