package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/repost-crawler/internal/delivery/http/handler"
	"github.com/user/repost-crawler/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/harvest", h.HandleTriggerHarvest)

	mux.HandleFunc("GET /api/runs/latest", h.HandleLatestRun)
	mux.HandleFunc("GET /api/runs/failed", h.HandleFailedRuns)
	mux.HandleFunc("GET /api/runs", h.HandleRecentRuns)

	mux.HandleFunc("GET /api/stats/daily", h.HandleDailyStatistics)
	mux.HandleFunc("GET /api/stats/summary", h.HandleExecutionSummary)
	mux.HandleFunc("GET /api/stats/questions", h.HandleQuestionStatistics)
	mux.HandleFunc("GET /api/stats/tags", h.HandleTagUsage)

	mux.HandleFunc("GET /api/questions", h.HandleLatestQuestions)

	mux.HandleFunc("POST /api/maintenance/cleanup", h.HandleCleanup)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
