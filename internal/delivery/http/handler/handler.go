package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/repost-crawler/internal/delivery/http/request"
	"github.com/user/repost-crawler/internal/delivery/http/response"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
	"github.com/user/repost-crawler/internal/usecase"
)

type Handler struct {
	harvester usecase.Harvester
	reporting usecase.Reporting
}

func NewHandler(harvester usecase.Harvester, reporting usecase.Reporting) *Handler {
	return &Handler{
		harvester: harvester,
		reporting: reporting,
	}
}

// HandleTriggerHarvest runs one harvest synchronously and returns its
// summary. The pipeline never lets an error escape a run, so the only
// error paths here are the lock and the lock backend.
func (h *Handler) HandleTriggerHarvest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.harvester.Harvest(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrRunInProgress) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Failed to start harvest run", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if summary.Status == entity.RunStatusError {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, summary)
}

func (h *Handler) HandleLatestRun(w http.ResponseWriter, r *http.Request) {
	exec, err := h.reporting.LatestRun(r.Context())
	if err != nil {
		slog.Error("Failed to load latest run", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if exec == nil {
		h.writeJSONError(w, "No runs recorded yet", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromExecution(exec))
}

func (h *Handler) HandleRecentRuns(w http.ResponseWriter, r *http.Request) {
	execs, err := h.reporting.RecentRuns(r.Context(), queryInt(r, "limit"))
	if err != nil {
		slog.Error("Failed to load recent runs", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromExecutions(execs))
}

func (h *Handler) HandleFailedRuns(w http.ResponseWriter, r *http.Request) {
	execs, err := h.reporting.FailedRuns(r.Context(), queryInt(r, "limit"))
	if err != nil {
		slog.Error("Failed to load failed runs", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromExecutions(execs))
}

func (h *Handler) HandleDailyStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporting.DailyStatistics(r.Context(), queryInt(r, "days"))
	if err != nil {
		slog.Error("Failed to load daily statistics", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleExecutionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporting.ExecutionSummary(r.Context())
	if err != nil {
		slog.Error("Failed to load execution summary", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleLatestQuestions(w http.ResponseWriter, r *http.Request) {
	language := entity.Language(r.URL.Query().Get("language"))
	if language != "" && language != entity.LanguageEnglish && language != entity.LanguageTraditionalChinese {
		h.writeJSONError(w, "Unknown language filter", http.StatusBadRequest)
		return
	}

	questions, err := h.reporting.LatestQuestions(r.Context(), queryInt(r, "limit"), language)
	if err != nil {
		slog.Error("Failed to load latest questions", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromQuestions(questions))
}

func (h *Handler) HandleQuestionStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporting.QuestionStatistics(r.Context(), queryInt(r, "days"))
	if err != nil {
		slog.Error("Failed to load question statistics", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleTagUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.reporting.TagUsage(r.Context())
	if err != nil {
		slog.Error("Failed to load tag usage", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, usage)
}

func (h *Handler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	var req request.CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ExecutionDays < 0 || req.QuestionDays < 0 {
		h.writeJSONError(w, "Retention cutoffs must not be negative", http.StatusBadRequest)
		return
	}

	execsDeleted, questionsDeleted, err := h.reporting.Cleanup(r.Context(), req.ExecutionDays, req.QuestionDays)
	if err != nil {
		slog.Error("Failed to run cleanup", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.CleanupResponse{
		ExecutionsDeleted: execsDeleted,
		QuestionsDeleted:  questionsDeleted,
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
