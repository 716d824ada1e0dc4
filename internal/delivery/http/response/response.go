package response

import (
	"time"

	"github.com/user/repost-crawler/internal/entity"
)

// ExecutionResponse is a DTO for one audit record, mirroring
// entity.CrawlerExecution.
type ExecutionResponse struct {
	ID                 int64     `json:"id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	QuestionsProcessed int       `json:"questions_processed"`
	EnglishQuestions   int       `json:"english_questions"`
	ChineseQuestions   int       `json:"chinese_questions"`
	Status             string    `json:"status"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	DurationMS         int64     `json:"duration_ms"`
	OutputFile         string    `json:"output_file,omitempty"`
}

// FromExecution converts an entity audit record into its DTO.
func FromExecution(e *entity.CrawlerExecution) ExecutionResponse {
	return ExecutionResponse{
		ID:                 e.ID,
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		QuestionsProcessed: e.QuestionsProcessed,
		EnglishQuestions:   e.EnglishQuestions,
		ChineseQuestions:   e.ChineseQuestions,
		Status:             string(e.Status),
		ErrorMessage:       e.ErrorMessage,
		DurationMS:         e.DurationMS,
		OutputFile:         e.OutputFile,
	}
}

// FromExecutions converts a slice of audit records.
func FromExecutions(execs []entity.CrawlerExecution) []ExecutionResponse {
	out := make([]ExecutionResponse, 0, len(execs))
	for i := range execs {
		out = append(out, FromExecution(&execs[i]))
	}
	return out
}

// QuestionResponse is a DTO for one stored question.
type QuestionResponse struct {
	ID                int64      `json:"id"`
	QuestionID        string     `json:"question_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Language          string     `json:"language"`
	URL               string     `json:"url"`
	ViewCount         int        `json:"view_count"`
	VoteCount         int        `json:"vote_count"`
	AnswersCount      int        `json:"answers_count"`
	HasAcceptedAnswer bool       `json:"has_accepted_answer"`
	PostedAt          *time.Time `json:"posted_at,omitempty"`
}

// FromQuestions converts a slice of stored questions into DTOs.
func FromQuestions(questions []entity.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponse{
			ID:                q.ID,
			QuestionID:        q.QuestionID,
			Title:             q.Title,
			Description:       q.Description,
			Language:          string(q.Language),
			URL:               q.URL,
			ViewCount:         q.ViewCount,
			VoteCount:         q.VoteCount,
			AnswersCount:      q.AnswersCount,
			HasAcceptedAnswer: q.HasAcceptedAnswer,
			PostedAt:          q.PostedAt,
		})
	}
	return out
}

// CleanupResponse reports how many rows the retention sweeps removed.
type CleanupResponse struct {
	ExecutionsDeleted int64 `json:"executions_deleted"`
	QuestionsDeleted  int64 `json:"questions_deleted"`
}
