package entity

import "time"

// RunStatus is the terminal outcome of one pipeline run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// CrawlerExecution mirrors the `crawler_executions` PostgreSQL table schema.
// Rows are append-only; only status and error_message may be corrected
// afterwards, via an explicit update.
type CrawlerExecution struct {
	ID                 int64
	StartTime          time.Time
	EndTime            time.Time
	QuestionsProcessed int
	EnglishQuestions   int
	ChineseQuestions   int
	Status             RunStatus
	ErrorMessage       string
	DurationMS         int64
	OutputFile         string
}

// RunSummary is the in-memory outcome of one pipeline run, handed back to
// the caller for reporting. It is produced even when the run fails.
type RunSummary struct {
	Status             RunStatus `json:"status"`
	QuestionsProcessed int       `json:"questions_processed"`
	EnglishQuestions   int       `json:"english_questions"`
	ChineseQuestions   int       `json:"chinese_questions"`
	FailedRecords      int       `json:"failed_records"`
	DurationMS         int64     `json:"duration_ms"`
	OutputFile         string    `json:"output_file,omitempty"`
	ErrorMessage       string    `json:"error_message,omitempty"`
}

// DailyStatistic aggregates executions that started on one calendar day.
type DailyStatistic struct {
	Date            time.Time `json:"date"`
	TotalExecutions int       `json:"total_executions"`
	TotalQuestions  int       `json:"total_questions"`
	TotalEnglish    int       `json:"total_english"`
	TotalChinese    int       `json:"total_chinese"`
	AvgDurationMS   float64   `json:"avg_duration_ms"`
	ErrorCount      int       `json:"error_count"`
}

// ExecutionSummary aggregates the whole execution history.
type ExecutionSummary struct {
	TotalExecutions         int     `json:"total_executions"`
	TotalQuestionsProcessed int     `json:"total_questions_processed"`
	AvgDurationMS           float64 `json:"avg_duration_ms"`
	MinDurationMS           int64   `json:"min_duration_ms"`
	MaxDurationMS           int64   `json:"max_duration_ms"`
	TotalErrors             int     `json:"total_errors"`
	TotalEnglish            int     `json:"total_english"`
	TotalChinese            int     `json:"total_chinese"`
}
