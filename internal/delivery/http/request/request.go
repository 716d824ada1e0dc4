package request

// CleanupRequest names the retention cutoffs for the explicit cleanup
// endpoint. A zero or missing value skips that sweep.
type CleanupRequest struct {
	ExecutionDays int `json:"execution_days"`
	QuestionDays  int `json:"question_days"`
}
