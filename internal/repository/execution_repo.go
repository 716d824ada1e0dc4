package repository

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
)

// ExecutionRepository defines the interface for the append-only run audit log.
type ExecutionRepository interface {
	// Create appends one execution record and returns its id.
	Create(ctx context.Context, exec *entity.CrawlerExecution) (int64, error)
	// Latest returns the most recent execution, or nil if none exist.
	Latest(ctx context.Context) (*entity.CrawlerExecution, error)
	// Recent returns the most recent executions, newest first.
	Recent(ctx context.Context, limit int) ([]entity.CrawlerExecution, error)
	// Failed returns the most recent executions with status error.
	Failed(ctx context.Context, limit int) ([]entity.CrawlerExecution, error)
	// DailyStatistics aggregates executions per calendar day, newest first.
	DailyStatistics(ctx context.Context, limitDays int) ([]entity.DailyStatistic, error)
	// Summary aggregates the whole execution history.
	Summary(ctx context.Context) (*entity.ExecutionSummary, error)
	// UpdateStatus corrects the status and error message of an existing
	// record. The only permitted post-hoc mutation of the audit log.
	UpdateStatus(ctx context.Context, id int64, status entity.RunStatus, errorMessage string) error
	// CleanupOlderThan deletes execution records older than the cutoff and
	// returns how many were removed. Must be invoked explicitly.
	CleanupOlderThan(ctx context.Context, days int) (int64, error)
}
