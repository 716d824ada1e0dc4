package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/user/repost-crawler/internal/entity"
)

// ExecutionRepoImpl provides a concrete implementation for the
// ExecutionRepository interface using PostgreSQL.
type ExecutionRepoImpl struct {
	gw *Gateway
}

// NewExecutionRepo creates a new instance of ExecutionRepoImpl.
func NewExecutionRepo(gw *Gateway) *ExecutionRepoImpl {
	return &ExecutionRepoImpl{gw: gw}
}

// Create appends one execution record and returns its id.
func (r *ExecutionRepoImpl) Create(ctx context.Context, exec *entity.CrawlerExecution) (int64, error) {
	var id int64
	err := r.gw.pool.QueryRow(ctx, `
		INSERT INTO crawler_executions (
			start_time, end_time, questions_processed,
			english_questions, chinese_questions, status,
			error_message, duration_ms, output_file
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		exec.StartTime,
		exec.EndTime,
		exec.QuestionsProcessed,
		exec.EnglishQuestions,
		exec.ChineseQuestions,
		string(exec.Status),
		exec.ErrorMessage,
		exec.DurationMS,
		exec.OutputFile,
	).Scan(&id)
	if err != nil {
		return 0, wrapQueryErr(err)
	}
	return id, nil
}

// Latest returns the most recent execution, or nil if the log is empty.
func (r *ExecutionRepoImpl) Latest(ctx context.Context) (*entity.CrawlerExecution, error) {
	row := r.gw.pool.QueryRow(ctx, executionColumns+`
		ORDER BY start_time DESC
		LIMIT 1`)

	exec, err := scanExecution(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	return exec, nil
}

// Recent returns the most recent executions, newest first.
func (r *ExecutionRepoImpl) Recent(ctx context.Context, limit int) ([]entity.CrawlerExecution, error) {
	return r.list(ctx, executionColumns+`
		ORDER BY start_time DESC
		LIMIT $1`, limit)
}

// Failed returns the most recent executions with status error.
func (r *ExecutionRepoImpl) Failed(ctx context.Context, limit int) ([]entity.CrawlerExecution, error) {
	return r.list(ctx, executionColumns+`
		WHERE status = 'error'
		ORDER BY start_time DESC
		LIMIT $1`, limit)
}

// DailyStatistics aggregates executions per calendar day, newest first.
func (r *ExecutionRepoImpl) DailyStatistics(ctx context.Context, limitDays int) ([]entity.DailyStatistic, error) {
	rows, err := r.gw.pool.Query(ctx, `
		SELECT
			DATE(start_time) AS crawl_date,
			COUNT(*),
			COALESCE(SUM(questions_processed), 0),
			COALESCE(SUM(english_questions), 0),
			COALESCE(SUM(chinese_questions), 0),
			COALESCE(AVG(duration_ms), 0),
			COUNT(*) FILTER (WHERE status = 'error')
		FROM crawler_executions
		GROUP BY DATE(start_time)
		ORDER BY crawl_date DESC
		LIMIT $1`, limitDays)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var stats []entity.DailyStatistic
	for rows.Next() {
		var s entity.DailyStatistic
		if err := rows.Scan(
			&s.Date,
			&s.TotalExecutions,
			&s.TotalQuestions,
			&s.TotalEnglish,
			&s.TotalChinese,
			&s.AvgDurationMS,
			&s.ErrorCount,
		); err != nil {
			return nil, wrapQueryErr(err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Summary aggregates the whole execution history.
func (r *ExecutionRepoImpl) Summary(ctx context.Context) (*entity.ExecutionSummary, error) {
	var s entity.ExecutionSummary
	err := r.gw.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(questions_processed), 0),
			COALESCE(AVG(duration_ms), 0),
			COALESCE(MIN(duration_ms), 0),
			COALESCE(MAX(duration_ms), 0),
			COUNT(*) FILTER (WHERE status = 'error'),
			COALESCE(SUM(english_questions), 0),
			COALESCE(SUM(chinese_questions), 0)
		FROM crawler_executions`,
	).Scan(
		&s.TotalExecutions,
		&s.TotalQuestionsProcessed,
		&s.AvgDurationMS,
		&s.MinDurationMS,
		&s.MaxDurationMS,
		&s.TotalErrors,
		&s.TotalEnglish,
		&s.TotalChinese,
	)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	return &s, nil
}

// UpdateStatus corrects the status and error message of an existing record.
func (r *ExecutionRepoImpl) UpdateStatus(ctx context.Context, id int64, status entity.RunStatus, errorMessage string) error {
	_, err := r.gw.pool.Exec(ctx, `
		UPDATE crawler_executions
		SET status = $1, error_message = $2
		WHERE id = $3`,
		string(status), errorMessage, id)
	if err != nil {
		return wrapQueryErr(err)
	}
	return nil
}

// CleanupOlderThan deletes execution records older than the cutoff.
func (r *ExecutionRepoImpl) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.gw.pool.Exec(ctx,
		`DELETE FROM crawler_executions WHERE start_time < NOW() - make_interval(days => $1)`,
		days)
	if err != nil {
		return 0, wrapQueryErr(err)
	}
	return tag.RowsAffected(), nil
}

const executionColumns = `
	SELECT id, start_time, end_time, questions_processed,
	       english_questions, chinese_questions, status,
	       error_message, duration_ms, output_file
	FROM crawler_executions`

func (r *ExecutionRepoImpl) list(ctx context.Context, query string, limit int) ([]entity.CrawlerExecution, error) {
	rows, err := r.gw.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var execs []entity.CrawlerExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, wrapQueryErr(err)
		}
		execs = append(execs, *exec)
	}
	return execs, rows.Err()
}

func scanExecution(row pgx.Row) (*entity.CrawlerExecution, error) {
	var e entity.CrawlerExecution
	err := row.Scan(
		&e.ID,
		&e.StartTime,
		&e.EndTime,
		&e.QuestionsProcessed,
		&e.EnglishQuestions,
		&e.ChineseQuestions,
		&e.Status,
		&e.ErrorMessage,
		&e.DurationMS,
		&e.OutputFile,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
