package repository

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
)

// QuestionRepository defines the interface for storing and querying questions.
type QuestionRepository interface {
	// Upsert inserts the question on first sight of its external id and
	// partially updates it afterwards: only fields present in the record
	// are written, absent fields are left untouched. Returns the internal
	// id in both cases. Calling it twice with the same external id never
	// creates a second row.
	Upsert(ctx context.Context, rec *entity.QuestionRecord) (int64, error)
	// FindByQuestionID retrieves a question by its external re:Post id.
	// Returns nil when no such question exists.
	FindByQuestionID(ctx context.Context, questionID string) (*entity.Question, error)
	// Latest returns the most recently posted questions, optionally
	// filtered by language ("" means all languages).
	Latest(ctx context.Context, limit int, language entity.Language) ([]entity.Question, error)
	// Statistics aggregates questions posted within the last `days` days.
	Statistics(ctx context.Context, days int) (*entity.QuestionStatistics, error)
	// DeleteOlderThan removes questions posted before the cutoff. Explicit
	// retention sweep, never invoked by the pipeline itself.
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
