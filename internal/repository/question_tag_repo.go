package repository

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
)

// QuestionTagRepository defines the interface for question-tag associations.
type QuestionTagRepository interface {
	// Reconcile converges the stored association set for a question to
	// exactly the given tag ids, computing and applying the minimal
	// add/remove delta in one transaction. An empty set removes every
	// association for the question.
	Reconcile(ctx context.Context, questionID int64, tagIDs []int64) error
	// TagsForQuestion returns the tags currently associated with a
	// question, ordered by name.
	TagsForQuestion(ctx context.Context, questionID int64) ([]entity.Tag, error)
}
