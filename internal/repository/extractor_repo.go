package repository

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
)

// ExtractorRepository defines the contract for fetching and parsing one
// re:Post listing page into raw question records. A card that cannot be
// parsed is skipped, not an error for the whole page.
type ExtractorRepository interface {
	FetchQuestions(ctx context.Context, pageURL string) ([]entity.QuestionRecord, error)
}
