package repository

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
)

// ArchiveRepository defines the interface for writing a point-in-time
// snapshot of a harvested batch to blob storage.
type ArchiveRepository interface {
	// Store writes the batch plus metadata and returns the object key of
	// the snapshot. An empty batch is refused with ErrEmptyBatch.
	Store(ctx context.Context, records []entity.QuestionRecord) (string, error)
}
