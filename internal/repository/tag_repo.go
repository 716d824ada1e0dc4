package repository

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
)

// TagRepository defines the interface for the shared tag namespace.
type TagRepository interface {
	// GetOrCreate resolves a tag name to its id, creating the tag on first
	// sight. Concurrent creators racing on the same name are resolved by
	// retrying the lookup once; if that still fails the call surfaces
	// ErrTagConflict. Names are trimmed, identity is case-sensitive.
	GetOrCreate(ctx context.Context, name string) (int64, error)
	// FindByName retrieves a tag by exact name. Returns nil when absent.
	FindByName(ctx context.Context, name string) (*entity.Tag, error)
	// UsageCounts returns per-tag association counts, most used first.
	UsageCounts(ctx context.Context) ([]entity.TagUsage, error)
}
