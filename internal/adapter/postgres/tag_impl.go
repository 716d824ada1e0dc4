package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// TagRepoImpl provides a concrete implementation for the TagRepository
// interface using PostgreSQL.
type TagRepoImpl struct {
	gw *Gateway
}

// NewTagRepo creates a new instance of TagRepoImpl.
func NewTagRepo(gw *Gateway) *TagRepoImpl {
	return &TagRepoImpl{gw: gw}
}

// GetOrCreate resolves a tag name to its id, creating it on first sight.
// Uniqueness is enforced by the tags_name_key constraint, not by
// check-then-act: losing the insert race falls back to one retry lookup.
func (r *TagRepoImpl) GetOrCreate(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)

	id, err := r.findID(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, wrapQueryErr(err)
	}

	err = r.gw.pool.QueryRow(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		// A concurrent creator won the race; its row must be visible now.
		id, retryErr := r.findID(ctx, name)
		if retryErr == nil {
			return id, nil
		}
		return 0, fmt.Errorf("%w: tag %q: %v", repository.ErrTagConflict, name, retryErr)
	}
	return 0, wrapQueryErr(err)
}

func (r *TagRepoImpl) findID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.gw.pool.QueryRow(ctx,
		`SELECT id FROM tags WHERE name = $1`, name,
	).Scan(&id)
	return id, err
}

// FindByName retrieves a tag by exact name.
func (r *TagRepoImpl) FindByName(ctx context.Context, name string) (*entity.Tag, error) {
	var t entity.Tag
	err := r.gw.pool.QueryRow(ctx,
		`SELECT id, name FROM tags WHERE name = $1`, strings.TrimSpace(name),
	).Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	return &t, nil
}

// UsageCounts returns per-tag association counts with a per-language split,
// most used first.
func (r *TagRepoImpl) UsageCounts(ctx context.Context) ([]entity.TagUsage, error) {
	rows, err := r.gw.pool.Query(ctx, `
		SELECT
			t.id,
			t.name,
			COUNT(qt.question_id),
			COUNT(q.id) FILTER (WHERE q.language = 'en'),
			COUNT(q.id) FILTER (WHERE q.language = 'zh-Hant')
		FROM tags t
		LEFT JOIN question_tags qt ON t.id = qt.tag_id
		LEFT JOIN questions q ON qt.question_id = q.id
		GROUP BY t.id, t.name
		ORDER BY COUNT(qt.question_id) DESC, t.name`)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var usages []entity.TagUsage
	for rows.Next() {
		var u entity.TagUsage
		if err := rows.Scan(&u.ID, &u.Name, &u.UsageCount, &u.EnglishCount, &u.ChineseCount); err != nil {
			return nil, wrapQueryErr(err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
