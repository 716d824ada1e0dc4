package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/user/repost-crawler/internal/entity"
)

// QuestionTagRepoImpl provides a concrete implementation for the
// QuestionTagRepository interface using PostgreSQL.
type QuestionTagRepoImpl struct {
	gw *Gateway
}

// NewQuestionTagRepo creates a new instance of QuestionTagRepoImpl.
func NewQuestionTagRepo(gw *Gateway) *QuestionTagRepoImpl {
	return &QuestionTagRepoImpl{gw: gw}
}

// Reconcile converges the association set for a question to exactly the
// given tag ids. Current state and the add/remove delta live in one
// transaction; removal runs first to keep the bulk add free of transient
// duplicate-key pressure. The final state does not depend on prior state.
func (r *QuestionTagRepoImpl) Reconcile(ctx context.Context, questionID int64, tagIDs []int64) error {
	desired := make(map[int64]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		desired[id] = struct{}{}
	}

	return r.gw.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT tag_id FROM question_tags WHERE question_id = $1`, questionID)
		if err != nil {
			return err
		}
		current := make(map[int64]struct{})
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			current[id] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		var toRemove []int64
		for id := range current {
			if _, ok := desired[id]; !ok {
				toRemove = append(toRemove, id)
			}
		}
		var toAdd []int64
		for id := range desired {
			if _, ok := current[id]; !ok {
				toAdd = append(toAdd, id)
			}
		}

		if len(toRemove) > 0 {
			_, err := tx.Exec(ctx,
				`DELETE FROM question_tags WHERE question_id = $1 AND tag_id = ANY($2)`,
				questionID, toRemove)
			if err != nil {
				return err
			}
		}

		if len(toAdd) > 0 {
			batch := &pgx.Batch{}
			for _, tagID := range toAdd {
				batch.Queue(`
					INSERT INTO question_tags (question_id, tag_id)
					VALUES ($1, $2)
					ON CONFLICT (question_id, tag_id) DO NOTHING`,
					questionID, tagID)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return err
			}
		}
		return nil
	})
}

// TagsForQuestion returns the tags currently associated with a question.
func (r *QuestionTagRepoImpl) TagsForQuestion(ctx context.Context, questionID int64) ([]entity.Tag, error) {
	rows, err := r.gw.pool.Query(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN question_tags qt ON t.id = qt.tag_id
		WHERE qt.question_id = $1
		ORDER BY t.name`, questionID)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var tags []entity.Tag
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, wrapQueryErr(err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
