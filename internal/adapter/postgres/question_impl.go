package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
	"github.com/user/repost-crawler/pkg/utils"
)

// QuestionRepoImpl provides a concrete implementation for the
// QuestionRepository interface using PostgreSQL.
type QuestionRepoImpl struct {
	gw *Gateway
}

// NewQuestionRepo creates a new instance of QuestionRepoImpl.
func NewQuestionRepo(gw *Gateway) *QuestionRepoImpl {
	return &QuestionRepoImpl{gw: gw}
}

// Upsert inserts a question on first sight of its external id, otherwise
// updates only the fields present in the record. Lookup and write share one
// transaction so the returned id always matches the row that was written.
func (r *QuestionRepoImpl) Upsert(ctx context.Context, rec *entity.QuestionRecord) (int64, error) {
	externalID, err := externalID(rec)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.gw.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT id FROM questions WHERE question_id = $1`, externalID,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return tx.QueryRow(ctx, `
				INSERT INTO questions (
					question_id, title, description, language, url,
					view_count, vote_count, answers_count,
					has_accepted_answer, posted_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id`,
				externalID,
				strValue(rec.Title),
				strValue(rec.Description),
				string(rec.Language),
				rec.URL,
				intValue(rec.ViewCount),
				intValue(rec.VoteCount),
				intValue(rec.AnswersCount),
				boolValue(rec.HasAcceptedAnswer),
				rec.PostedAt,
			).Scan(&id)
		}
		if err != nil {
			return err
		}
		return updateFields(ctx, tx, id, rec)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// updateFields builds an UPDATE covering only the fields present in the
// record. A record with nothing to update is a no-op, not an error.
func updateFields(ctx context.Context, tx pgx.Tx, id int64, rec *entity.QuestionRecord) error {
	set := make([]string, 0, 9)
	args := make([]any, 0, 10)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if rec.Title != nil {
		add("title", *rec.Title)
	}
	if rec.Description != nil {
		add("description", *rec.Description)
	}
	if rec.Language != "" {
		add("language", string(rec.Language))
	}
	if rec.URL != "" {
		add("url", rec.URL)
	}
	if rec.ViewCount != nil {
		add("view_count", *rec.ViewCount)
	}
	if rec.VoteCount != nil {
		add("vote_count", *rec.VoteCount)
	}
	if rec.AnswersCount != nil {
		add("answers_count", *rec.AnswersCount)
	}
	if rec.HasAcceptedAnswer != nil {
		add("has_accepted_answer", *rec.HasAcceptedAnswer)
	}
	if rec.PostedAt != nil {
		add("posted_at", *rec.PostedAt)
	}

	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE questions SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))
	_, err := tx.Exec(ctx, query, args...)
	return err
}

// FindByQuestionID retrieves a question by its external re:Post id.
func (r *QuestionRepoImpl) FindByQuestionID(ctx context.Context, questionID string) (*entity.Question, error) {
	row := r.gw.pool.QueryRow(ctx, `
		SELECT id, question_id, title, description, language, url,
		       view_count, vote_count, answers_count, has_accepted_answer, posted_at
		FROM questions
		WHERE question_id = $1`, questionID)

	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	return q, nil
}

// Latest returns the most recently posted questions, optionally filtered by
// language.
func (r *QuestionRepoImpl) Latest(ctx context.Context, limit int, language entity.Language) ([]entity.Question, error) {
	query := `
		SELECT id, question_id, title, description, language, url,
		       view_count, vote_count, answers_count, has_accepted_answer, posted_at
		FROM questions`
	args := []any{}
	if language != "" {
		query += ` WHERE language = $1 ORDER BY posted_at DESC NULLS LAST LIMIT $2`
		args = append(args, string(language), limit)
	} else {
		query += ` ORDER BY posted_at DESC NULLS LAST LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.gw.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var questions []entity.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, wrapQueryErr(err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// Statistics aggregates questions posted within the last `days` days.
func (r *QuestionRepoImpl) Statistics(ctx context.Context, days int) (*entity.QuestionStatistics, error) {
	var s entity.QuestionStatistics
	err := r.gw.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE language = 'en'),
			COUNT(*) FILTER (WHERE language = 'zh-Hant'),
			COUNT(*) FILTER (WHERE has_accepted_answer),
			COALESCE(AVG(view_count), 0),
			COALESCE(AVG(vote_count), 0),
			COALESCE(AVG(answers_count), 0),
			COALESCE(MAX(view_count), 0),
			COALESCE(MAX(vote_count), 0)
		FROM questions
		WHERE posted_at >= NOW() - make_interval(days => $1)`, days,
	).Scan(
		&s.TotalQuestions,
		&s.EnglishCount,
		&s.ChineseCount,
		&s.AcceptedAnswers,
		&s.AvgViews,
		&s.AvgVotes,
		&s.AvgAnswers,
		&s.MaxViews,
		&s.MaxVotes,
	)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	return &s, nil
}

// DeleteOlderThan removes questions posted before the cutoff.
func (r *QuestionRepoImpl) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.gw.pool.Exec(ctx,
		`DELETE FROM questions WHERE posted_at < NOW() - make_interval(days => $1)`, days)
	if err != nil {
		return 0, wrapQueryErr(err)
	}
	return tag.RowsAffected(), nil
}

func externalID(rec *entity.QuestionRecord) (string, error) {
	if rec.QuestionID != nil && *rec.QuestionID != "" {
		return *rec.QuestionID, nil
	}
	if id := utils.QuestionIDFromURL(rec.URL); id != "" {
		return id, nil
	}
	return "", repository.ErrMissingQuestionID
}

func scanQuestion(row pgx.Row) (*entity.Question, error) {
	var q entity.Question
	err := row.Scan(
		&q.ID,
		&q.QuestionID,
		&q.Title,
		&q.Description,
		&q.Language,
		&q.URL,
		&q.ViewCount,
		&q.VoteCount,
		&q.AnswersCount,
		&q.HasAcceptedAnswer,
		&q.PostedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolValue(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
