package usecase

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
	"github.com/user/repost-crawler/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

// fakeQuestionRepo implements repository.QuestionRepository for testing.
type fakeQuestionRepo struct {
	nextID    int64
	upserts   []string // URLs in upsert order
	failOnURL string
	failWith  error
}

func (f *fakeQuestionRepo) Upsert(ctx context.Context, rec *entity.QuestionRecord) (int64, error) {
	if f.failOnURL != "" && rec.URL == f.failOnURL {
		if f.failWith != nil {
			return 0, f.failWith
		}
		return 0, errors.New("upsert failed")
	}
	f.nextID++
	f.upserts = append(f.upserts, rec.URL)
	return f.nextID, nil
}

func (f *fakeQuestionRepo) FindByQuestionID(ctx context.Context, questionID string) (*entity.Question, error) {
	return nil, nil
}

func (f *fakeQuestionRepo) Latest(ctx context.Context, limit int, language entity.Language) ([]entity.Question, error) {
	return nil, nil
}

func (f *fakeQuestionRepo) Statistics(ctx context.Context, days int) (*entity.QuestionStatistics, error) {
	return &entity.QuestionStatistics{}, nil
}

func (f *fakeQuestionRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

// fakeTagRepo implements repository.TagRepository for testing.
type fakeTagRepo struct {
	ids    map[string]int64
	nextID int64
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{ids: make(map[string]int64)}
}

func (f *fakeTagRepo) GetOrCreate(ctx context.Context, name string) (int64, error) {
	if id, ok := f.ids[name]; ok {
		return id, nil
	}
	f.nextID++
	f.ids[name] = f.nextID
	return f.nextID, nil
}

func (f *fakeTagRepo) FindByName(ctx context.Context, name string) (*entity.Tag, error) {
	return nil, nil
}

func (f *fakeTagRepo) UsageCounts(ctx context.Context) ([]entity.TagUsage, error) {
	return nil, nil
}

// fakeQuestionTagRepo implements repository.QuestionTagRepository for testing.
type fakeQuestionTagRepo struct {
	reconciled map[int64][]int64 // last desired set per question id
}

func newFakeQuestionTagRepo() *fakeQuestionTagRepo {
	return &fakeQuestionTagRepo{reconciled: make(map[int64][]int64)}
}

func (f *fakeQuestionTagRepo) Reconcile(ctx context.Context, questionID int64, tagIDs []int64) error {
	f.reconciled[questionID] = tagIDs
	return nil
}

func (f *fakeQuestionTagRepo) TagsForQuestion(ctx context.Context, questionID int64) ([]entity.Tag, error) {
	return nil, nil
}

// fakeExecutionRepo implements repository.ExecutionRepository for testing.
type fakeExecutionRepo struct {
	created    []entity.CrawlerExecution
	failCreate bool
}

func (f *fakeExecutionRepo) Create(ctx context.Context, exec *entity.CrawlerExecution) (int64, error) {
	if f.failCreate {
		return 0, errors.New("audit append failed")
	}
	f.created = append(f.created, *exec)
	return int64(len(f.created)), nil
}

func (f *fakeExecutionRepo) Latest(ctx context.Context) (*entity.CrawlerExecution, error) {
	return nil, nil
}

func (f *fakeExecutionRepo) Recent(ctx context.Context, limit int) ([]entity.CrawlerExecution, error) {
	return nil, nil
}

func (f *fakeExecutionRepo) Failed(ctx context.Context, limit int) ([]entity.CrawlerExecution, error) {
	return nil, nil
}

func (f *fakeExecutionRepo) DailyStatistics(ctx context.Context, limitDays int) ([]entity.DailyStatistic, error) {
	return nil, nil
}

func (f *fakeExecutionRepo) Summary(ctx context.Context) (*entity.ExecutionSummary, error) {
	return &entity.ExecutionSummary{}, nil
}

func (f *fakeExecutionRepo) UpdateStatus(ctx context.Context, id int64, status entity.RunStatus, errorMessage string) error {
	return nil
}

func (f *fakeExecutionRepo) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

// fakeArchiveRepo implements repository.ArchiveRepository for testing.
type fakeArchiveRepo struct {
	stored [][]entity.QuestionRecord
	err    error
}

func (f *fakeArchiveRepo) Store(ctx context.Context, records []entity.QuestionRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if len(records) == 0 {
		return "", repository.ErrEmptyBatch
	}
	f.stored = append(f.stored, records)
	return "repost-questions/questions_test.json", nil
}

type pipelineFakes struct {
	questions  *fakeQuestionRepo
	tags       *fakeTagRepo
	assocs     *fakeQuestionTagRepo
	executions *fakeExecutionRepo
	archive    *fakeArchiveRepo
}

func newTestPipeline() (Pipeline, *pipelineFakes) {
	f := &pipelineFakes{
		questions:  &fakeQuestionRepo{},
		tags:       newFakeTagRepo(),
		assocs:     newFakeQuestionTagRepo(),
		executions: &fakeExecutionRepo{},
		archive:    &fakeArchiveRepo{},
	}
	return NewPipeline(f.questions, f.tags, f.assocs, f.executions, f.archive), f
}

func record(url string, language entity.Language, tags ...string) entity.QuestionRecord {
	title := "title for " + url
	return entity.QuestionRecord{
		URL:       url,
		Title:     &title,
		Language:  language,
		Tags:      tags,
		CrawledAt: time.Now().UTC(),
	}
}

func TestRunProcessesWholeBatch(t *testing.T) {
	pipeline, f := newTestPipeline()

	summary := pipeline.Run(context.Background(), []entity.QuestionRecord{
		record("https://repost.aws/questions/q1", entity.LanguageEnglish, "ec2"),
		record("https://repost.aws/questions/q2", entity.LanguageEnglish, "s3", "lambda"),
		record("https://repost.aws/zh-Hant/questions/q3", entity.LanguageTraditionalChinese, "ec2"),
	})

	assert.Equal(t, entity.RunStatusSuccess, summary.Status)
	assert.Equal(t, 3, summary.QuestionsProcessed)
	assert.Equal(t, 2, summary.EnglishQuestions)
	assert.Equal(t, 1, summary.ChineseQuestions)
	assert.Zero(t, summary.FailedRecords)
	assert.NotEmpty(t, summary.OutputFile)
	assert.Len(t, f.assocs.reconciled, 3)
}

func TestRunPartialFailureIsolation(t *testing.T) {
	pipeline, f := newTestPipeline()
	f.questions.failOnURL = "https://repost.aws/questions/q2"

	summary := pipeline.Run(context.Background(), []entity.QuestionRecord{
		record("https://repost.aws/questions/q1", entity.LanguageEnglish),
		record("https://repost.aws/questions/q2", entity.LanguageEnglish),
		record("https://repost.aws/questions/q3", entity.LanguageEnglish),
	})

	// One bad record never aborts the batch or fails the run by itself.
	assert.Equal(t, entity.RunStatusSuccess, summary.Status)
	assert.Equal(t, 2, summary.QuestionsProcessed)
	assert.Equal(t, 1, summary.FailedRecords)
	assert.Equal(t, []string{
		"https://repost.aws/questions/q1",
		"https://repost.aws/questions/q3",
	}, f.questions.upserts)
}

func TestRunRecordsExactlyOneExecution(t *testing.T) {
	for _, tc := range []struct {
		name       string
		archiveErr error
		wantStatus entity.RunStatus
	}{
		{name: "success", wantStatus: entity.RunStatusSuccess},
		{name: "failure", archiveErr: errors.New("bucket gone"), wantStatus: entity.RunStatusError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pipeline, f := newTestPipeline()
			f.archive.err = tc.archiveErr

			summary := pipeline.Run(context.Background(), []entity.QuestionRecord{
				record("https://repost.aws/questions/q1", entity.LanguageEnglish),
			})

			require.Len(t, f.executions.created, 1)
			exec := f.executions.created[0]
			assert.Equal(t, tc.wantStatus, summary.Status)
			assert.Equal(t, tc.wantStatus, exec.Status)
			assert.Equal(t, summary.QuestionsProcessed, exec.QuestionsProcessed)
			assert.GreaterOrEqual(t, exec.DurationMS, int64(0))
			assert.False(t, exec.EndTime.Before(exec.StartTime))
			if tc.archiveErr != nil {
				assert.NotEmpty(t, exec.ErrorMessage)
			}
		})
	}
}

func TestRunConnectionLossAbortsLoop(t *testing.T) {
	pipeline, f := newTestPipeline()
	f.questions.failOnURL = "https://repost.aws/questions/q1"
	f.questions.failWith = repository.ErrConnectionUnavailable

	summary := pipeline.Run(context.Background(), []entity.QuestionRecord{
		record("https://repost.aws/questions/q1", entity.LanguageEnglish),
		record("https://repost.aws/questions/q2", entity.LanguageEnglish),
	})

	assert.Equal(t, entity.RunStatusError, summary.Status)
	assert.Zero(t, summary.QuestionsProcessed)
	assert.Empty(t, f.questions.upserts, "loop must stop at the fatal error")
	assert.Empty(t, f.archive.stored, "a dead run must not archive")
	require.Len(t, f.executions.created, 1)
	assert.Equal(t, entity.RunStatusError, f.executions.created[0].Status)
}

func TestRunAuditFailureDoesNotMaskOutcome(t *testing.T) {
	pipeline, f := newTestPipeline()
	f.executions.failCreate = true

	summary := pipeline.Run(context.Background(), []entity.QuestionRecord{
		record("https://repost.aws/questions/q1", entity.LanguageEnglish),
	})

	assert.Equal(t, entity.RunStatusSuccess, summary.Status)
	assert.Equal(t, 1, summary.QuestionsProcessed)
}

func TestRunEmptyBatchFails(t *testing.T) {
	pipeline, f := newTestPipeline()

	summary := pipeline.Run(context.Background(), nil)

	assert.Equal(t, entity.RunStatusError, summary.Status)
	assert.Contains(t, summary.ErrorMessage, repository.ErrEmptyBatch.Error())
	require.Len(t, f.executions.created, 1)
}

func TestRunCollapsesDuplicateTagNames(t *testing.T) {
	pipeline, f := newTestPipeline()

	summary := pipeline.Run(context.Background(), []entity.QuestionRecord{
		record("https://repost.aws/questions/q1", entity.LanguageEnglish,
			"ec2", " ec2", "lambda", ""),
	})

	assert.Equal(t, 1, summary.QuestionsProcessed)
	require.Len(t, f.assocs.reconciled, 1)
	assert.Len(t, f.assocs.reconciled[1], 2, "duplicate and empty names collapse")
}
