package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
)

// fakeExtractor implements repository.ExtractorRepository for testing.
type fakeExtractor struct {
	records     map[string][]entity.QuestionRecord
	failChinese bool
	fetchedURLs []string
}

func (f *fakeExtractor) FetchQuestions(ctx context.Context, pageURL string) ([]entity.QuestionRecord, error) {
	f.fetchedURLs = append(f.fetchedURLs, pageURL)
	if f.failChinese && strings.Contains(pageURL, "/zh-Hant/") {
		return nil, errors.New("page render timed out")
	}
	return f.records[pageURL], nil
}

// fakePipeline implements Pipeline for testing.
type fakePipeline struct {
	received []entity.QuestionRecord
	summary  *entity.RunSummary
}

func (f *fakePipeline) Run(ctx context.Context, records []entity.QuestionRecord) *entity.RunSummary {
	f.received = records
	if f.summary != nil {
		return f.summary
	}
	return &entity.RunSummary{
		Status:             entity.RunStatusSuccess,
		QuestionsProcessed: len(records),
	}
}

// fakeRunLock implements repository.RunLockRepository for testing.
type fakeRunLock struct {
	held       bool
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeRunLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	if f.held {
		return false, nil
	}
	f.held = true
	f.acquired++
	return true, nil
}

func (f *fakeRunLock) Release(ctx context.Context) error {
	f.held = false
	f.released++
	return nil
}

func TestHarvestCombinesBothSources(t *testing.T) {
	extractor := &fakeExtractor{
		records: map[string][]entity.QuestionRecord{
			sourceURLEnglish: {
				record("https://repost.aws/questions/q1", entity.LanguageEnglish),
				record("https://repost.aws/questions/q2", entity.LanguageEnglish),
			},
			sourceURLChinese: {
				record("https://repost.aws/zh-Hant/questions/q3", entity.LanguageTraditionalChinese),
			},
		},
	}
	pipeline := &fakePipeline{}
	lock := &fakeRunLock{}
	harvester := NewHarvester(extractor, pipeline, lock, time.Minute)

	summary, err := harvester.Harvest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.QuestionsProcessed)
	assert.Len(t, pipeline.received, 3)
	assert.Equal(t, []string{sourceURLEnglish, sourceURLChinese}, extractor.fetchedURLs)
	assert.Equal(t, 1, lock.released, "lock must be released after the run")
}

func TestHarvestContinuesWhenOneSourceFails(t *testing.T) {
	extractor := &fakeExtractor{
		records: map[string][]entity.QuestionRecord{
			sourceURLEnglish: {
				record("https://repost.aws/questions/q1", entity.LanguageEnglish),
			},
		},
		failChinese: true,
	}
	pipeline := &fakePipeline{}
	lock := &fakeRunLock{}
	harvester := NewHarvester(extractor, pipeline, lock, time.Minute)

	_, err := harvester.Harvest(context.Background())
	require.NoError(t, err)

	assert.Len(t, pipeline.received, 1, "the surviving source still feeds the run")
	assert.Len(t, extractor.fetchedURLs, 2, "both sources are attempted")
}

func TestHarvestRefusedWhileLockHeld(t *testing.T) {
	pipeline := &fakePipeline{}
	lock := &fakeRunLock{held: true}
	harvester := NewHarvester(&fakeExtractor{}, pipeline, lock, time.Minute)

	_, err := harvester.Harvest(context.Background())

	assert.ErrorIs(t, err, repository.ErrRunInProgress)
	assert.Nil(t, pipeline.received, "a refused run must not reach the pipeline")
	assert.Zero(t, lock.released, "a lock we never took must not be released")
}

func TestHarvestSurfacesLockBackendFailure(t *testing.T) {
	lock := &fakeRunLock{acquireErr: errors.New("redis unreachable")}
	harvester := NewHarvester(&fakeExtractor{}, &fakePipeline{}, lock, time.Minute)

	_, err := harvester.Harvest(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrRunInProgress)
}
