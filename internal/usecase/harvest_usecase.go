package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
)

const (
	sourceURLEnglish = "https://repost.aws/questions?view=all&sort=recent"
	sourceURLChinese = "https://repost.aws/zh-Hant/questions?view=all&sort=recent"
)

// Harvester defines the interface for one end-to-end harvest: fetch both
// listing sources and feed the combined batch through the pipeline.
type Harvester interface {
	Harvest(ctx context.Context) (*entity.RunSummary, error)
}

type harvestUseCase struct {
	extractor repository.ExtractorRepository
	pipeline  Pipeline
	runLock   repository.RunLockRepository
	lockTTL   time.Duration
	sources   []string
}

// NewHarvester creates a new harvest use case covering the English and
// Traditional Chinese re:Post listings.
func NewHarvester(
	extractor repository.ExtractorRepository,
	pipeline Pipeline,
	runLock repository.RunLockRepository,
	lockTTL time.Duration,
) Harvester {
	return &harvestUseCase{
		extractor: extractor,
		pipeline:  pipeline,
		runLock:   runLock,
		lockTTL:   lockTTL,
		sources:   []string{sourceURLEnglish, sourceURLChinese},
	}
}

// Harvest runs one harvest under the run lock. A source that cannot be
// fetched contributes zero records; the other source keeps the run alive.
func (uc *harvestUseCase) Harvest(ctx context.Context) (*entity.RunSummary, error) {
	ok, err := uc.runLock.Acquire(ctx, uc.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, repository.ErrRunInProgress
	}
	defer func() {
		// Release even when the surrounding context was cancelled.
		if err := uc.runLock.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release run lock", "error", err)
		}
	}()

	var records []entity.QuestionRecord
	for _, src := range uc.sources {
		recs, err := uc.extractor.FetchQuestions(ctx, src)
		if err != nil {
			slog.Error("Failed to fetch questions from source", "url", src, "error", err)
			continue
		}
		records = append(records, recs...)
	}

	return uc.pipeline.Run(ctx, records), nil
}
