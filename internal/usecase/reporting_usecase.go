package usecase

import (
	"context"

	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
)

const (
	defaultRunLimit      = 100
	defaultFailedLimit   = 50
	defaultDailyLimit    = 30
	defaultQuestionLimit = 100
	maxListLimit         = 500
)

// Reporting defines the read-only interface over the audit log and the
// stored questions, plus the explicit retention sweeps.
type Reporting interface {
	LatestRun(ctx context.Context) (*entity.CrawlerExecution, error)
	RecentRuns(ctx context.Context, limit int) ([]entity.CrawlerExecution, error)
	FailedRuns(ctx context.Context, limit int) ([]entity.CrawlerExecution, error)
	DailyStatistics(ctx context.Context, limitDays int) ([]entity.DailyStatistic, error)
	ExecutionSummary(ctx context.Context) (*entity.ExecutionSummary, error)
	LatestQuestions(ctx context.Context, limit int, language entity.Language) ([]entity.Question, error)
	QuestionStatistics(ctx context.Context, days int) (*entity.QuestionStatistics, error)
	TagUsage(ctx context.Context) ([]entity.TagUsage, error)
	// Cleanup deletes executions and questions older than the respective
	// cutoffs. A non-positive cutoff skips that sweep.
	Cleanup(ctx context.Context, executionDays, questionDays int) (executionsDeleted, questionsDeleted int64, err error)
}

type reportingUseCase struct {
	questionRepo  repository.QuestionRepository
	tagRepo       repository.TagRepository
	executionRepo repository.ExecutionRepository
}

// NewReporting creates a new reporting use case.
func NewReporting(
	questionRepo repository.QuestionRepository,
	tagRepo repository.TagRepository,
	executionRepo repository.ExecutionRepository,
) Reporting {
	return &reportingUseCase{
		questionRepo:  questionRepo,
		tagRepo:       tagRepo,
		executionRepo: executionRepo,
	}
}

func (uc *reportingUseCase) LatestRun(ctx context.Context) (*entity.CrawlerExecution, error) {
	return uc.executionRepo.Latest(ctx)
}

func (uc *reportingUseCase) RecentRuns(ctx context.Context, limit int) ([]entity.CrawlerExecution, error) {
	return uc.executionRepo.Recent(ctx, clampLimit(limit, defaultRunLimit))
}

func (uc *reportingUseCase) FailedRuns(ctx context.Context, limit int) ([]entity.CrawlerExecution, error) {
	return uc.executionRepo.Failed(ctx, clampLimit(limit, defaultFailedLimit))
}

func (uc *reportingUseCase) DailyStatistics(ctx context.Context, limitDays int) ([]entity.DailyStatistic, error) {
	return uc.executionRepo.DailyStatistics(ctx, clampLimit(limitDays, defaultDailyLimit))
}

func (uc *reportingUseCase) ExecutionSummary(ctx context.Context) (*entity.ExecutionSummary, error) {
	return uc.executionRepo.Summary(ctx)
}

func (uc *reportingUseCase) LatestQuestions(ctx context.Context, limit int, language entity.Language) ([]entity.Question, error) {
	return uc.questionRepo.Latest(ctx, clampLimit(limit, defaultQuestionLimit), language)
}

func (uc *reportingUseCase) QuestionStatistics(ctx context.Context, days int) (*entity.QuestionStatistics, error) {
	return uc.questionRepo.Statistics(ctx, clampLimit(days, defaultDailyLimit))
}

func (uc *reportingUseCase) TagUsage(ctx context.Context) ([]entity.TagUsage, error) {
	return uc.tagRepo.UsageCounts(ctx)
}

func (uc *reportingUseCase) Cleanup(ctx context.Context, executionDays, questionDays int) (int64, int64, error) {
	var executionsDeleted, questionsDeleted int64
	var err error
	if executionDays > 0 {
		executionsDeleted, err = uc.executionRepo.CleanupOlderThan(ctx, executionDays)
		if err != nil {
			return 0, 0, err
		}
	}
	if questionDays > 0 {
		questionsDeleted, err = uc.questionRepo.DeleteOlderThan(ctx, questionDays)
		if err != nil {
			return executionsDeleted, 0, err
		}
	}
	return executionsDeleted, questionsDeleted, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
