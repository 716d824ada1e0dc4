package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
	"github.com/user/repost-crawler/pkg/metrics"
)

// Pipeline defines the interface for one ingestion reconciliation run.
type Pipeline interface {
	// Run reconciles a batch of raw records into the store and appends
	// exactly one execution record. It always returns a summary, even for
	// total failure; no error escapes a run.
	Run(ctx context.Context, records []entity.QuestionRecord) *entity.RunSummary
}

type pipelineUseCase struct {
	questionRepo    repository.QuestionRepository
	tagRepo         repository.TagRepository
	questionTagRepo repository.QuestionTagRepository
	executionRepo   repository.ExecutionRepository
	archiveRepo     repository.ArchiveRepository
}

// NewPipeline creates a new instance of the pipeline use case.
func NewPipeline(
	questionRepo repository.QuestionRepository,
	tagRepo repository.TagRepository,
	questionTagRepo repository.QuestionTagRepository,
	executionRepo repository.ExecutionRepository,
	archiveRepo repository.ArchiveRepository,
) Pipeline {
	return &pipelineUseCase{
		questionRepo:    questionRepo,
		tagRepo:         tagRepo,
		questionTagRepo: questionTagRepo,
		executionRepo:   executionRepo,
		archiveRepo:     archiveRepo,
	}
}

// Run processes the batch record by record. A failing record is logged,
// counted and skipped; only losing the database entirely aborts the loop.
// Each record is its own unit of work, so a failure on record N never rolls
// back records 1..N-1.
func (uc *pipelineUseCase) Run(ctx context.Context, records []entity.QuestionRecord) *entity.RunSummary {
	startTime := time.Now()
	summary := &entity.RunSummary{Status: entity.RunStatusSuccess}
	var runErr error

	for i := range records {
		rec := &records[i]
		if err := uc.processRecord(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrConnectionUnavailable) {
				runErr = err
				break
			}
			slog.Error("Failed to process record, skipping", "url", rec.URL, "error", err)
			summary.FailedRecords++
			metrics.RecordFailures.Inc()
			continue
		}
		summary.QuestionsProcessed++
		if rec.Language == entity.LanguageTraditionalChinese {
			summary.ChineseQuestions++
		} else {
			summary.EnglishQuestions++
		}
		metrics.RecordsProcessed.WithLabelValues(string(rec.Language)).Inc()
	}

	if runErr == nil {
		outputFile, err := uc.archiveRepo.Store(ctx, records)
		if err != nil {
			runErr = fmt.Errorf("failed to archive batch: %w", err)
		} else {
			summary.OutputFile = outputFile
		}
	}

	endTime := time.Now()
	summary.DurationMS = endTime.Sub(startTime).Milliseconds()
	if runErr != nil {
		summary.Status = entity.RunStatusError
		summary.ErrorMessage = runErr.Error()
		slog.Error("Harvest run failed", "error", runErr)
	} else {
		slog.Info("Harvest run succeeded",
			"questions_processed", summary.QuestionsProcessed,
			"failed_records", summary.FailedRecords,
			"duration_ms", summary.DurationMS,
		)
	}

	uc.recordRun(ctx, startTime, endTime, summary)

	metrics.RunsTotal.WithLabelValues(string(summary.Status)).Inc()
	metrics.RunDuration.Observe(endTime.Sub(startTime).Seconds())
	return summary
}

// processRecord upserts one question and converges its tag set. One record,
// two store units of work.
func (uc *pipelineUseCase) processRecord(ctx context.Context, rec *entity.QuestionRecord) error {
	questionID, err := uc.questionRepo.Upsert(ctx, rec)
	if err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}

	// Duplicate names in the record collapse to one id.
	desired := make([]int64, 0, len(rec.Tags))
	seen := make(map[int64]struct{}, len(rec.Tags))
	for _, name := range rec.Tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tagID, err := uc.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}
		if _, ok := seen[tagID]; ok {
			continue
		}
		seen[tagID] = struct{}{}
		desired = append(desired, tagID)
	}

	if err := uc.questionTagRepo.Reconcile(ctx, questionID, desired); err != nil {
		return fmt.Errorf("reconcile tags: %w", err)
	}
	return nil
}

// recordRun appends the audit record for this run. An audit-append failure
// is logged and swallowed: it must never mask the run outcome.
func (uc *pipelineUseCase) recordRun(ctx context.Context, startTime, endTime time.Time, summary *entity.RunSummary) {
	exec := &entity.CrawlerExecution{
		StartTime:          startTime,
		EndTime:            endTime,
		QuestionsProcessed: summary.QuestionsProcessed,
		EnglishQuestions:   summary.EnglishQuestions,
		ChineseQuestions:   summary.ChineseQuestions,
		Status:             summary.Status,
		ErrorMessage:       summary.ErrorMessage,
		DurationMS:         summary.DurationMS,
		OutputFile:         summary.OutputFile,
	}
	if _, err := uc.executionRepo.Create(ctx, exec); err != nil {
		slog.Error("Failed to record execution", "status", summary.Status, "error", err)
	}
}
