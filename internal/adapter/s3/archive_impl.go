package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
)

// ArchiveRepoImpl provides a concrete implementation for the
// ArchiveRepository interface using S3.
type ArchiveRepoImpl struct {
	client *awss3.Client
	bucket string
	prefix string
}

// NewArchiveRepo creates a new instance of ArchiveRepoImpl.
func NewArchiveRepo(client *awss3.Client, bucket, prefix string) *ArchiveRepoImpl {
	return &ArchiveRepoImpl{client: client, bucket: bucket, prefix: prefix}
}

type snapshotMetadata struct {
	QuestionCount int       `json:"question_count"`
	Timestamp     time.Time `json:"timestamp"`
}

type snapshot struct {
	Metadata  snapshotMetadata        `json:"metadata"`
	Questions []entity.QuestionRecord `json:"questions"`
}

// Store writes one timestamped JSON snapshot of the batch and returns its
// object key. An empty batch is refused rather than archived as an empty
// file.
func (r *ArchiveRepoImpl) Store(ctx context.Context, records []entity.QuestionRecord) (string, error) {
	if len(records) == 0 {
		return "", repository.ErrEmptyBatch
	}

	now := time.Now().UTC()
	data := snapshot{
		Metadata: snapshotMetadata{
			QuestionCount: len(records),
			Timestamp:     now,
		},
		Questions: records,
	}

	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("%squestions_%s.json", r.prefix, now.Format("20060102_150405"))
	_, err = r.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot to s3://%s/%s: %w", r.bucket, key, err)
	}

	slog.Info("Archived batch snapshot", "bucket", r.bucket, "key", key, "questions", len(records))
	return key, nil
}
