package repost

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/repost-crawler/internal/entity"
	"github.com/user/repost-crawler/internal/repository"
)

// ExtractorImpl fetches re:Post listing pages with a headless browser and
// parses the question cards. The listing is a client-rendered Ant Design
// app, so a plain GET returns an empty shell; the page has to be rendered
// before the cards exist in the DOM.
type ExtractorImpl struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
}

// NewExtractor creates a new extractor implementation using chromedp.
func NewExtractor(userAgent string, pageLoadTimeout time.Duration) repository.ExtractorRepository {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(userAgent),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	return &ExtractorImpl{
		allocatorPool: pool,
		timeout:       pageLoadTimeout,
	}
}

// FetchQuestions renders one listing page and returns its question records.
func (e *ExtractorImpl) FetchQuestions(ctx context.Context, pageURL string) ([]entity.QuestionRecord, error) {
	allocCtx := e.allocatorPool.Get().(context.Context)
	defer e.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, e.timeout)
	defer cancel()

	slog.Info("Fetching questions", "url", pageURL)

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("div.ant-row", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	records, err := ParseQuestionList(pageURL, html)
	if err != nil {
		return nil, err
	}

	slog.Info("Successfully processed questions", "url", pageURL, "count", len(records))
	return records, nil
}
