package repost

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/repost-crawler/internal/entity"
)

const siteBase = "https://repost.aws"

// re:Post uses hashed CSS-module class names ("QuestionCard_card__E3_x5"),
// so selectors match on the stable prefix, not the full class.
const (
	listSelector     = "div.ant-row.ant-row-start"
	cardSelector     = "div[class*='QuestionCard_card']"
	acceptedSelector = "span[class*='CustomTag_accepted']"
	dateSelector     = "span[class*='QuestionCard_date']"
	tagsSelector     = "div[class*='QuestionCard_tagContainer'] span.ant-tag"
	voteSelector     = "span[class*='QuestionCard_voteCount']"
	viewSelector     = "span[class*='QuestionCard_viewCount']"
)

// postedAtLayouts are the absolute date formats re:Post renders for older
// questions. Relative dates ("asked 2 hours ago") are not guessed at; the
// record's posted_at is simply left unset for those.
var postedAtLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// ParseQuestionList extracts question records from a rendered listing page.
// A card that cannot be parsed is logged and skipped; it never fails the
// whole page.
func ParseQuestionList(pageURL, html string) ([]entity.QuestionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	list := doc.Find(listSelector).First()
	if list.Length() == 0 {
		slog.Warn("No question list found", "url", pageURL)
		return nil, nil
	}

	language := entity.LanguageEnglish
	if strings.Contains(pageURL, "/zh-Hant/") {
		language = entity.LanguageTraditionalChinese
	}

	crawledAt := time.Now().UTC()
	var records []entity.QuestionRecord

	list.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		rec, ok := parseCard(card, language, crawledAt)
		if !ok {
			slog.Error("Skipping unparsable question card", "url", pageURL, "index", i)
			return
		}
		records = append(records, rec)
	})

	return records, nil
}

func parseCard(card *goquery.Selection, language entity.Language, crawledAt time.Time) (entity.QuestionRecord, bool) {
	anchor := card.Find("a").First()
	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return entity.QuestionRecord{}, false
	}

	title := strings.TrimSpace(anchor.Text())
	accepted := card.Find(acceptedSelector).Length() > 0
	voteCount := parseCount(card.Find(voteSelector).First().Text())
	viewCount := parseCount(card.Find(viewSelector).First().Text())

	var tags []string
	card.Find(tagsSelector).Each(func(_ int, tag *goquery.Selection) {
		if name := strings.TrimSpace(tag.Text()); name != "" {
			tags = append(tags, name)
		}
	})

	rec := entity.QuestionRecord{
		URL:               siteBase + href,
		Title:             &title,
		Language:          language,
		Tags:              tags,
		ViewCount:         &viewCount,
		VoteCount:         &voteCount,
		HasAcceptedAnswer: &accepted,
		CrawledAt:         crawledAt,
	}
	if postedAt, ok := parsePostedAt(card.Find(dateSelector).First().Text()); ok {
		rec.PostedAt = &postedAt
	}
	return rec, true
}

// parseCount pulls the leading integer out of a counter label like
// "3 votes" or "1,204 views".
func parseCount(text string) int {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			continue
		}
		if r == ',' {
			continue
		}
		if digits.Len() > 0 {
			break
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

func parsePostedAt(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
