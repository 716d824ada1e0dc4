package entity

import "time"

// Language identifies which re:Post locale a question was harvested from.
type Language string

const (
	LanguageEnglish            Language = "en"
	LanguageTraditionalChinese Language = "zh-Hant"
)

// Question mirrors the `questions` PostgreSQL table schema.
type Question struct {
	ID                int64
	QuestionID        string // external re:Post identifier, unique
	Title             string
	Description       string
	Language          Language
	URL               string
	ViewCount         int
	VoteCount         int
	AnswersCount      int
	HasAcceptedAnswer bool
	PostedAt          *time.Time
}

// QuestionRecord is one raw harvested record as produced by the extractor.
// Pointer fields carry presence: a nil field was absent from the source and
// must be left untouched on update. URL and Language use their zero values
// ("" / "") to mean absent.
type QuestionRecord struct {
	QuestionID        *string    `json:"question_id,omitempty"`
	URL               string     `json:"url"`
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Language          Language   `json:"language,omitempty"`
	Tags              []string   `json:"tags"`
	ViewCount         *int       `json:"view_count,omitempty"`
	VoteCount         *int       `json:"vote_count,omitempty"`
	AnswersCount      *int       `json:"answers_count,omitempty"`
	HasAcceptedAnswer *bool      `json:"has_accepted_answer,omitempty"`
	PostedAt          *time.Time `json:"posted_at,omitempty"`
	CrawledAt         time.Time  `json:"crawled_at"`
}

// QuestionStatistics aggregates questions posted within a window.
type QuestionStatistics struct {
	TotalQuestions  int     `json:"total_questions"`
	EnglishCount    int     `json:"english_count"`
	ChineseCount    int     `json:"chinese_count"`
	AcceptedAnswers int     `json:"accepted_answers"`
	AvgViews        float64 `json:"avg_views"`
	AvgVotes        float64 `json:"avg_votes"`
	AvgAnswers      float64 `json:"avg_answers"`
	MaxViews        int     `json:"max_views"`
	MaxVotes        int     `json:"max_votes"`
}
