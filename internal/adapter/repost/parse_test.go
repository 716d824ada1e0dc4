package repost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/repost-crawler/internal/entity"
)

const listingFixture = `
<html><body>
<div class="ant-row ant-row-start">
  <div class="QuestionCard_card__E3_x5 QuestionCard_grid__0e3xB">
    <a href="/questions/QU-abc123">How do I resize an EBS volume?</a>
    <span class="ant-tag CustomTag_tag__kXm6J CustomTag_accepted__VKlHK">Accepted</span>
    <span class="QuestionCard_date__TUqqb">January 5, 2025</span>
    <div class="QuestionCard_tagContainer__hXXd5">
      <span class="ant-tag">Amazon EBS</span>
      <span class="ant-tag">Amazon EC2</span>
    </div>
    <span class="QuestionCard_voteCount__DOYYL">3 votes</span>
    <span class="QuestionCard_viewCount__lOPE5">1,204 views</span>
  </div>
  <div class="QuestionCard_card__E3_x5 QuestionCard_grid__0e3xB">
    <a href="/questions/QU-def456">Lambda cold starts</a>
    <span class="QuestionCard_date__TUqqb">asked 2 hours ago</span>
  </div>
  <div class="QuestionCard_card__E3_x5 QuestionCard_grid__0e3xB">
    <span>card without a link is skipped</span>
  </div>
</div>
</body></html>`

func TestParseQuestionList(t *testing.T) {
	records, err := ParseQuestionList("https://repost.aws/questions?view=all&sort=recent", listingFixture)
	require.NoError(t, err)
	require.Len(t, records, 2, "the linkless card is skipped")

	first := records[0]
	assert.Equal(t, "https://repost.aws/questions/QU-abc123", first.URL)
	require.NotNil(t, first.Title)
	assert.Equal(t, "How do I resize an EBS volume?", *first.Title)
	assert.Equal(t, entity.LanguageEnglish, first.Language)
	assert.Equal(t, []string{"Amazon EBS", "Amazon EC2"}, first.Tags)
	require.NotNil(t, first.VoteCount)
	assert.Equal(t, 3, *first.VoteCount)
	require.NotNil(t, first.ViewCount)
	assert.Equal(t, 1204, *first.ViewCount)
	require.NotNil(t, first.HasAcceptedAnswer)
	assert.True(t, *first.HasAcceptedAnswer)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, 2025, first.PostedAt.Year())
	assert.False(t, first.CrawledAt.IsZero())

	second := records[1]
	require.NotNil(t, second.HasAcceptedAnswer)
	assert.False(t, *second.HasAcceptedAnswer)
	assert.Nil(t, second.PostedAt, "relative dates are not guessed at")
	assert.Empty(t, second.Tags)
	require.NotNil(t, second.VoteCount)
	assert.Zero(t, *second.VoteCount)
}

func TestParseQuestionListChineseLocale(t *testing.T) {
	records, err := ParseQuestionList("https://repost.aws/zh-Hant/questions?view=all&sort=recent", listingFixture)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, entity.LanguageTraditionalChinese, records[0].Language)
}

func TestParseQuestionListNoListing(t *testing.T) {
	records, err := ParseQuestionList("https://repost.aws/questions", "<html><body><p>maintenance</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCount(t *testing.T) {
	for text, want := range map[string]int{
		"3 votes":     3,
		"1,204 views": 1204,
		"0":           0,
		"":            0,
		"views":       0,
	} {
		assert.Equal(t, want, parseCount(text), "text %q", text)
	}
}
