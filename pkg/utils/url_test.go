package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "question url",
			url:  "https://repost.aws/questions/QU-abc123",
			want: "QU-abc123",
		},
		{
			name: "trailing slash",
			url:  "https://repost.aws/questions/QU-abc123/",
			want: "QU-abc123",
		},
		{
			name: "query string ignored",
			url:  "https://repost.aws/questions/QU-abc123?lang=en",
			want: "QU-abc123",
		},
		{
			name: "no path",
			url:  "https://repost.aws",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuestionIDFromURL(tt.url))
		})
	}
}
