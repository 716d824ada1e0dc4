package utils

import (
	"net/url"
	"strings"
)

// QuestionIDFromURL derives the external question identifier from a re:Post
// question URL: the trailing non-empty path segment. Returns "" when the
// URL has no usable path.
func QuestionIDFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		// Fall back to a plain split so malformed but recognisable URLs
		// still yield an id.
		parts := strings.Split(rawURL, "/")
		return parts[len(parts)-1]
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return ""
	}
	return path[strings.LastIndex(path, "/")+1:]
}
