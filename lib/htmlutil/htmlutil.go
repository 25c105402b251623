package htmlutil

import (
	"regexp"
	"strings"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// collapses runs of whitespace and trims the result, scraped table
// cells tend to come padded with newlines and non-breaking spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t\n")
}
