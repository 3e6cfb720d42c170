package fetcher

import (
	"regexp"
	"strings"
)

var reTitleDisallowed = regexp.MustCompile(`[^A-Za-z0-9\s.]`)

// SanitizeTitle keeps ASCII letters, digits, whitespace and periods, then
// trims surrounding whitespace.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(reTitleDisallowed.ReplaceAllString(title, ""))
}
