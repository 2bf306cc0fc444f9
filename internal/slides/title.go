package slides

import (
	"regexp"
	"strings"
)

// headingPattern is a shallow scan for the first level-1 heading. It is not
// a parser: headings inside comments or scripts match too.
var headingPattern = regexp.MustCompile(`(?i)<h1[^>]*>(.*?)</h1>`)

// DeriveTitle returns the trimmed text of the first <h1> in content,
// truncated to MaxTitleLength characters, or fallback when there is no
// heading or it is blank.
func DeriveTitle(content, fallback string) string {
	m := headingPattern.FindStringSubmatch(content)
	if m == nil {
		return fallback
	}
	title := truncate(strings.TrimSpace(m[1]), MaxTitleLength)
	if title == "" {
		return fallback
	}
	return title
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
