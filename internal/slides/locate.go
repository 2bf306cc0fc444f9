package slides

import "strings"

// Locate finds the first exact occurrence of snippet in content and returns
// its byte range. Attribute or whitespace normalization by the renderer
// makes a snippet unfindable; there is no fuzzy fallback.
func Locate(content, snippet string) (Range, bool) {
	if snippet == "" {
		return Range{}, false
	}
	i := strings.Index(content, snippet)
	if i < 0 {
		return Range{}, false
	}
	return Range{Start: i, End: i + len(snippet)}, true
}
