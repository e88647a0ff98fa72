package parsers

import (
	"errors"
	"strings"
)

// SearchPrefix marks a locator as a search query resolved lazily by the extraction tool.
const SearchPrefix = "ytsearch:"

// ErrExtraction is returned when the extraction tool exits non-zero or prints nothing usable.
var ErrExtraction = errors.New("extraction failed")

// SearchLocator wraps a free-text query as a search locator.
func SearchLocator(query string) string {
	return SearchPrefix + strings.TrimSpace(query)
}

// IsSearchLocator reports whether the locator is a lazily resolved search.
func IsSearchLocator(locator string) bool {
	return strings.HasPrefix(locator, SearchPrefix)
}

// SplitLines splits tool output into non-empty trimmed lines.
func SplitLines(output string) []string {
	var lines []string
	for _, l := range strings.Split(output, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
