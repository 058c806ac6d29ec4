// Package match implements keyword matching for find mode.
package match

import "strings"

// NotFound is returned when no candidate contains the query.
const NotFound = -1

// FindBestMatch returns the index of the first candidate whose text
// contains the query as a case-insensitive substring, or NotFound.
// The query is lower-cased and trimmed before matching.
func FindBestMatch(candidates []string, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	for i, text := range candidates {
		if strings.Contains(strings.ToLower(text), q) {
			return i
		}
	}
	return NotFound
}
