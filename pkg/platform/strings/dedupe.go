// Package strings provides string-set helpers used when merging check feedback.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order of first occurrence is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// Union concatenates the given lists and deduplicates the result.
// The returned slice is never nil.
func Union(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]string, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	return DedupeAndTrim(merged)
}

// AnyContainsFold reports whether any value contains substr, ignoring case.
func AnyContainsFold(values []string, substr string) bool {
	needle := strings.ToLower(substr)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// CountContainsFold counts values containing substr, ignoring case.
func CountContainsFold(values []string, substr string) int {
	needle := strings.ToLower(substr)
	n := 0
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			n++
		}
	}
	return n
}
