package app

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	maxTracedQueryLength = 512
	// placeholder runs longer than this are collapsed in traced statements
	maxTracedPlaceholders = 6
)

var (
	queryWhitespaceRegex  = regexp.MustCompile(`\s+`)
	placeholderRunRegex   = regexp.MustCompile(`\$\d+(?:, ?\$\d+)+`)
	placeholderTupleRegex = regexp.MustCompile(`\((?:\$\d+, ?)*\$\d+\)(?:, ?\((?:\$\d+, ?)*\$\d+\))+`)
)

// formatDBQueryForTrace normalizes whitespace and shortens the bind lists of
// bulk statements so spans stay readable.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = placeholderTupleRegex.ReplaceAllStringFunc(normalized, collapseTuples)
	normalized = placeholderRunRegex.ReplaceAllStringFunc(normalized, collapsePlaceholders)
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

// collapseTuples keeps the first VALUES tuple of a multi-row insert.
func collapseTuples(run string) string {
	end := strings.IndexByte(run, ')')
	rows := strings.Count(run, "(")
	return run[:end+1] + ", ... (" + strconv.Itoa(rows) + " rows)"
}

func collapsePlaceholders(run string) string {
	parts := strings.Split(strings.ReplaceAll(run, " ", ""), ",")
	if len(parts) <= maxTracedPlaceholders {
		return run
	}
	return parts[0] + ", ..., " + parts[len(parts)-1]
}
