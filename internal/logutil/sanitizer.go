// Package logutil provides logging utilities for sanitization
package logutil

import (
	"regexp"
	"strings"
)

var (
	// Block strings first so their quotes are not half-matched by the
	// single-line string pattern.
	blockStringPattern = regexp.MustCompile(`(?s)""".*?"""`)
	stringPattern      = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	numberPattern      = regexp.MustCompile(`\b\d+(?:\.\d+)?(?:[eE][+-]?\d+)?\b`)
)

// SanitizeGraphQL removes literal values from a GraphQL document so query
// text can be logged without leaking inline arguments. Variable references
// ($name) and field/argument names are kept; string and numeric literals
// are replaced with placeholders.
//
// Example:
//
//	{ login(user: "ann@example.com", attempt: 3) }
//	=> { login(user: "<redacted>", attempt: <num>) }
func SanitizeGraphQL(query string) string {
	query = blockStringPattern.ReplaceAllString(query, `"""<redacted>"""`)
	query = stringPattern.ReplaceAllString(query, `"<redacted>"`)
	query = numberPattern.ReplaceAllString(query, "<num>")
	return query
}

// ExtractOperationMetadata returns a short "type name" summary of the first
// operation in a GraphQL document, suitable for log fields where the full
// query body would be noise. Anonymous shorthand documents report as an
// anonymous query.
//
// Example inputs and outputs:
//
//	query GetBooks { books { title } }   => "query GetBooks"
//	mutation WritePost($t: String!) ...  => "mutation WritePost"
//	{ books }                            => "query (anonymous)"
func ExtractOperationMetadata(document string) string {
	trimmed := strings.TrimSpace(document)
	if trimmed == "" {
		return ""
	}

	words := strings.Fields(trimmed)
	operation := words[0]
	switch operation {
	case "query", "mutation", "subscription":
	default:
		return "query (anonymous)"
	}

	if len(words) < 2 {
		return operation + " (anonymous)"
	}

	name := words[1]
	if idx := strings.IndexAny(name, "({"); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return operation + " (anonymous)"
	}
	return operation + " " + name
}
