package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeGraphQL(t *testing.T) {
	t.Run("redacts string literals", func(t *testing.T) {
		got := SanitizeGraphQL(`{ login(user: "ann@example.com") }`)
		assert.Equal(t, `{ login(user: "<redacted>") }`, got)
	})

	t.Run("redacts numeric literals", func(t *testing.T) {
		got := SanitizeGraphQL(`{ recentPosts(count: 10, offset: 2) { id } }`)
		assert.Equal(t, `{ recentPosts(count: <num>, offset: <num>) { id } }`, got)
	})

	t.Run("redacts floats and exponents", func(t *testing.T) {
		got := SanitizeGraphQL(`{ search(score: 0.75, scale: 1e6) }`)
		assert.Equal(t, `{ search(score: <num>, scale: <num>) }`, got)
	})

	t.Run("handles escaped quotes inside strings", func(t *testing.T) {
		got := SanitizeGraphQL(`{ note(text: "she said \"hi\"") }`)
		assert.Equal(t, `{ note(text: "<redacted>") }`, got)
	})

	t.Run("redacts block strings", func(t *testing.T) {
		got := SanitizeGraphQL("{ note(text: \"\"\"multi\nline secret\"\"\") }")
		assert.Equal(t, `{ note(text: """<redacted>""") }`, got)
	})

	t.Run("keeps variable references", func(t *testing.T) {
		got := SanitizeGraphQL(`query Q($token: String!) { login(token: $token) }`)
		assert.Equal(t, `query Q($token: String!) { login(token: $token) }`, got)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Empty(t, SanitizeGraphQL(""))
	})
}

func TestExtractOperationMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		document string
		expected string
	}{
		{"named query", "query GetBooks { books { title } }", "query GetBooks"},
		{"named mutation", "mutation WritePost($t: String!) { writePost }", "mutation WritePost"},
		{"named subscription", "subscription OnPost { postAdded }", "subscription OnPost"},
		{"query with variables glued to name", "query GetUser($id: ID!) { user }", "query GetUser"},
		{"anonymous shorthand", "{ books }", "query (anonymous)"},
		{"anonymous keyword form", "query { books }", "query (anonymous)"},
		{"keyword glued to brace", "query{ books }", "query (anonymous)"},
		{"empty document", "", ""},
		{"whitespace only", "   \n\t", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractOperationMetadata(tc.document))
		})
	}
}
