package api

import (
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/twcrone/graphql-observe/internal/config"
)

// queryStats is what one pass over a parsed document yields for the
// guardrail checks.
type queryStats struct {
	maxDepth          int
	maxFieldsPerLevel int
	hasFragmentSpread bool
}

// inspectQuery parses the document and collects guardrail stats across all
// operations in it.
func inspectQuery(query string) (queryStats, error) {
	if query == "" {
		return queryStats{}, fmt.Errorf("query cannot be empty")
	}

	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return queryStats{}, err
	}

	var stats queryStats
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			inspectSelectionSet(op.SelectionSet, 1, &stats)
		}
	}
	return stats, nil
}

// inspectSelectionSet walks one selection set at the given depth. Fields
// deepen the walk; inline fragments contribute their fields at the current
// level; fragment spreads only set the flag since the fragment body lives
// elsewhere in the document.
func inspectSelectionSet(set *ast.SelectionSet, depth int, stats *queryStats) {
	if set == nil || len(set.Selections) == 0 {
		return
	}

	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}

	fieldNames := make(map[string]struct{})
	for _, sel := range set.Selections {
		switch s := sel.(type) {
		case *ast.Field:
			if s.Name != nil {
				fieldNames[s.Name.Value] = struct{}{}
			}
			inspectSelectionSet(s.SelectionSet, depth+1, stats)
		case *ast.InlineFragment:
			inspectSelectionSet(s.SelectionSet, depth, stats)
		case *ast.FragmentSpread:
			stats.hasFragmentSpread = true
		}
	}

	if len(fieldNames) > stats.maxFieldsPerLevel {
		stats.maxFieldsPerLevel = len(fieldNames)
	}
}

// checkGuardrails validates a query against the configured limits before it
// is handed to the engine. A non-empty return is the client-facing message.
func checkGuardrails(query string, cfg *config.GraphQLConfig) string {
	stats, err := inspectQuery(query)
	if err != nil {
		return "Invalid query syntax"
	}

	if cfg.MaxDepth > 0 && stats.maxDepth > cfg.MaxDepth {
		return fmt.Sprintf("query depth %d exceeds maximum allowed depth of %d", stats.maxDepth, cfg.MaxDepth)
	}

	if !cfg.AllowFragments && stats.hasFragmentSpread {
		return "Fragment spreads are not allowed"
	}

	if cfg.MaxFieldsPerLvl > 0 && stats.maxFieldsPerLevel > cfg.MaxFieldsPerLvl {
		return fmt.Sprintf("query has %d unique fields at a level, maximum allowed is %d", stats.maxFieldsPerLevel, cfg.MaxFieldsPerLvl)
	}

	return ""
}
