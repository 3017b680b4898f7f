// Package observe reports GraphQL operation telemetry. It derives a stable
// signature from an operation's top-level selections, renames the active
// transaction after it, records per-field call counters, and attaches the
// query text and (optionally redacted) variables to the trace.
package observe

import "sort"

// Selection is a single requested field in a GraphQL selection set, reduced
// to the parts the observer needs: the field name and its child fields.
// Non-field selections (fragment spreads, inline fragments) are dropped at
// the boundary that builds this tree, so they never appear here.
type Selection struct {
	Name     string
	Children []Selection
}

// stitchPoints are top-level field names whose children carry the meaningful
// operation signature. A query selecting only "user" or "account" says
// nothing about what the request actually does; the sub-fields do.
var stitchPoints = map[string]struct{}{
	"actor":       {},
	"account":     {},
	"currentUser": {},
	"user":        {},
	"docs":        {},
	"nrPlatform":  {},
}

const typenameField = "__typename"

// FlattenSelections converts an operation's top-level selections into its
// signature: an ascending-sorted list of field names. Stitch-point fields
// are expanded into "parent.child" entries, one per child field, skipping
// __typename; every other field contributes its own name unchanged, even if
// it has children. Duplicates are kept.
func FlattenSelections(selections []Selection) []string {
	fields := make([]string, 0, len(selections))
	for _, sel := range selections {
		if _, ok := stitchPoints[sel.Name]; !ok {
			fields = append(fields, sel.Name)
			continue
		}
		for _, child := range sel.Children {
			if child.Name == typenameField {
				continue
			}
			fields = append(fields, sel.Name+"."+child.Name)
		}
	}
	sort.Strings(fields)
	return fields
}
