package observe

import (
	"context"
	"errors"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSchema builds a minimal schema with a stitch-point field ("user"),
// plain fields, an argument-taking field and a failing resolver.
func testSchema(t *testing.T, ext graphql.Extension) graphql.Schema {
	t.Helper()

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: userType,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return map[string]interface{}{"id": "u-1", "name": "Ann"}, nil
				},
			},
			"zebra": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return "stripes", nil
				},
			},
			"books": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return []string{"Dune"}, nil
				},
			},
			"authors": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return []string{"Herbert"}, nil
				},
			},
			"echo": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.String},
					"token": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "ok", nil
				},
			},
			"erroring": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return nil, errors.New("resolver blew up")
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:      query,
		Extensions: []graphql.Extension{ext},
	})
	require.NoError(t, err)
	return schema
}

func execute(t *testing.T, schema graphql.Schema, query, operationName string, variables map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		OperationName:  operationName,
		VariableValues: variables,
		Context:        context.Background(),
	})
}

// =============================================================================
// Signature and transaction naming through a real execution
// =============================================================================

func TestExtension_OperationSignature(t *testing.T) {
	t.Run("stitch point expanded, __typename excluded", func(t *testing.T) {
		sink := newRecordingSink()
		schema := testSchema(t, NewExtension(NewObserver(sink), nil))

		result := execute(t, schema, "{ zebra user { id name __typename } }", "", nil)

		assert.Empty(t, result.Errors)
		require.Len(t, sink.transactionNames, 1)
		assert.Equal(t, "GraphQL/QUERY/user.id::user.name::zebra", sink.transactionNames[0])
		assert.Equal(t, "user.id|user.name|zebra", sink.params["graphQL.fields"])
	})

	t.Run("plain fields unexpanded", func(t *testing.T) {
		sink := newRecordingSink()
		schema := testSchema(t, NewExtension(NewObserver(sink), nil))

		execute(t, schema, "{ books authors }", "", nil)

		require.Len(t, sink.transactionNames, 1)
		assert.Equal(t, "GraphQL/QUERY/authors::books", sink.transactionNames[0])
		assert.Equal(t, 1, sink.counters["Custom/GraphQL/CallCount/Operations/books"])
		assert.Equal(t, 1, sink.counters["Custom/GraphQL/CallCount/Operations/authors"])
	})

	t.Run("named operation picked from multi-operation document", func(t *testing.T) {
		sink := newRecordingSink()
		schema := testSchema(t, NewExtension(NewObserver(sink), nil))

		doc := `
			query First { books }
			query Second { zebra }
		`
		result := execute(t, schema, doc, "Second", nil)

		assert.Empty(t, result.Errors)
		require.Len(t, sink.transactionNames, 1)
		assert.Equal(t, "GraphQL/QUERY/zebra", sink.transactionNames[0])
	})

	t.Run("query and operationName attached after execution", func(t *testing.T) {
		sink := newRecordingSink()
		schema := testSchema(t, NewExtension(NewObserver(sink), nil))

		execute(t, schema, "query GetBooks { books }", "GetBooks", nil)

		assert.Equal(t, "query GetBooks { books }", sink.params["query"])
		assert.Equal(t, "GetBooks", sink.params["operationName"])
	})

	t.Run("identical executions produce identical telemetry", func(t *testing.T) {
		first := newRecordingSink()
		second := newRecordingSink()

		execute(t, testSchema(t, NewExtension(NewObserver(first), nil)), "{ books zebra }", "", nil)
		execute(t, testSchema(t, NewExtension(NewObserver(second), nil)), "{ books zebra }", "", nil)

		assert.Equal(t, first.transactionNames, second.transactionNames)
		assert.Equal(t, first.params, second.params)
	})
}

// =============================================================================
// Variable binding
// =============================================================================

func TestExtension_Variables(t *testing.T) {
	const doc = `query Echo($name: String, $token: String) { echo(name: $name, token: $token) }`

	t.Run("secure names wrapped and elided", func(t *testing.T) {
		sink := newRecordingSink()
		observer := NewObserver(sink, WithSecureValueElision())
		schema := testSchema(t, NewExtension(observer, []string{"token"}))

		execute(t, schema, doc, "Echo", map[string]interface{}{
			"name":  "Alice",
			"token": "secret123",
		})

		assert.Equal(t, "Alice", sink.params["variables.name"])
		assert.Equal(t, "secr****", sink.params["variables.token"])
	})

	t.Run("without elision raw values pass through", func(t *testing.T) {
		sink := newRecordingSink()
		schema := testSchema(t, NewExtension(NewObserver(sink), []string{"token"}))

		execute(t, schema, doc, "Echo", map[string]interface{}{
			"name":  "Alice",
			"token": "secret123",
		})

		assert.Equal(t, "secret123", sink.params["variables.token"])
	})
}

// =============================================================================
// Error classification
// =============================================================================

func TestExtension_Errors(t *testing.T) {
	t.Run("resolver errors are not noticed", func(t *testing.T) {
		sink := newRecordingSink()
		observer := NewObserver(sink, WithNoticeErrors())
		schema := testSchema(t, NewExtension(observer, nil))

		result := execute(t, schema, "{ erroring }", "", nil)

		require.NotEmpty(t, result.Errors)
		assert.Empty(t, sink.errors)
	})

	t.Run("result error with path classified as field resolution", func(t *testing.T) {
		sink := newRecordingSink()
		observer := NewObserver(sink, WithNoticeErrors())
		schema := testSchema(t, NewExtension(observer, nil))

		result := execute(t, schema, "{ erroring books }", "", nil)

		converted := convertResult(result)
		require.NotEmpty(t, converted.Errors)
		assert.Equal(t, ErrorKindFieldResolution, converted.Errors[0].Kind)
	})
}

// =============================================================================
// Degenerate inputs
// =============================================================================

func TestExtension_OperationContext(t *testing.T) {
	ext := NewExtension(NewObserver(newRecordingSink()), nil)

	t.Run("nil params", func(t *testing.T) {
		assert.Nil(t, ext.operationContext(nil))
	})

	t.Run("unparsable query", func(t *testing.T) {
		assert.Nil(t, ext.operationContext(&graphql.Params{RequestString: "{{{"}))
	})

	t.Run("no matching operation name", func(t *testing.T) {
		p := &graphql.Params{RequestString: "query A { books }", OperationName: "B"}
		assert.Nil(t, ext.operationContext(p))
	})

	t.Run("fragment spreads skipped in the tree", func(t *testing.T) {
		p := &graphql.Params{RequestString: `
			query WithFragment {
				books
				...bookFields
			}
			fragment bookFields on Query { authors }
		`}
		op := ext.operationContext(p)
		require.NotNil(t, op)
		assert.Equal(t, []Selection{{Name: "books"}}, op.Selections)
	})
}
