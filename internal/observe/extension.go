package observe

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// paramsKey carries the request params from Init to the later callbacks.
type paramsKey struct{}

// Extension bridges graphql-go's execution hooks to an Observer. Register
// it on the schema via SchemaConfig.Extensions. One Extension instance
// serves all in-flight operations; it keeps no per-request state outside
// the context.
type Extension struct {
	observer *Observer
	secure   map[string]struct{}
}

var _ graphql.Extension = (*Extension)(nil)

// NewExtension wraps observer as a graphql-go extension. Variables whose
// names appear in secureVariables are bound as SecureValue before they
// reach the observer.
func NewExtension(observer *Observer, secureVariables []string) *Extension {
	secure := make(map[string]struct{}, len(secureVariables))
	for _, name := range secureVariables {
		secure[name] = struct{}{}
	}
	return &Extension{observer: observer, secure: secure}
}

// Init stashes the request params in the context for ExecutionDidStart.
func (e *Extension) Init(ctx context.Context, p *graphql.Params) context.Context {
	return context.WithValue(ctx, paramsKey{}, p)
}

// Name returns the extension name.
func (e *Extension) Name() string {
	return "OperationObserver"
}

// ParseDidStart is a no-op; the extension parses the request itself once
// execution starts.
func (e *Extension) ParseDidStart(ctx context.Context) (context.Context, graphql.ParseFinishFunc) {
	return ctx, func(error) {}
}

// ValidationDidStart is a no-op.
func (e *Extension) ValidationDidStart(ctx context.Context) (context.Context, graphql.ValidationFinishFunc) {
	return ctx, func([]gqlerrors.FormattedError) {}
}

// ExecutionDidStart runs the observer's pre-execution hook and returns a
// finish func running the post-execution hook on the final result.
func (e *Extension) ExecutionDidStart(ctx context.Context) (context.Context, graphql.ExecutionFinishFunc) {
	p, _ := ctx.Value(paramsKey{}).(*graphql.Params)

	var query, operationName string
	if p != nil {
		query = p.RequestString
		operationName = p.OperationName
	}

	e.observer.BeginOperation(ctx, e.operationContext(p))

	return ctx, func(result *graphql.Result) {
		e.observer.FinishOperation(ctx, convertResult(result), query, operationName)
	}
}

// ResolveFieldDidStart is a no-op; field-level errors are handled by the
// engine and excluded from error noticing.
func (e *Extension) ResolveFieldDidStart(ctx context.Context, _ *graphql.ResolveInfo) (context.Context, graphql.ResolveFieldFinishFunc) {
	return ctx, func(interface{}, error) {}
}

// HasResult reports that the extension adds nothing to the response.
func (e *Extension) HasResult() bool {
	return false
}

// GetResult returns nothing; see HasResult.
func (e *Extension) GetResult(context.Context) interface{} {
	return nil
}

// operationContext parses the request into the observer's abstract shape.
// Any failure to produce an operation (missing params, parse error, no
// matching definition) yields nil, which the observer treats as a no-op.
func (e *Extension) operationContext(p *graphql.Params) *OperationContext {
	if p == nil {
		return nil
	}

	doc, err := parser.Parse(parser.ParseParams{Source: p.RequestString})
	if err != nil {
		return nil
	}

	def := findOperation(doc, p.OperationName)
	if def == nil {
		return nil
	}

	return &OperationContext{
		Type:       operationTypeOf(def.Operation),
		Selections: convertSelectionSet(def.SelectionSet),
		Variables:  e.bindVariables(p.VariableValues),
	}
}

// findOperation picks the operation definition matching name, or the first
// one when no name is given.
func findOperation(doc *ast.Document, name string) *ast.OperationDefinition {
	for _, node := range doc.Definitions {
		def, ok := node.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if name == "" {
			return def
		}
		if def.Name != nil && def.Name.Value == name {
			return def
		}
	}
	return nil
}

func operationTypeOf(operation string) OperationType {
	switch operation {
	case ast.OperationTypeMutation:
		return OperationMutation
	case ast.OperationTypeSubscription:
		return OperationSubscription
	default:
		return OperationQuery
	}
}

// convertSelectionSet keeps plain fields only: fragment spreads and inline
// fragments carry no stable field name and are skipped.
func convertSelectionSet(set *ast.SelectionSet) []Selection {
	if set == nil {
		return nil
	}
	selections := make([]Selection, 0, len(set.Selections))
	for _, sel := range set.Selections {
		field, ok := sel.(*ast.Field)
		if !ok || field.Name == nil {
			continue
		}
		selections = append(selections, Selection{
			Name:     field.Name.Value,
			Children: convertSelectionSet(field.SelectionSet),
		})
	}
	return selections
}

// bindVariables wraps raw variable values in the observer's variant type.
// Names listed as secure become SecureValue; nil stays plain since there is
// nothing to protect.
func (e *Extension) bindVariables(values map[string]interface{}) map[string]VariableValue {
	if len(values) == 0 {
		return nil
	}
	bound := make(map[string]VariableValue, len(values))
	for name, value := range values {
		if _, ok := e.secure[name]; ok && value != nil {
			bound[name] = Secure(fmt.Sprint(value))
			continue
		}
		bound[name] = PlainValue{Value: value}
	}
	return bound
}

// convertResult classifies execution errors. graphql-go attaches a response
// path to errors raised while resolving a field; parse and validation
// errors carry none. That boundary decides the reporting kind.
func convertResult(result *graphql.Result) *OperationResult {
	if result == nil {
		return nil
	}
	converted := &OperationResult{}
	for _, err := range result.Errors {
		kind := ErrorKindOperation
		if len(err.Path) > 0 {
			kind = ErrorKindFieldResolution
		}
		converted.Errors = append(converted.Errors, OperationError{
			Kind:    kind,
			Message: err.Message,
		})
	}
	return converted
}
