package observe

import (
	"context"
	"fmt"
	"strings"
)

const (
	transactionCategory = "GraphQL"
	fieldsParam         = "graphQL.fields"
	queryParam          = "query"
	operationNameParam  = "operationName"
	callCountPrefix     = "Custom/GraphQL/CallCount/Operations/"
	variableParamPrefix = "variables."
)

// DefaultElisionKeepChars is the number of leading characters retained when
// secure-value elision is enabled without an explicit keep count.
const DefaultElisionKeepChars = 4

// OperationType is the kind of GraphQL operation, in the uppercase form used
// for transaction naming.
type OperationType string

const (
	OperationQuery        OperationType = "QUERY"
	OperationMutation     OperationType = "MUTATION"
	OperationSubscription OperationType = "SUBSCRIPTION"
)

// OperationContext is the parsed shape of one GraphQL operation, handed to
// the observer before field resolution begins.
type OperationContext struct {
	Type       OperationType
	Selections []Selection
	Variables  map[string]VariableValue
}

// ErrorKind classifies an execution error for reporting purposes.
type ErrorKind int

const (
	// ErrorKindOperation covers errors produced before or outside field
	// resolution: parse errors, validation errors, bad variables.
	ErrorKindOperation ErrorKind = iota
	// ErrorKindFieldResolution covers errors raised while resolving a
	// field. These are assumed to be reported elsewhere and are never
	// noticed by the observer.
	ErrorKindFieldResolution
)

// OperationError is one error from a finished execution.
type OperationError struct {
	Kind    ErrorKind
	Message string
}

// OperationResult is the outcome of a finished execution as seen by the
// observer.
type OperationResult struct {
	Errors []OperationError
}

// Observer reports operation telemetry to a sink. It holds no per-request
// state; concurrent hook invocations only share the sink, which must be
// concurrency-safe. Configuration is immutable after construction.
type Observer struct {
	sink         TelemetrySink
	noticeErrors bool
	elideSecure  bool
	keepChars    func(SecureValue) int
}

// Option configures an Observer.
type Option func(*Observer)

// WithNoticeErrors enables reporting of operation-level execution errors.
// Field-resolution errors are suppressed regardless.
func WithNoticeErrors() Option {
	return func(o *Observer) {
		o.noticeErrors = true
	}
}

// WithSecureValueElision enables elision of secure variable values,
// retaining DefaultElisionKeepChars leading characters.
func WithSecureValueElision() Option {
	return func(o *Observer) {
		o.elideSecure = true
		o.keepChars = func(SecureValue) int { return DefaultElisionKeepChars }
	}
}

// WithElisionKeepCount enables elision retaining a fixed number of leading
// characters.
func WithElisionKeepCount(keep int) Option {
	return func(o *Observer) {
		o.elideSecure = true
		o.keepChars = func(SecureValue) int { return keep }
	}
}

// WithElisionKeepFunc enables elision with a per-value keep count.
func WithElisionKeepFunc(keep func(SecureValue) int) Option {
	return func(o *Observer) {
		o.elideSecure = true
		o.keepChars = keep
	}
}

// NewObserver builds an Observer reporting to sink. By default errors are
// not noticed and secure values are attached un-elided.
func NewObserver(sink TelemetrySink, opts ...Option) *Observer {
	o := &Observer{
		sink:      sink,
		keepChars: func(SecureValue) int { return 0 },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BeginOperation is the pre-execution hook. It derives the operation
// signature, renames the active transaction to
// "GraphQL/<TYPE>/<field>[::<field>...]", attaches the signature and the
// bound variables as trace attributes, and bumps the per-field call
// counters. A nil operation context is returned as-is with no telemetry
// emitted. The context is never modified.
func (o *Observer) BeginOperation(ctx context.Context, op *OperationContext) *OperationContext {
	if op == nil {
		return nil
	}

	fields := FlattenSelections(op.Selections)

	o.sink.SetTransactionName(ctx, transactionCategory, string(op.Type)+"/"+strings.Join(fields, "::"))
	o.sink.AddCustomParameter(ctx, fieldsParam, strings.Join(fields, "|"))
	for _, field := range fields {
		o.sink.IncrementCounter(ctx, callCountPrefix+field)
	}

	for name, value := range op.Variables {
		o.sink.AddCustomParameter(ctx, variableParamPrefix+name, o.variableString(value))
	}

	return op
}

// FinishOperation is the post-execution hook. If error noticing is enabled,
// every error not raised during field resolution is reported as expected,
// each independently. The raw query text and operation name are attached
// unconditionally. The result is returned unchanged; a nil result emits no
// telemetry.
func (o *Observer) FinishOperation(ctx context.Context, result *OperationResult, query, operationName string) *OperationResult {
	if result == nil {
		return nil
	}

	if o.noticeErrors {
		for _, opErr := range result.Errors {
			if opErr.Kind == ErrorKindFieldResolution {
				continue
			}
			o.sink.NoticeError(ctx, opErr.Message, true)
		}
	}

	o.sink.AddCustomParameter(ctx, queryParam, query)
	o.sink.AddCustomParameter(ctx, operationNameParam, operationName)

	return result
}

func (o *Observer) variableString(value VariableValue) string {
	switch v := value.(type) {
	case SecureValue:
		if o.elideSecure {
			return v.Elide(o.keepChars(v))
		}
		return v.Reveal()
	case PlainValue:
		if v.Value == nil {
			return "null"
		}
		return fmt.Sprint(v.Value)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
