package observe

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OtelSink reports onto the OpenTelemetry span active in the context and a
// counter instrument. With no span in the context the span-scoped calls hit
// the no-op span, matching the fire-and-forget contract.
type OtelSink struct {
	operationCalls metric.Int64Counter
}

// NewOtelSink builds a sink using meter for the call counter.
func NewOtelSink(meter metric.Meter) (*OtelSink, error) {
	counter, err := meter.Int64Counter(
		"graphql.operation.calls",
		metric.WithDescription("Per-field GraphQL operation invocations."),
	)
	if err != nil {
		return nil, err
	}
	return &OtelSink{operationCalls: counter}, nil
}

func (s *OtelSink) SetTransactionName(ctx context.Context, category, name string) {
	trace.SpanFromContext(ctx).SetName(category + "/" + name)
}

func (s *OtelSink) AddCustomParameter(ctx context.Context, key, value string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(key, value))
}

func (s *OtelSink) IncrementCounter(ctx context.Context, key string) {
	s.operationCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("graphql.operation", strings.TrimPrefix(key, callCountPrefix)),
	))
}

func (s *OtelSink) NoticeError(ctx context.Context, message string, expected bool) {
	trace.SpanFromContext(ctx).RecordError(errors.New(message), trace.WithAttributes(
		attribute.Bool("graphql.error.expected", expected),
	))
}
