package observe

import "context"

// TelemetrySink is the capability surface the observer reports through.
// Every call is fire-and-forget: no return value, no retries. Sinks are
// shared across in-flight operations and must be safe for concurrent use.
type TelemetrySink interface {
	// SetTransactionName renames the transaction or span active in ctx.
	SetTransactionName(ctx context.Context, category, name string)
	// AddCustomParameter attaches a key-value attribute to the active trace.
	AddCustomParameter(ctx context.Context, key, value string)
	// IncrementCounter adds one to the cumulative counter under key.
	IncrementCounter(ctx context.Context, key string)
	// NoticeError reports an error. Expected errors are handled conditions,
	// not crashes, and sinks should flag them as such.
	NoticeError(ctx context.Context, message string, expected bool)
}

// MultiSink fans every call out to an ordered list of sinks.
type MultiSink struct {
	sinks []TelemetrySink
}

// NewMultiSink combines sinks into one. The zero-sink case is valid and
// silently discards everything.
func NewMultiSink(sinks ...TelemetrySink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) SetTransactionName(ctx context.Context, category, name string) {
	for _, s := range m.sinks {
		s.SetTransactionName(ctx, category, name)
	}
}

func (m *MultiSink) AddCustomParameter(ctx context.Context, key, value string) {
	for _, s := range m.sinks {
		s.AddCustomParameter(ctx, key, value)
	}
}

func (m *MultiSink) IncrementCounter(ctx context.Context, key string) {
	for _, s := range m.sinks {
		s.IncrementCounter(ctx, key)
	}
}

func (m *MultiSink) NoticeError(ctx context.Context, message string, expected bool) {
	for _, s := range m.sinks {
		s.NoticeError(ctx, message, expected)
	}
}
