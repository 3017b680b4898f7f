package observe

import (
	"context"
	"errors"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicSink reports through the New Relic Go agent. Transaction-scoped
// calls resolve the transaction from the context, so the surrounding HTTP
// handler must have put one there (newrelic.NewContext); without one they
// are no-ops, which is the agent's own behavior for a nil transaction.
type NewRelicSink struct {
	app *newrelic.Application
}

// NewNewRelicSink builds a sink on app. app may be nil, in which case
// counters are dropped and only transaction-scoped calls (resolved from the
// context) can still land.
func NewNewRelicSink(app *newrelic.Application) *NewRelicSink {
	return &NewRelicSink{app: app}
}

func (s *NewRelicSink) SetTransactionName(ctx context.Context, category, name string) {
	newrelic.FromContext(ctx).SetName(category + "/" + name)
}

func (s *NewRelicSink) AddCustomParameter(ctx context.Context, key, value string) {
	newrelic.FromContext(ctx).AddAttribute(key, value)
}

func (s *NewRelicSink) IncrementCounter(ctx context.Context, key string) {
	if s.app == nil {
		return
	}
	// RecordCustomMetric prefixes names with "Custom/" itself; strip ours
	// so the metric is not double-prefixed.
	s.app.RecordCustomMetric(strings.TrimPrefix(key, "Custom/"), 1)
}

func (s *NewRelicSink) NoticeError(ctx context.Context, message string, expected bool) {
	txn := newrelic.FromContext(ctx)
	if expected {
		txn.NoticeExpectedError(errors.New(message))
		return
	}
	txn.NoticeError(errors.New(message))
}
