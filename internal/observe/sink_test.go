package observe

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MultiSink
// =============================================================================

func TestMultiSink(t *testing.T) {
	ctx := context.Background()

	t.Run("fans out to every sink in order", func(t *testing.T) {
		first := newRecordingSink()
		second := newRecordingSink()
		multi := NewMultiSink(first, second)

		multi.SetTransactionName(ctx, "GraphQL", "QUERY/books")
		multi.AddCustomParameter(ctx, "graphQL.fields", "books")
		multi.IncrementCounter(ctx, "Custom/GraphQL/CallCount/Operations/books")
		multi.NoticeError(ctx, "validation failed", true)

		for _, sink := range []*recordingSink{first, second} {
			assert.Equal(t, []string{"GraphQL/QUERY/books"}, sink.transactionNames)
			assert.Equal(t, "books", sink.params["graphQL.fields"])
			assert.Equal(t, 1, sink.counters["Custom/GraphQL/CallCount/Operations/books"])
			require.Len(t, sink.errors, 1)
		}
	})

	t.Run("empty multi sink discards silently", func(t *testing.T) {
		multi := NewMultiSink()
		assert.NotPanics(t, func() {
			multi.SetTransactionName(ctx, "GraphQL", "QUERY/books")
			multi.AddCustomParameter(ctx, "k", "v")
			multi.IncrementCounter(ctx, "k")
			multi.NoticeError(ctx, "m", false)
		})
	})
}

// =============================================================================
// LogSink
// =============================================================================

func TestLogSink(t *testing.T) {
	ctx := context.Background()

	t.Run("writes structured events", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewLogSink(zerolog.New(&buf))

		sink.SetTransactionName(ctx, "GraphQL", "QUERY/books")
		sink.AddCustomParameter(ctx, "graphQL.fields", "books")
		sink.IncrementCounter(ctx, "Custom/GraphQL/CallCount/Operations/books")
		sink.NoticeError(ctx, "validation failed", true)

		out := buf.String()
		assert.Contains(t, out, "transaction renamed")
		assert.Contains(t, out, "QUERY/books")
		assert.Contains(t, out, "graphQL.fields")
		assert.Contains(t, out, "counter incremented")
		assert.Contains(t, out, "validation failed")
		assert.Contains(t, out, `"expected":true`)
	})
}

// =============================================================================
// PrometheusSink
// =============================================================================

func TestPrometheusSink(t *testing.T) {
	ctx := context.Background()

	t.Run("counts operations with prefix stripped", func(t *testing.T) {
		sink := NewPrometheusSink(prometheus.NewRegistry())

		sink.IncrementCounter(ctx, "Custom/GraphQL/CallCount/Operations/books")
		sink.IncrementCounter(ctx, "Custom/GraphQL/CallCount/Operations/books")
		sink.IncrementCounter(ctx, "Custom/GraphQL/CallCount/Operations/user.id")

		assert.Equal(t, float64(2), testutil.ToFloat64(sink.operationCalls.WithLabelValues("books")))
		assert.Equal(t, float64(1), testutil.ToFloat64(sink.operationCalls.WithLabelValues("user.id")))
	})

	t.Run("counts noticed errors by expectedness", func(t *testing.T) {
		sink := NewPrometheusSink(prometheus.NewRegistry())

		sink.NoticeError(ctx, "validation failed", true)
		sink.NoticeError(ctx, "worse", false)
		sink.NoticeError(ctx, "again", true)

		assert.Equal(t, float64(2), testutil.ToFloat64(sink.noticedErrors.WithLabelValues("true")))
		assert.Equal(t, float64(1), testutil.ToFloat64(sink.noticedErrors.WithLabelValues("false")))
	})

	t.Run("name and parameter calls are no-ops", func(t *testing.T) {
		sink := NewPrometheusSink(prometheus.NewRegistry())
		assert.NotPanics(t, func() {
			sink.SetTransactionName(ctx, "GraphQL", "QUERY/books")
			sink.AddCustomParameter(ctx, "query", "{ books }")
		})
	})
}
