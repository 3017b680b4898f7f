package observe

import (
	"context"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink exposes the observer's counters as Prometheus metrics.
// Transaction names and custom parameters are deliberately not exported:
// both are unbounded-cardinality strings and would blow up the registry.
type PrometheusSink struct {
	operationCalls *prometheus.CounterVec
	noticedErrors  *prometheus.CounterVec
}

// NewPrometheusSink builds a sink and registers its collectors on reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		operationCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphql_operation_calls_total",
				Help: "Per-field GraphQL operation invocations.",
			},
			[]string{"operation"},
		),
		noticedErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphql_noticed_errors_total",
				Help: "GraphQL execution errors reported by the observer.",
			},
			[]string{"expected"},
		),
	}
	reg.MustRegister(s.operationCalls, s.noticedErrors)
	return s
}

func (s *PrometheusSink) SetTransactionName(context.Context, string, string) {}

func (s *PrometheusSink) AddCustomParameter(context.Context, string, string) {}

func (s *PrometheusSink) IncrementCounter(_ context.Context, key string) {
	s.operationCalls.WithLabelValues(strings.TrimPrefix(key, callCountPrefix)).Inc()
}

func (s *PrometheusSink) NoticeError(_ context.Context, _ string, expected bool) {
	s.noticedErrors.WithLabelValues(strconv.FormatBool(expected)).Inc()
}
