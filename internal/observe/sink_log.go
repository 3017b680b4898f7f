package observe

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes every telemetry call as a structured log event. Useful in
// development and as a fallback when no APM backend is configured.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink builds a sink writing to logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SetTransactionName(_ context.Context, category, name string) {
	s.logger.Debug().
		Str("category", category).
		Str("name", name).
		Msg("transaction renamed")
}

func (s *LogSink) AddCustomParameter(_ context.Context, key, value string) {
	s.logger.Debug().
		Str("key", key).
		Str("value", value).
		Msg("custom parameter")
}

func (s *LogSink) IncrementCounter(_ context.Context, key string) {
	s.logger.Debug().
		Str("counter", key).
		Msg("counter incremented")
}

func (s *LogSink) NoticeError(_ context.Context, message string, expected bool) {
	s.logger.Warn().
		Bool("expected", expected).
		Str("error", message).
		Msg("graphql error noticed")
}
