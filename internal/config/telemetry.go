package config

import "fmt"

// Sink names accepted in TelemetryConfig.Sinks.
const (
	SinkLog        = "log"
	SinkPrometheus = "prometheus"
	SinkNewRelic   = "newrelic"
	SinkOtel       = "otel"
)

// TelemetryConfig controls the operation observer and its sinks
type TelemetryConfig struct {
	Sinks             []string       `mapstructure:"sinks"`               // Enabled telemetry sinks (default: [log])
	NoticeErrors      bool           `mapstructure:"notice_errors"`       // Report non-resolver execution errors (default: false)
	ElideSecureValues bool           `mapstructure:"elide_secure_values"` // Redact secure variables before export (default: false)
	ElisionKeepChars  int            `mapstructure:"elision_keep_chars"`  // Leading characters kept when eliding (default: 4)
	SecureVariables   []string       `mapstructure:"secure_variables"`    // Variable names treated as secure
	NewRelic          NewRelicConfig `mapstructure:"newrelic"`
}

// NewRelicConfig holds New Relic agent settings, used when the newrelic
// sink is enabled
type NewRelicConfig struct {
	AppName    string `mapstructure:"app_name"`
	LicenseKey string `mapstructure:"license_key"`
}

// Validate validates telemetry configuration
func (tc *TelemetryConfig) Validate() error {
	for _, sink := range tc.Sinks {
		switch sink {
		case SinkLog, SinkPrometheus, SinkNewRelic, SinkOtel:
		default:
			return fmt.Errorf("unknown telemetry sink: %q", sink)
		}
		if sink == SinkNewRelic && tc.NewRelic.LicenseKey == "" {
			return fmt.Errorf("newrelic sink requires telemetry.newrelic.license_key")
		}
	}

	if tc.ElisionKeepChars < 0 {
		return fmt.Errorf("telemetry elision_keep_chars must not be negative, got: %d", tc.ElisionKeepChars)
	}

	return nil
}
