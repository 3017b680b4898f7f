// Package config loads and validates server configuration from a config
// file and GQLOBS_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "GQLOBS"

// Config is the root configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	GraphQL   GraphQLConfig   `mapstructure:"graphql"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address returns the host:port listen address.
func (sc *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}

// Validate validates server configuration
func (sc *ServerConfig) Validate() error {
	if sc.Port < 1 || sc.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got: %d", sc.Port)
	}
	return nil
}

// Validate validates the whole configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.GraphQL.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// Load reads configuration from path (optional; when empty, "config.yaml"
// in the working directory is tried) and the environment, applies defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; env and defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("graphql.max_depth", 10)
	v.SetDefault("graphql.allow_fragments", false)
	v.SetDefault("graphql.max_fields_per_lvl", 50)

	v.SetDefault("telemetry.sinks", []string{SinkLog})
	v.SetDefault("telemetry.notice_errors", false)
	v.SetDefault("telemetry.elide_secure_values", false)
	v.SetDefault("telemetry.elision_keep_chars", 4)
	v.SetDefault("telemetry.newrelic.app_name", "graphql-observe")
}
