package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/twcrone/graphql-observe/internal/blog"
	"github.com/twcrone/graphql-observe/internal/config"
	"github.com/twcrone/graphql-observe/internal/middleware"
	"github.com/twcrone/graphql-observe/internal/observe"
)

// Server is the HTTP server hosting the GraphQL endpoint, health check and
// metrics.
type Server struct {
	app *fiber.App
	cfg *config.Config
}

// NewServer wires the store, observer, schema and routes from cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	store := blog.NewStore()
	store.Seed()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	sink, nrApp, err := buildSink(&cfg.Telemetry, registry)
	if err != nil {
		return nil, err
	}

	observer := observe.NewObserver(sink, observerOptions(&cfg.Telemetry)...)
	ext := observe.NewExtension(observer, cfg.Telemetry.SecureVariables)

	schema, err := NewSchema(store, ext)
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}
	handler := NewGraphQLHandler(schema, &cfg.GraphQL)

	app := fiber.New(fiber.Config{AppName: "graphql-observe"})
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	if nrApp != nil {
		app.Use(middleware.NewRelicTxn(nrApp))
	}

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	app.Post("/api/v1/graphql", handler.HandleGraphQL)

	return &Server{app: app, cfg: cfg}, nil
}

// Listen serves until the listener fails or the server shuts down.
func (s *Server) Listen() error {
	addr := s.cfg.Server.Address()
	log.Info().Str("addr", addr).Msg("graphql server listening")
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// buildSink assembles the configured telemetry sinks. The newrelic sink
// also yields the agent application so the server can start web
// transactions.
func buildSink(cfg *config.TelemetryConfig, registry prometheus.Registerer) (observe.TelemetrySink, *newrelic.Application, error) {
	var (
		sinks []observe.TelemetrySink
		nrApp *newrelic.Application
	)

	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, observe.NewLogSink(log.Logger))
		case config.SinkPrometheus:
			sinks = append(sinks, observe.NewPrometheusSink(registry))
		case config.SinkNewRelic:
			app, err := newrelic.NewApplication(
				newrelic.ConfigAppName(cfg.NewRelic.AppName),
				newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			)
			if err != nil {
				return nil, nil, fmt.Errorf("starting newrelic agent: %w", err)
			}
			nrApp = app
			sinks = append(sinks, observe.NewNewRelicSink(app))
		case config.SinkOtel:
			sink, err := observe.NewOtelSink(otel.GetMeterProvider().Meter("graphql-observe"))
			if err != nil {
				return nil, nil, fmt.Errorf("creating otel sink: %w", err)
			}
			sinks = append(sinks, sink)
		default:
			return nil, nil, fmt.Errorf("unknown telemetry sink: %q", name)
		}
	}

	if len(sinks) == 1 {
		return sinks[0], nrApp, nil
	}
	return observe.NewMultiSink(sinks...), nrApp, nil
}

func observerOptions(cfg *config.TelemetryConfig) []observe.Option {
	var opts []observe.Option
	if cfg.NoticeErrors {
		opts = append(opts, observe.WithNoticeErrors())
	}
	if cfg.ElideSecureValues {
		opts = append(opts, observe.WithElisionKeepCount(cfg.ElisionKeepChars))
	}
	return opts
}
