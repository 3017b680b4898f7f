// Package middleware holds the HTTP middleware shared by the server.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicTxn starts a New Relic web transaction per request and puts it
// into the request context so downstream telemetry (the operation observer
// in particular) can rename it and attach attributes.
func NewRelicTxn(app *newrelic.Application) fiber.Handler {
	return func(c fiber.Ctx) error {
		if app == nil {
			return c.Next()
		}

		txn := app.StartTransaction(c.Method() + " " + c.Path())
		defer txn.End()

		reqURL, _ := url.Parse(c.OriginalURL())
		txn.SetWebRequest(newrelic.WebRequest{
			URL:       reqURL,
			Method:    c.Method(),
			Host:      c.Hostname(),
			Header:    http.Header{},
			Transport: newrelic.TransportHTTP,
		})

		c.SetContext(newrelic.NewContext(c.Context(), txn))

		err := c.Next()

		txn.SetWebResponse(nil).WriteHeader(c.Response().StatusCode())
		return err
	}
}
