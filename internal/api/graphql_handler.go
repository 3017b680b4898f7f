package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/rs/zerolog/log"

	"github.com/twcrone/graphql-observe/internal/config"
	"github.com/twcrone/graphql-observe/internal/logutil"
)

// GraphQLHandler handles GraphQL HTTP requests
type GraphQLHandler struct {
	schema graphql.Schema
	config *config.GraphQLConfig
}

// GraphQLRequest represents a GraphQL HTTP request body
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response body
type GraphQLResponse struct {
	Data   interface{}    `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message    string                 `json:"message"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// GraphQLErrorLocation represents the location of a GraphQL error in the query
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewGraphQLHandler creates a new GraphQL handler
func NewGraphQLHandler(schema graphql.Schema, cfg *config.GraphQLConfig) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, config: cfg}
}

// HandleGraphQL handles POST requests to the GraphQL endpoint
func (h *GraphQLHandler) HandleGraphQL(c fiber.Ctx) error {
	startTime := time.Now()

	var req GraphQLRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid JSON in request body")
	}

	if req.Query == "" {
		return badRequest(c, "Query string is required")
	}

	if msg := checkGuardrails(req.Query, h.config); msg != "" {
		return badRequest(c, msg)
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Context(),
	})

	log.Debug().
		Str("operation", logutil.ExtractOperationMetadata(req.Query)).
		Str("query", logutil.SanitizeGraphQL(req.Query)).
		Int("errors", len(result.Errors)).
		Dur("duration", time.Since(startTime)).
		Msg("GraphQL query executed")

	return c.JSON(GraphQLResponse{
		Data:   result.Data,
		Errors: convertErrors(result.Errors),
	})
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(GraphQLResponse{
		Errors: []GraphQLError{{Message: message}},
	})
}

// convertErrors converts graphql-go errors to the response format
func convertErrors(errors []gqlerrors.FormattedError) []GraphQLError {
	if len(errors) == 0 {
		return nil
	}

	result := make([]GraphQLError, len(errors))
	for i, err := range errors {
		gqlErr := GraphQLError{
			Message:    err.Message,
			Path:       err.Path,
			Extensions: err.Extensions,
		}
		if len(err.Locations) > 0 {
			gqlErr.Locations = make([]GraphQLErrorLocation, len(err.Locations))
			for j, loc := range err.Locations {
				gqlErr.Locations[j] = GraphQLErrorLocation{
					Line:   loc.Line,
					Column: loc.Column,
				}
			}
		}
		result[i] = gqlErr
	}
	return result
}
