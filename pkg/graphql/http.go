package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/dmorval/linkscope/pkg/logging"
)

// Request is a GraphQL HTTP request body
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response is a GraphQL HTTP response body
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Error is one GraphQL execution error
type Error struct {
	Message string `json:"message"`
}

// Handler serves GraphQL queries over HTTP POST
type Handler struct {
	schema graphql.Schema
	logger logging.Logger
}

// NewHandler creates a GraphQL HTTP handler
func NewHandler(schema graphql.Schema, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{schema: schema, logger: logger.With(logging.Component("graphql"))}
}

// ServeHTTP handles one GraphQL request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	resp := Response{Data: result.Data}
	for _, gqlErr := range result.Errors {
		resp.Errors = append(resp.Errors, Error{Message: gqlErr.Message})
	}
	if len(resp.Errors) > 0 {
		h.logger.Warn("query completed with errors", logging.Count(len(resp.Errors)))
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode response", logging.Error(err))
	}
}
