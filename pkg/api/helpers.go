package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmorval/linkscope/pkg/logging"
)

// sanitizeError converts an internal error to a user-safe message.
// Full details are logged but never exposed to the client.
func (s *Server) sanitizeError(err error, operation string) string {
	if err == nil {
		return ""
	}
	s.logger.Error("request failed", logging.Operation(operation), logging.Error(err))
	return fmt.Sprintf("%s failed", operation)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) bool {
	if r.Method == allowed {
		return false
	}
	w.Header().Set("Allow", allowed)
	s.respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("use %s", allowed))
	return true
}
