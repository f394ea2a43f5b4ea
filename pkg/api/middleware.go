package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmorval/linkscope/pkg/auth"
)

// metricsMiddleware tracks request counts and latencies
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		s.metrics.HTTPRequestsInFlight.Inc()
		defer s.metrics.HTTPRequestsInFlight.Dec()

		wrapper := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.metrics.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(wrapper.statusCode), time.Since(start))
	})
}

// statusResponseWriter captures the status code written by a handler
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// requireAuth enforces a bearer token when auth is configured. Without a
// JWT manager the API runs open, for local single-investigator use.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.jwt == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if _, err := s.jwt.ValidateToken(token); err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				s.respondError(w, http.StatusUnauthorized, "token has expired")
				return
			}
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}
