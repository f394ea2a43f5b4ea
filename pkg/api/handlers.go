package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/session"
	"github.com/dmorval/linkscope/pkg/validation"
)

// handleGraph serves GET /api/v1/graph
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if s.methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	q, err := parseGraphQuery(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateQuery(&q); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	payload, cached, err := s.Graph(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, graph.ErrDataUnavailable):
			s.respondError(w, http.StatusNotFound, "no events match this query")
		case graph.IsUpstream(err):
			s.respondError(w, http.StatusBadGateway, s.sanitizeError(err, "event fetch"))
		case errors.Is(err, r.Context().Err()):
			// client went away; nothing useful to write
		default:
			s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "graph build"))
		}
		return
	}

	s.respondJSON(w, http.StatusOK, GraphResponse{
		Payload:     payload,
		Cached:      cached,
		BuildMillis: time.Since(start).Milliseconds(),
	})
}

// handleDatasets serves GET /api/v1/datasets
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if s.methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	datasets, err := s.store.Datasets(r.Context())
	if err != nil {
		s.respondError(w, http.StatusBadGateway, s.sanitizeError(err, "dataset listing"))
		return
	}
	s.respondJSON(w, http.StatusOK, DatasetsResponse{Datasets: datasets})
}

// handleFocus serves POST /api/v1/focus: an alerting pipeline or case
// management system pushes a phone number here and every connected
// explorer session centers on it.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if s.methodNotAllowed(w, r, http.MethodPost) {
		return
	}
	if s.focus == nil {
		s.respondError(w, http.StatusNotImplemented, "focus bus is not configured")
		return
	}

	var req session.FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FocusPhone == "" {
		s.respondError(w, http.StatusBadRequest, "focusPhone is required")
		return
	}

	if err := s.focus.Publish(&req); err != nil {
		s.metrics.RecordFocusRequest("publish_error")
		s.respondError(w, http.StatusBadGateway, s.sanitizeError(err, "focus publish"))
		return
	}

	s.metrics.RecordFocusRequest("published")
	s.logger.Info("focus request published",
		logging.FocusID(req.ID),
		logging.NodeID(req.FocusPhone))
	s.respondJSON(w, http.StatusAccepted, FocusResponse{ID: req.ID})
}

// handleArchive serves POST /api/v1/archive: builds (or reuses) the
// payload for the posted query and exports it as a case snapshot.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.methodNotAllowed(w, r, http.MethodPost) {
		return
	}
	if s.archiver == nil {
		s.respondError(w, http.StatusNotImplemented, "archive is not configured")
		return
	}

	var q graph.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q = q.WithDefaults()
	if err := validation.ValidateQuery(&q); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, _, err := s.Graph(r.Context(), q)
	if err != nil {
		if errors.Is(err, graph.ErrDataUnavailable) {
			s.respondError(w, http.StatusNotFound, "no events match this query")
			return
		}
		s.respondError(w, http.StatusBadGateway, s.sanitizeError(err, "graph build"))
		return
	}

	key, err := s.archiver.Export(r.Context(), q, payload)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, s.sanitizeError(err, "snapshot export"))
		return
	}
	s.respondJSON(w, http.StatusCreated, ArchiveResponse{Key: key, Bucket: s.archiver.Bucket()})
}

// handleHealth serves GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}
