package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/neurodex/neurodex/internal/db"
	"github.com/neurodex/neurodex/internal/domain"
	"github.com/neurodex/neurodex/internal/metrics"
	corpusuc "github.com/neurodex/neurodex/internal/usecase/corpus"
	dissociateuc "github.com/neurodex/neurodex/internal/usecase/dissociate"
	healthuc "github.com/neurodex/neurodex/internal/usecase/health"
	queryuc "github.com/neurodex/neurodex/internal/usecase/query"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest         = "bad_request"
	codeUnauthorized       = "unauthorized"
	codeInvalidCoordinates = "invalid_coordinates"
	codeNotFound           = "not_found"
	codeStoreUnavailable   = "store_unavailable"
	codeInternalError      = "internal_error"
)

// Server exposes the query engine over HTTP.
type Server struct {
	query      *queryuc.Service
	dissociate *dissociateuc.Service
	corpus     *corpusuc.Service
	health     *healthuc.Service
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	query *queryuc.Service,
	dissociate *dissociateuc.Service,
	corpus *corpusuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		query:      query,
		dissociate: dissociate,
		corpus:     corpus,
		health:     health,
		logger:     logger,
	}
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/ui", s.UI)
	r.Get("/img", s.Img)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/corpus/status", s.CorpusStatus)
	r.Get("/terms/{term}/studies", s.TermStudies)
	r.Get("/locations/{coords}/studies", s.LocationStudies)
	r.Get("/dissociate/terms/{termA}/{termB}", s.DissociateTerms)
	r.Get("/dissociate/locations/{coordsA}/{coordsB}", s.DissociateLocations)
}

// TermStudies handles GET /terms/{term}/studies.
func (s *Server) TermStudies(w http.ResponseWriter, r *http.Request) {
	res, err := s.query.ByTerm(r.Context(), chi.URLParam(r, "term"))
	if err != nil {
		metrics.QueryRequestsTotal.WithLabelValues("term", "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.QueryRequestsTotal.WithLabelValues("term", "ok").Inc()
	metrics.QueryStudiesReturned.WithLabelValues("term").Observe(float64(len(res.Studies)))
	writeJSON(w, http.StatusOK, termResultToJSON(res))
}

// LocationStudies handles GET /locations/{coords}/studies.
func (s *Server) LocationStudies(w http.ResponseWriter, r *http.Request) {
	res, err := s.query.ByLocation(r.Context(), chi.URLParam(r, "coords"))
	if err != nil {
		metrics.QueryRequestsTotal.WithLabelValues("location", "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.QueryRequestsTotal.WithLabelValues("location", "ok").Inc()
	metrics.QueryStudiesReturned.WithLabelValues("location").Observe(float64(len(res.Studies)))
	writeJSON(w, http.StatusOK, locationResultToJSON(res))
}

// DissociateTerms handles GET /dissociate/terms/{termA}/{termB}.
func (s *Server) DissociateTerms(w http.ResponseWriter, r *http.Request) {
	res, err := s.dissociate.Terms(r.Context(), chi.URLParam(r, "termA"), chi.URLParam(r, "termB"))
	if err != nil {
		metrics.QueryRequestsTotal.WithLabelValues("dissociate_terms", "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.QueryRequestsTotal.WithLabelValues("dissociate_terms", "ok").Inc()
	metrics.QueryStudiesReturned.WithLabelValues("dissociate_terms").Observe(float64(len(res.AOnly) + len(res.BOnly) + len(res.Overlap)))
	writeJSON(w, http.StatusOK, dissociationToJSON(res, "term_a", "term_b"))
}

// DissociateLocations handles GET /dissociate/locations/{coordsA}/{coordsB}.
func (s *Server) DissociateLocations(w http.ResponseWriter, r *http.Request) {
	res, err := s.dissociate.Locations(r.Context(), chi.URLParam(r, "coordsA"), chi.URLParam(r, "coordsB"))
	if err != nil {
		metrics.QueryRequestsTotal.WithLabelValues("dissociate_locations", "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.QueryRequestsTotal.WithLabelValues("dissociate_locations", "ok").Inc()
	metrics.QueryStudiesReturned.WithLabelValues("dissociate_locations").Observe(float64(len(res.AOnly) + len(res.BOnly) + len(res.Overlap)))
	writeJSON(w, http.StatusOK, dissociationToJSON(res, "query_a", "query_b"))
}

// CorpusStatus handles GET /corpus/status.
func (s *Server) CorpusStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.corpus.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, corpusStatusToJSON(stats))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinates):
		writeError(w, http.StatusBadRequest, codeInvalidCoordinates, domain.ErrInvalidCoordinates.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, domain.ErrNotFound.Error())
	case isStoreError(err):
		s.logger.Error("store error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeStoreUnavailable, domain.ErrStoreUnavailable.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// isStoreError reports whether the failure originated in the database layer.
func isStoreError(err error) bool {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return true
	}
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
