// Package chi is the HTTP transport: routing, request decoding, and the
// domain-error to status-code mapping.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/domain/record"
	authuc "github.com/kailas-cloud/topiclens/internal/usecase/auth"
	"github.com/kailas-cloud/topiclens/internal/usecase/diagram"
	healthuc "github.com/kailas-cloud/topiclens/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// QueryService serves the structured listing and search operations.
type QueryService interface {
	Search(filter record.Filter) ([]record.Joined, error)
	Owners() ([]string, error)
	Topics(owner string) ([]string, error)
	Consumers() ([]string, error)
}

// AnswerService runs the retrieval-augmented answer pipeline.
type AnswerService interface {
	Answer(ctx context.Context, filter record.Filter, query string) (string, error)
}

// LoginService mints credentials for valid username/password pairs.
type LoginService interface {
	Login(username, password string) (authuc.Token, error)
}

// Server carries the use case services behind the HTTP handlers.
type Server struct {
	query         QueryService
	answers       AnswerService
	login         LoginService
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	query QueryService,
	answers AnswerService,
	login LoginService,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		query:   query,
		answers: answers,
		login:   login,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, "upstream_error"),
		sentinelHandler(domain.ErrEmptyResult, http.StatusBadGateway, "empty_result"),
		sentinelHandler(domain.ErrNotConfigured, http.StatusInternalServerError, "not_configured"),
		sentinelHandler(domain.ErrQueryFailed, http.StatusInternalServerError, "query_failed"),
	}
	return s
}

// Routes builds the router. protect wraps the versioned API group under
// prefix with the credential check; login, health and metrics stay public.
func (s *Server) Routes(prefix string, protect func(http.Handler) http.Handler) *chi.Mux {
	if prefix == "" {
		prefix = "/api/v1"
	}

	r := chi.NewRouter()

	r.Post("/login", s.Login)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(prefix, func(r chi.Router) {
		if protect != nil {
			r.Use(protect)
		}
		r.Get("/apps", s.ListApps)
		r.Get("/apps/{app}/topics", s.ListTopics)
		r.Get("/consumers", s.ListConsumers)
		r.Post("/search", s.Search)
		r.Post("/search/ai", s.SearchAI)
		r.Post("/search/diagram", s.SearchDiagram)
	})

	return r
}

// Login handles POST /login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "username and password are required")
		return
	}

	token, err := s.login.Login(req.Username, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// ListApps handles GET /api/v1/apps.
func (s *Server) ListApps(w http.ResponseWriter, _ *http.Request) {
	owners, err := s.query.Owners()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: owners})
}

// ListTopics handles GET /api/v1/apps/{app}/topics.
func (s *Server) ListTopics(w http.ResponseWriter, r *http.Request) {
	app := chi.URLParam(r, "app")
	topics, err := s.query.Topics(app)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: topics})
}

// ListConsumers handles GET /api/v1/consumers.
func (s *Server) ListConsumers(w http.ResponseWriter, _ *http.Request) {
	consumers, err := s.query.Consumers()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: consumers})
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.decodeFilter(w, r)
	if !ok {
		return
	}

	rows, err := s.query.Search(filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: rows})
}

// SearchAI handles POST /api/v1/search/ai.
func (s *Server) SearchAI(w http.ResponseWriter, r *http.Request) {
	var req aiSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}

	answer, err := s.answers.Answer(r.Context(), req.Filter(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aiSearchResponse{Answer: answer})
}

// SearchDiagram handles POST /api/v1/search/diagram. The response is the
// flowchart text itself, not JSON.
func (s *Server) SearchDiagram(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.decodeFilter(w, r)
	if !ok {
		return
	}

	rows, err := s.query.Search(filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(diagram.Render(rows)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	report := s.health.Check()

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decodeFilter(w http.ResponseWriter, r *http.Request) (record.Filter, bool) {
	var filter record.Filter
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
			return record.Filter{}, false
		}
	}
	return filter, true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    code,
		Message: message,
	}})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidCredentials,
		domain.ErrUnauthorized,
		domain.ErrUpstream,
		domain.ErrEmptyResult,
		domain.ErrNotConfigured,
		domain.ErrQueryFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}
