package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	connectionuc "github.com/kailas-cloud/docsearch/internal/usecase/connection"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

// APIPrefix is where the gateway routes are mounted.
const APIPrefix = "/api/mongodb"

// Options tunes the HTTP surface.
type Options struct {
	// ConnectTimeout bounds POST /connect. Zero means the request context only.
	ConnectTimeout time.Duration
	// AllowedOrigins for CORS. Empty allows all.
	AllowedOrigins []string
	// SearchRPS caps POST /search across all clients. Zero disables the limit.
	SearchRPS   float64
	SearchBurst int
}

// Server serves the search gateway API.
type Server struct {
	conn      *connectionuc.Service
	search    *searchuc.Service
	documents *documentuc.Service
	health    *healthuc.Service
	opts      Options
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	conn *connectionuc.Service,
	search *searchuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		conn:      conn,
		search:    search,
		documents: documents,
		health:    health,
		opts:      opts,
		logger:    logger,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(corsMiddleware(s.opts.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/connect", s.Connect)
		r.Get("/status", s.Status)
		r.With(rateLimit(s.opts.SearchRPS, s.opts.SearchBurst)).Post("/search", s.Search)
		r.Get("/documents/{id}", s.GetDocument)
	})
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

// Connect handles POST /api/mongodb/connect.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.URI == "" {
		writeError(w, http.StatusBadRequest, "uri is required")
		return
	}

	ctx := r.Context()
	if s.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ConnectTimeout)
		defer cancel()
	}

	version, err := s.conn.Connect(ctx, req.URI, req.DBName, req.CollectionName)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, connectResponse{Success: true, Version: version})
}

// Status handles GET /api/mongodb/status.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Connected: s.conn.Status(r.Context())})
}

// Search handles POST /api/mongodb/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.search.ClearResults(r.Context())
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	docs, err := s.search.Search(r.Context(), searchuc.Params{
		Query: req.Query,
		Mode:  mode.FromHybridFlag(req.IsHybridSearch),
		Limit: req.Limit,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	resp := searchResponse{Results: make([]documentResponse, len(docs))}
	for i := range docs {
		resp.Results[i] = documentToResponse(&docs[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDocument handles GET /api/mongodb/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}
