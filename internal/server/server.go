package server

import (
	"log/slog"
	"net/http"

	"olist-dashboard/internal/handlers"
	"olist-dashboard/internal/services"
)

type Server struct {
	analytics      *services.Analytics
	mux            *http.ServeMux
	logger         *slog.Logger
	apiHandlers    *handlers.APIHandlers
	sseHandlers    *handlers.SSEHandlers
	exportHandlers *handlers.ExportHandlers
}

// TemplateHandlers carries the page renderers so template wiring stays
// in cmd/web.
type TemplateHandlers struct {
	Overview  http.HandlerFunc
	Delivery  http.HandlerFunc
	Segments  http.HandlerFunc
	Geography http.HandlerFunc
}

// Options configures non-handler route dependencies.
type Options struct {
	ReportName     string
	MetricsHandler http.Handler
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, opts Options) *Server {
	s := &Server{
		analytics:      analytics,
		mux:            http.NewServeMux(),
		logger:         logger,
		apiHandlers:    handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:    handlers.NewSSEHandlers(analytics, logger),
		exportHandlers: handlers.NewExportHandlers(analytics, logger, opts.ReportName),
	}
	s.setupRoutes(templateHandlers, opts)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers, opts Options) {
	// Dashboard pages
	s.mux.HandleFunc("GET /{$}", templateHandlers.Overview)
	s.mux.HandleFunc("GET /delivery", templateHandlers.Delivery)
	s.mux.HandleFunc("GET /segments", templateHandlers.Segments)
	s.mux.HandleFunc("GET /geography", templateHandlers.Geography)

	// Operational endpoints
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	if opts.MetricsHandler != nil {
		s.mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	// REST API endpoints
	s.mux.HandleFunc("GET /api/overview", s.apiHandlers.HandleOverview)
	s.mux.HandleFunc("GET /api/delivery", s.apiHandlers.HandleDelivery)
	s.mux.HandleFunc("GET /api/rfm", s.apiHandlers.HandleRFM)
	s.mux.HandleFunc("GET /api/states", s.apiHandlers.HandleStates)

	// Report exports
	s.mux.HandleFunc("GET /api/export/xlsx", s.exportHandlers.HandleXLSX)
	s.mux.HandleFunc("GET /api/export/csv", s.exportHandlers.HandleCSV)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/overview", s.sseHandlers.HandleOverview)
	s.mux.HandleFunc("GET /sse/delivery", s.sseHandlers.HandleDelivery)
	s.mux.HandleFunc("GET /sse/rfm", s.sseHandlers.HandleRFM)
	s.mux.HandleFunc("GET /sse/states", s.sseHandlers.HandleStates)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
