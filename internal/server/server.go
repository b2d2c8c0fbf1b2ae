package server

import (
	"log/slog"
	"net/http"

	"resto-dashboard/internal/handlers"
	"resto-dashboard/internal/services"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

// TemplateHandlers carries page handlers wired up in main, where the
// template components live.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints; filter parameters arrive as query string.
	s.mux.HandleFunc("GET /api/facets", s.apiHandlers.HandleFacets)
	s.mux.HandleFunc("GET /api/monthly-summary", s.apiHandlers.HandleMonthlySummary)
	s.mux.HandleFunc("GET /api/customers-by-restaurant", s.apiHandlers.HandleCustomersByRestaurant)
	s.mux.HandleFunc("GET /api/customers-by-country", s.apiHandlers.HandleCustomersByCountry)

	// Datastar SSE endpoint driving the reactive page.
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
