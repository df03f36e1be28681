package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/johnrirwin/fpviraq/internal/catalog"
	"github.com/johnrirwin/fpviraq/internal/compare"
	"github.com/johnrirwin/fpviraq/internal/detail"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/market"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/news"
	"github.com/johnrirwin/fpviraq/internal/session"
	"github.com/johnrirwin/fpviraq/internal/vault"
)

// CompareFullMessage is shown when a fourth part is added to the comparison
const CompareFullMessage = "You can only compare up to 3 items."

type Server struct {
	catalog    *catalog.Store
	sessions   *session.Manager
	tokens     *session.Tokens
	middleware *session.Middleware
	vault      *vault.Store
	market     *market.Converter
	news       *news.Hub
	logger     *logging.Logger
	server     *http.Server
}

func New(store *catalog.Store, sessions *session.Manager, tokens *session.Tokens, projects *vault.Store, converter *market.Converter, hub *news.Hub, logger *logging.Logger) *Server {
	return &Server{
		catalog:    store,
		sessions:   sessions,
		tokens:     tokens,
		middleware: session.NewMiddleware(tokens),
		vault:      projects,
		market:     converter,
		news:       hub,
		logger:     logger,
	}
}

// Handler builds the routing table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/routes", s.corsMiddleware(s.handleRoutes))

	// Catalog routes
	catalogAPI := NewCatalogAPI(s.catalog, s.sessions, s.middleware, s.logger)
	catalogAPI.RegisterRoutes(mux, s.corsMiddleware)

	// Session, compare and detail routes
	if s.sessions != nil && s.tokens != nil {
		sessionAPI := NewSessionAPI(s.sessions, s.tokens, s.middleware, s.logger)
		sessionAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// Project vault routes
	if s.vault != nil {
		projectAPI := NewProjectAPI(s.vault, s.logger)
		projectAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// Marketplace routes
	if s.market != nil {
		marketAPI := NewMarketAPI(s.market, s.logger)
		marketAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// News hub routes
	if s.news != nil {
		mux.HandleFunc("/api/news", s.corsMiddleware(s.handleGetNews))
		mux.HandleFunc("/api/news/sources", s.corsMiddleware(s.handleGetSources))
		mux.HandleFunc("/api/news/refresh", s.corsMiddleware(s.handleRefresh))
	}

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, models.Routes())
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	limit := 50
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	params := models.NewsFilterParams{
		Category: query.Get("category"),
		Limit:    limit,
	}

	writeJSON(w, http.StatusOK, s.news.Items(r.Context(), params))
}

func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sources": s.news.Sources(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	if err := s.news.Refresh(ctx); err != nil {
		s.logger.Error("News refresh failed", logging.WithField("error", err))
		writeError(w, http.StatusBadGateway, "refresh_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "refreshed",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"parts":  s.catalog.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// writeServiceError maps domain errors onto status codes
func writeServiceError(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, compare.ErrCompareFull):
		writeError(w, http.StatusConflict, "compare_full", CompareFullMessage)
	case errors.Is(err, catalog.ErrPartNotFound):
		writeError(w, http.StatusNotFound, "part_not_found", err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, vault.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project_not_found", err.Error())
	case errors.Is(err, vault.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, detail.ErrImageIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "invalid_index", err.Error())
	case errors.Is(err, detail.ErrNoActivePart):
		writeError(w, http.StatusConflict, "no_active_part", err.Error())
	default:
		logger.Error("Request failed", logging.WithField("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// parsePagination reads limit/offset, clamping limit to maxLimit
func parsePagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// pathID splits the path after prefix into its first segment and the rest
func pathID(r *http.Request, prefix string) (id string, rest []string) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if trimmed == "" {
		return "", nil
	}
	parts := strings.Split(trimmed, "/")
	return parts[0], parts[1:]
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
