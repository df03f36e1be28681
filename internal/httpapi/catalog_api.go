package httpapi

import (
	"net/http"

	"github.com/johnrirwin/fpviraq/internal/catalog"
	"github.com/johnrirwin/fpviraq/internal/detail"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/session"
)

// CatalogAPI serves the read-only parts catalog
type CatalogAPI struct {
	store      *catalog.Store
	sessions   *session.Manager
	middleware *session.Middleware
	logger     *logging.Logger
}

func NewCatalogAPI(store *catalog.Store, sessions *session.Manager, middleware *session.Middleware, logger *logging.Logger) *CatalogAPI {
	return &CatalogAPI{
		store:      store,
		sessions:   sessions,
		middleware: middleware,
		logger:     logger,
	}
}

// RegisterRoutes registers catalog routes on the given mux
func (api *CatalogAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/catalog/parts", corsMiddleware(api.handleListParts))
	mux.HandleFunc("/api/catalog/parts/", corsMiddleware(api.handlePartItem))
	mux.HandleFunc("/api/catalog/facets", corsMiddleware(api.handleFacets))
}

// partResponse is a part plus the badges shown on its card
type partResponse struct {
	models.PartRecord
	DisplayTags []string `json:"displayTags"`
	RealPhoto   bool     `json:"realPhoto"`
	Local       bool     `json:"local"`
}

func newPartResponse(p models.PartRecord) partResponse {
	return partResponse{
		PartRecord:  p,
		DisplayTags: detail.DisplayTags(p),
		RealPhoto:   detail.HasRealPhoto(p),
		Local:       detail.IsLocal(p),
	}
}

func (api *CatalogAPI) handleListParts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	filter := models.FilterState{
		SearchTerm: query.Get("q"),
		Category:   query.Get("category"),
		Brand:      query.Get("brand"),
	}.Normalize()

	limit, offset := parsePagination(r, 50, 500)
	writeJSON(w, http.StatusOK, pageOf(api.store.Search(filter), filter, limit, offset))
}

func pageOf(parts []models.PartRecord, filter models.FilterState, limit, offset int) models.PartListResponse {
	return models.PartListResponse{
		Parts:      catalog.Page(parts, limit, offset),
		TotalCount: len(parts),
		Filter:     filter,
	}
}

// handlePartItem serves /api/catalog/parts/{id} and its stock-request action
func (api *CatalogAPI) handlePartItem(w http.ResponseWriter, r *http.Request) {
	id, rest := pathID(r, "/api/catalog/parts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "part id required")
		return
	}

	switch {
	case len(rest) == 0:
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		api.getPart(w, id)
	case len(rest) == 1 && rest[0] == "stock-request":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if api.sessions == nil || api.middleware == nil {
			http.NotFound(w, r)
			return
		}
		api.middleware.RequireSession(func(w http.ResponseWriter, r *http.Request) {
			api.requestStock(w, r, id)
		})(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (api *CatalogAPI) getPart(w http.ResponseWriter, id string) {
	part, err := api.store.Get(id)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPartResponse(part))
}

// requestStock records the request now; the supplier notice arrives later via /api/session/notices
func (api *CatalogAPI) requestStock(w http.ResponseWriter, r *http.Request, partID string) {
	sessionID := session.GetID(r.Context())

	snap, err := api.sessions.RequestStock(r.Context(), sessionID, partID)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"partId":         partID,
		"requested":      true,
		"stockRequested": snap.StockRequested,
	})
}

func (api *CatalogAPI) handleFacets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, api.store.Facets())
}
