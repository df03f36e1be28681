package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/johnrirwin/fpviraq/internal/compare"
	"github.com/johnrirwin/fpviraq/internal/detail"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/session"
)

// SessionAPI exposes per-viewer state: filter, comparison set and detail view
type SessionAPI struct {
	sessions   *session.Manager
	tokens     *session.Tokens
	middleware *session.Middleware
	logger     *logging.Logger
}

func NewSessionAPI(sessions *session.Manager, tokens *session.Tokens, middleware *session.Middleware, logger *logging.Logger) *SessionAPI {
	return &SessionAPI{
		sessions:   sessions,
		tokens:     tokens,
		middleware: middleware,
		logger:     logger,
	}
}

// RegisterRoutes registers session routes on the given mux
func (api *SessionAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/session", corsMiddleware(api.handleSession))
	mux.HandleFunc("/api/session/notices", corsMiddleware(api.middleware.RequireSession(api.handleNotices)))
	mux.HandleFunc("/api/session/filter", corsMiddleware(api.middleware.RequireSession(api.handleFilter)))

	mux.HandleFunc("/api/compare", corsMiddleware(api.middleware.RequireSession(api.handleCompare)))
	mux.HandleFunc("/api/compare/", corsMiddleware(api.middleware.RequireSession(api.handleCompareItem)))

	mux.HandleFunc("/api/detail", corsMiddleware(api.middleware.RequireSession(api.handleDetail)))
	mux.HandleFunc("/api/detail/", corsMiddleware(api.middleware.RequireSession(api.handleDetailAction)))
}

type createSessionResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Session   *session.Snapshot `json:"session"`
}

type partIDRequest struct {
	PartID string `json:"partId"`
}

type selectImageRequest struct {
	Index int `json:"index"`
}

// compareResponse is the comparison dock: members, spec table and best badges
type compareResponse struct {
	Parts      []models.PartRecord     `json:"parts"`
	Count      int                     `json:"count"`
	Full       bool                    `json:"full"`
	Rows       []compare.Row           `json:"rows"`
	Highlights map[string]compare.Best `json:"highlights"`
}

type toggleResponse struct {
	Result  string          `json:"result"`
	Compare compareResponse `json:"compare"`
}

// detailResponse is the detail modal for the open part, if any
type detailResponse struct {
	Open           bool               `json:"open"`
	Part           *models.PartRecord `json:"part,omitempty"`
	Gallery        []string           `json:"gallery"`
	Cursor         int                `json:"cursor"`
	ActiveImage    string             `json:"activeImage,omitempty"`
	Specs          []detail.SpecRow   `json:"specs"`
	DisplayTags    []string           `json:"displayTags"`
	RealPhoto      bool               `json:"realPhoto"`
	Local          bool               `json:"local"`
	StockRequested bool               `json:"stockRequested"`
}

func (api *SessionAPI) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		api.createSession(w, r)
	case http.MethodGet:
		api.middleware.RequireSession(api.getSession)(w, r)
	case http.MethodDelete:
		api.middleware.RequireSession(api.closeSession)(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *SessionAPI) createSession(w http.ResponseWriter, r *http.Request) {
	snap, err := api.sessions.Create(r.Context())
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	token, expiresAt, err := api.tokens.Issue(snap.ID)
	if err != nil {
		api.logger.Error("Failed to issue session token", logging.WithFields(map[string]interface{}{
			"session": snap.ID,
			"error":   err,
		}))
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to issue session token")
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   snap,
	})
}

func (api *SessionAPI) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := api.sessions.Get(r.Context(), session.GetID(r.Context()))
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (api *SessionAPI) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := api.sessions.Close(r.Context(), session.GetID(r.Context())); err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *SessionAPI) handleNotices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notices, err := api.sessions.DrainNotices(r.Context(), session.GetID(r.Context()))
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notices": notices,
	})
}

// handleFilter reads or replaces the session filter and returns the visible parts
func (api *SessionAPI) handleFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := session.GetID(ctx)

	var (
		snap *session.Snapshot
		err  error
	)
	switch r.Method {
	case http.MethodGet:
		snap, err = api.sessions.Get(ctx, id)
	case http.MethodPut:
		var filter models.FilterState
		if err := decodeJSON(r, &filter); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
			return
		}
		snap, err = api.sessions.SetFilter(ctx, id, filter)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	limit, offset := parsePagination(r, 50, 500)
	writeJSON(w, http.StatusOK, pageOf(api.sessions.Visible(snap), snap.Filter, limit, offset))
}

func (api *SessionAPI) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := session.GetID(ctx)

	var (
		snap *session.Snapshot
		err  error
	)
	switch r.Method {
	case http.MethodGet:
		snap, err = api.sessions.Get(ctx, id)
	case http.MethodDelete:
		snap, err = api.sessions.ClearCompare(ctx, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, api.compareView(snap))
}

// handleCompareItem serves POST /api/compare/toggle and DELETE /api/compare/{id}
func (api *SessionAPI) handleCompareItem(w http.ResponseWriter, r *http.Request) {
	segment, rest := pathID(r, "/api/compare/")
	if segment == "" || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	switch {
	case segment == "toggle" && r.Method == http.MethodPost:
		api.toggleCompare(w, r)
	case segment != "toggle" && r.Method == http.MethodDelete:
		api.removeCompare(w, r, segment)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *SessionAPI) toggleCompare(w http.ResponseWriter, r *http.Request) {
	var req partIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}
	req.PartID = strings.TrimSpace(req.PartID)
	if req.PartID == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "partId is required")
		return
	}

	toggled, snap, err := api.sessions.ToggleCompare(r.Context(), session.GetID(r.Context()), req.PartID)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{
		Result:  toggled.String(),
		Compare: api.compareView(snap),
	})
}

func (api *SessionAPI) removeCompare(w http.ResponseWriter, r *http.Request, partID string) {
	snap, err := api.sessions.RemoveCompare(r.Context(), session.GetID(r.Context()), partID)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, api.compareView(snap))
}

func (api *SessionAPI) compareView(snap *session.Snapshot) compareResponse {
	set := api.sessions.CompareSet(snap)
	parts := set.Parts()
	return compareResponse{
		Parts:      parts,
		Count:      set.Len(),
		Full:       set.Full(),
		Rows:       compare.Table(parts),
		Highlights: compare.Highlights(parts),
	}
}

func (api *SessionAPI) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := session.GetID(ctx)

	var (
		snap *session.Snapshot
		err  error
	)
	switch r.Method {
	case http.MethodGet:
		snap, err = api.sessions.Get(ctx, id)
	case http.MethodDelete:
		snap, err = api.sessions.CloseDetail(ctx, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, api.detailView(snap))
}

// handleDetailAction serves POST /api/detail/open and POST /api/detail/select
func (api *SessionAPI) handleDetailAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id := session.GetID(ctx)

	var (
		snap *session.Snapshot
		err  error
	)
	action, rest := pathID(r, "/api/detail/")
	switch {
	case action == "open" && len(rest) == 0:
		var req partIDRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
			return
		}
		snap, err = api.sessions.OpenDetail(ctx, id, strings.TrimSpace(req.PartID))
	case action == "select" && len(rest) == 0:
		var req selectImageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
			return
		}
		snap, err = api.sessions.SelectImage(ctx, id, req.Index)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, api.detailView(snap))
}

func (api *SessionAPI) detailView(snap *session.Snapshot) detailResponse {
	view := api.sessions.DetailView(snap)
	part, ok := view.Active()
	if !ok {
		return detailResponse{
			Gallery:     []string{},
			Specs:       []detail.SpecRow{},
			DisplayTags: []string{},
		}
	}

	image, _ := view.ActiveImage()
	return detailResponse{
		Open:           true,
		Part:           &part,
		Gallery:        view.Gallery(),
		Cursor:         view.Cursor(),
		ActiveImage:    image,
		Specs:          detail.SpecRows(part),
		DisplayTags:    detail.DisplayTags(part),
		RealPhoto:      detail.HasRealPhoto(part),
		Local:          detail.IsLocal(part),
		StockRequested: snap.HasRequestedStock(part.ID),
	}
}
