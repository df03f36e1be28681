package httpapi

import (
	"net/http"
	"strconv"

	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/vault"
)

// ProjectAPI handles HTTP API requests for the project vault
type ProjectAPI struct {
	vault  *vault.Store
	logger *logging.Logger
}

func NewProjectAPI(store *vault.Store, logger *logging.Logger) *ProjectAPI {
	return &ProjectAPI{
		vault:  store,
		logger: logger,
	}
}

// RegisterRoutes registers project routes on the given mux
func (api *ProjectAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/projects", corsMiddleware(api.handleProjects))
	mux.HandleFunc("/api/projects/", corsMiddleware(api.handleProjectItem))
}

// handleProjects handles list and create operations
func (api *ProjectAPI) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, api.vault.List())
	case http.MethodPost:
		api.createProject(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *ProjectAPI) createProject(w http.ResponseWriter, r *http.Request) {
	var params models.CreateProjectParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	project, err := api.vault.Add(r.Context(), params)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// handleProjectItem handles single project operations
func (api *ProjectAPI) handleProjectItem(w http.ResponseWriter, r *http.Request) {
	raw, rest := pathID(r, "/api/projects/")
	if raw == "" || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid project id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		api.getProject(w, id)
	case http.MethodPatch, http.MethodPut:
		api.updateProject(w, r, id)
	case http.MethodDelete:
		api.deleteProject(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *ProjectAPI) getProject(w http.ResponseWriter, id int64) {
	project, err := api.vault.Get(id)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (api *ProjectAPI) updateProject(w http.ResponseWriter, r *http.Request, id int64) {
	var params models.UpdateProjectParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	project, err := api.vault.Update(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (api *ProjectAPI) deleteProject(w http.ResponseWriter, r *http.Request, id int64) {
	if err := api.vault.Remove(r.Context(), id); err != nil {
		writeServiceError(w, api.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
