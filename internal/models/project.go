package models

import "time"

const (
	DefaultProjectType     = `Freestyle 5"`
	ProjectStatusPlanning  = "Planning"
	ProjectStatusBuilding  = "Building"
	ProjectStatusCompleted = "Completed"
)

// Project is one build tracked in the project vault
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Parts     int       `json:"parts"`
	Cost      float64   `json:"cost"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateProjectParams holds the fields accepted when adding a project.
// Blank type and status fall back to the vault defaults.
type CreateProjectParams struct {
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	Status string  `json:"status,omitempty"`
	Parts  int     `json:"parts,omitempty"`
	Cost   float64 `json:"cost,omitempty"`
}

// UpdateProjectParams is a partial update; nil fields are left unchanged
type UpdateProjectParams struct {
	Name   *string  `json:"name,omitempty"`
	Type   *string  `json:"type,omitempty"`
	Status *string  `json:"status,omitempty"`
	Parts  *int     `json:"parts,omitempty"`
	Cost   *float64 `json:"cost,omitempty"`
}

// ProjectListResponse is returned by the vault listing endpoints
type ProjectListResponse struct {
	Projects   []Project `json:"projects"`
	TotalCount int       `json:"totalCount"`
	TotalCost  float64   `json:"totalCost"`
}
