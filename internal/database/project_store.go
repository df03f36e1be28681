package database

import (
	"context"
	"fmt"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// ProjectStore persists the project vault in Postgres, one row per project
// under a namespace. It implements vault.Backend.
type ProjectStore struct {
	db        *DB
	namespace string
}

func NewProjectStore(db *DB, namespace string) *ProjectStore {
	return &ProjectStore{db: db, namespace: namespace}
}

// Load returns the namespace's projects in list order
func (s *ProjectStore) Load(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, status, parts, cost, created_at
		FROM projects
		WHERE namespace = $1
		ORDER BY position ASC
	`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Status, &p.Parts, &p.Cost, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}
	return projects, nil
}

// Save replaces the namespace's rows in a single transaction
func (s *ProjectStore) Save(ctx context.Context, projects []models.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE namespace = $1`, s.namespace); err != nil {
		return fmt.Errorf("clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (namespace, id, position, name, type, status, parts, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range projects {
		if _, err := stmt.ExecContext(ctx, s.namespace, p.ID, i, p.Name, p.Type, p.Status, p.Parts, p.Cost, p.CreatedAt); err != nil {
			return fmt.Errorf("insert project %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
