// Package vault is the project vault: a single in-memory project list that
// reads through on open and writes through on every mutation.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNameRequired    = errors.New("project name is required")
)

// DefaultNamespace is the storage key the project list lives under
const DefaultNamespace = "drone-edu-storage"

// Backend persists the whole project list
type Backend interface {
	Load(ctx context.Context) ([]models.Project, error)
	Save(ctx context.Context, projects []models.Project) error
}

// Store owns the project list. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	projects []models.Project
	backend  Backend
	logger   *logging.Logger
	now      func() time.Time
	lastID   int64
}

// Open loads the list from backend. A failed load starts from an empty list.
func Open(ctx context.Context, backend Backend, logger *logging.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}

	projects, err := backend.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load project vault, starting empty", logging.WithField("error", err))
		projects = nil
	}
	s.projects = append([]models.Project{}, projects...)
	for _, p := range s.projects {
		if p.ID > s.lastID {
			s.lastID = p.ID
		}
	}

	logger.Info("Project vault opened", logging.WithField("projects", len(s.projects)))
	return s
}

// List returns projects in insertion order with totals
func (s *Store) List() models.ProjectListResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := append([]models.Project{}, s.projects...)
	return models.ProjectListResponse{
		Projects:   projects,
		TotalCount: len(projects),
		TotalCost:  lo.SumBy(projects, func(p models.Project) float64 { return p.Cost }),
	}
}

func (s *Store) Get(id int64) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := lo.Find(s.projects, func(p models.Project) bool { return p.ID == id })
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	return p, nil
}

// Add appends a project. Ids are creation unix-millis, bumped past the last
// id handed out so two adds in one millisecond stay distinct.
func (s *Store) Add(ctx context.Context, params models.CreateProjectParams) (models.Project, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return models.Project{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}

	p := models.Project{
		ID:        id,
		Name:      name,
		Type:      lo.Ternary(strings.TrimSpace(params.Type) == "", models.DefaultProjectType, strings.TrimSpace(params.Type)),
		Status:    lo.Ternary(strings.TrimSpace(params.Status) == "", models.ProjectStatusPlanning, strings.TrimSpace(params.Status)),
		Parts:     params.Parts,
		Cost:      params.Cost,
		CreatedAt: now.UTC(),
	}

	next := append(append([]models.Project{}, s.projects...), p)
	if err := s.commit(ctx, next); err != nil {
		return models.Project{}, err
	}
	s.lastID = id
	return p, nil
}

// Update merges the non-nil fields of params into project id
func (s *Store) Update(ctx context.Context, id int64, params models.UpdateProjectParams) (models.Project, error) {
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return models.Project{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, idx, ok := lo.FindIndexOf(s.projects, func(p models.Project) bool { return p.ID == id })
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}

	if params.Name != nil {
		p.Name = strings.TrimSpace(*params.Name)
	}
	if params.Type != nil {
		p.Type = *params.Type
	}
	if params.Status != nil {
		p.Status = *params.Status
	}
	if params.Parts != nil {
		p.Parts = *params.Parts
	}
	if params.Cost != nil {
		p.Cost = *params.Cost
	}

	next := append([]models.Project{}, s.projects...)
	next[idx] = p
	if err := s.commit(ctx, next); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Remove deletes project id
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := lo.Reject(s.projects, func(p models.Project, _ int) bool { return p.ID == id })
	if len(next) == len(s.projects) {
		return fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	return s.commit(ctx, next)
}

// commit persists next and only then swaps it in; callers hold s.mu
func (s *Store) commit(ctx context.Context, next []models.Project) error {
	if err := s.backend.Save(ctx, next); err != nil {
		s.logger.Error("Failed to save project vault", logging.WithField("error", err))
		return fmt.Errorf("failed to save projects: %w", err)
	}
	s.projects = next
	return nil
}
