package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/johnrirwin/fpviraq/internal/models"
)

var (
	ErrPartNotFound = errors.New("part not found")
	ErrDuplicateID  = errors.New("duplicate part id")
)

// Store is the read-only in-memory catalog loaded once at startup
type Store struct {
	parts []models.PartRecord
	byID  map[string]int
}

// NewStore indexes parts by id, rejecting duplicates
func NewStore(parts []models.PartRecord) (*Store, error) {
	s := &Store{
		parts: make([]models.PartRecord, len(parts)),
		byID:  make(map[string]int, len(parts)),
	}
	copy(s.parts, parts)

	for i, p := range s.parts {
		if p.ID == "" {
			return nil, fmt.Errorf("part at index %d has no id", i)
		}
		if _, exists := s.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		s.byID[p.ID] = i
	}

	return s, nil
}

// Load decodes a JSON array of part records
func Load(r io.Reader) (*Store, error) {
	var parts []models.PartRecord
	if err := json.NewDecoder(r).Decode(&parts); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewStore(parts)
}

// LoadFile reads the generated catalog artifact
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// WriteFile writes parts as an indented JSON array, creating parent directories
func WriteFile(path string, parts []models.PartRecord) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(parts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// All returns every record in insertion order
func (s *Store) All() []models.PartRecord {
	out := make([]models.PartRecord, len(s.parts))
	copy(out, s.parts)
	return out
}

func (s *Store) Len() int {
	return len(s.parts)
}

// Get looks a record up by id
func (s *Store) Get(id string) (models.PartRecord, error) {
	i, ok := s.byID[id]
	if !ok {
		return models.PartRecord{}, fmt.Errorf("%w: %s", ErrPartNotFound, id)
	}
	return s.parts[i], nil
}

// Lookup resolves ids in the given order, skipping unknown ones
func (s *Store) Lookup(ids []string) []models.PartRecord {
	out := make([]models.PartRecord, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok {
			out = append(out, s.parts[i])
		}
	}
	return out
}

// Search applies the filter engine to the whole catalog
func (s *Store) Search(f models.FilterState) []models.PartRecord {
	return Filter(s.parts, f)
}

// Facets lists categories and brands in first-seen order, each led by "All"
func (s *Store) Facets() models.CatalogFacets {
	categories := lo.Uniq(lo.Map(s.parts, func(p models.PartRecord, _ int) string {
		return string(p.Category)
	}))
	brands := lo.Uniq(lo.Map(s.parts, func(p models.PartRecord, _ int) string {
		return p.Brand
	}))

	return models.CatalogFacets{
		Categories: append([]string{models.FilterAll}, categories...),
		Brands:     append([]string{models.FilterAll}, brands...),
	}
}

// Categories is the category facet, led by "All"
func (s *Store) Categories() []string {
	return s.Facets().Categories
}

// Brands is the brand facet, led by "All"
func (s *Store) Brands() []string {
	return s.Facets().Brands
}
