// Package compare holds the bounded comparison set and best-of highlighting
package compare

import (
	"errors"

	"github.com/samber/lo"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// MaxSize is the hard cap on compared parts
const MaxSize = 3

// ErrCompareFull is returned when adding to a set that already holds MaxSize parts
var ErrCompareFull = errors.New("you can only compare up to 3 items")

// Toggled reports what a Toggle call did
type Toggled int

const (
	Rejected Toggled = iota
	Added
	Removed
)

func (t Toggled) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "rejected"
	}
}

// Set is an insertion-ordered, duplicate-free selection of parts keyed by id.
// It is not safe for concurrent use; callers own one set per viewer.
type Set struct {
	parts []models.PartRecord
}

// NewSet builds a set from parts in order, dropping duplicates and anything past MaxSize
func NewSet(parts ...models.PartRecord) *Set {
	s := &Set{}
	for _, p := range parts {
		if !s.Contains(p.ID) && len(s.parts) < MaxSize {
			s.parts = append(s.parts, p)
		}
	}
	return s
}

// Toggle removes part if present, otherwise appends it. A full set is left unchanged.
func (s *Set) Toggle(part models.PartRecord) (Toggled, error) {
	if s.Contains(part.ID) {
		s.Remove(part.ID)
		return Removed, nil
	}
	if len(s.parts) >= MaxSize {
		return Rejected, ErrCompareFull
	}
	s.parts = append(s.parts, part)
	return Added, nil
}

// Remove drops the part with id; unknown ids are ignored
func (s *Set) Remove(id string) {
	s.parts = lo.Reject(s.parts, func(p models.PartRecord, _ int) bool {
		return p.ID == id
	})
}

func (s *Set) Clear() {
	s.parts = nil
}

func (s *Set) Contains(id string) bool {
	return lo.ContainsBy(s.parts, func(p models.PartRecord) bool {
		return p.ID == id
	})
}

// Parts returns the members in insertion order
func (s *Set) Parts() []models.PartRecord {
	out := make([]models.PartRecord, len(s.parts))
	copy(out, s.parts)
	return out
}

func (s *Set) IDs() []string {
	return lo.Map(s.parts, func(p models.PartRecord, _ int) string {
		return p.ID
	})
}

func (s *Set) Len() int {
	return len(s.parts)
}

func (s *Set) Full() bool {
	return len(s.parts) >= MaxSize
}

// BestFor computes best-of highlighting for key over the current members
func (s *Set) BestFor(key string) Best {
	return BestFor(s.parts, key)
}
