package catalog

import (
	"strings"

	"github.com/samber/lo"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// Filter returns the records matching f, preserving catalog order.
// It never mutates parts; an empty result is an empty, non-nil slice.
func Filter(parts []models.PartRecord, f models.FilterState) []models.PartRecord {
	f = f.Normalize()
	term := strings.ToLower(f.SearchTerm)

	matched := lo.Filter(parts, func(p models.PartRecord, _ int) bool {
		return matches(p, term, f.Category, f.Brand)
	})
	if matched == nil {
		matched = []models.PartRecord{}
	}
	return matched
}

// Matches reports whether a single record satisfies the filter
func Matches(p models.PartRecord, f models.FilterState) bool {
	f = f.Normalize()
	return matches(p, strings.ToLower(f.SearchTerm), f.Category, f.Brand)
}

func matches(p models.PartRecord, term, category, brand string) bool {
	if term != "" &&
		!strings.Contains(strings.ToLower(p.Name), term) &&
		!strings.Contains(strings.ToLower(p.Brand), term) {
		return false
	}
	if category != models.FilterAll && string(p.Category) != category {
		return false
	}
	if brand != models.FilterAll && p.Brand != brand {
		return false
	}
	return true
}

// Page slices a filtered result. A non-positive limit returns everything after offset.
func Page(parts []models.PartRecord, limit, offset int) []models.PartRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(parts) {
		return []models.PartRecord{}
	}
	end := len(parts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return parts[offset:end]
}
