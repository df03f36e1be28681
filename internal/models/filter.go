package models

import "strings"

// FilterAll disables a category or brand constraint
const FilterAll = "All"

// FilterState is the transient catalog filter chosen by a viewer
type FilterState struct {
	SearchTerm string `json:"searchTerm"`
	Category   string `json:"category"`
	Brand      string `json:"brand"`
}

// DefaultFilter matches every record
func DefaultFilter() FilterState {
	return FilterState{Category: FilterAll, Brand: FilterAll}
}

// Normalize treats blank constraints as "All"
func (f FilterState) Normalize() FilterState {
	if strings.TrimSpace(f.Category) == "" {
		f.Category = FilterAll
	}
	if strings.TrimSpace(f.Brand) == "" {
		f.Brand = FilterAll
	}
	return f
}
