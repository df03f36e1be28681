package news

import (
	"time"

	"github.com/johnrirwin/fpviraq/internal/models"
)

const curatedSource = "FPV Iraq"

// Curated returns the editorial highlights, dated relative to now
func Curated(now time.Time) []models.NewsItem {
	entries := []struct {
		title     string
		category  string
		age       time.Duration
		highlight bool
	}{
		{"Betaflight 4.5.3 Released", "Firmware", 2 * time.Hour, true},
		{"DJI O4 Air Unit Leaks", "Hardware", 5 * time.Hour, false},
		{"ELRS v3.4 Update Guide", "Radio", 24 * time.Hour, false},
		{"New T-Motor F7 Stack Verified", "Local Stock", 48 * time.Hour, false},
	}

	items := make([]models.NewsItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.NewsItem{
			ID:          generateID(curatedSource, e.title),
			Title:       e.title,
			Source:      curatedSource,
			SourceType:  "curated",
			Category:    e.category,
			Highlight:   e.highlight,
			PublishedAt: now.Add(-e.age),
			Tags:        []string{},
		})
	}
	return items
}
