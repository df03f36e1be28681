package models

import "time"

// NewsItem is one entry of the tech news hub
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source"`
	SourceType  string    `json:"sourceType"`
	Category    string    `json:"category"`
	Summary     string    `json:"summary,omitempty"`
	Author      string    `json:"author,omitempty"`
	Highlight   bool      `json:"highlight"`
	PublishedAt time.Time `json:"publishedAt"`
	Tags        []string  `json:"tags"`
}

type SourceInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	SourceType string `json:"sourceType"`
	FeedType   string `json:"feedType"`
	Enabled    bool   `json:"enabled"`
}

type NewsFilterParams struct {
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

type NewsResponse struct {
	Items      []NewsItem `json:"items"`
	TotalCount int        `json:"totalCount"`
	FetchedAt  time.Time  `json:"fetchedAt"`
}
