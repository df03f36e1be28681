// Package news is the tech news hub: curated highlights merged with items
// fetched from feeds and forums.
package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/johnrirwin/fpviraq/internal/cache"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/tagging"
)

const (
	itemsCacheKey = "news:items"
	itemsCacheTTL = 6 * time.Hour
)

// ErrAllSourcesFailed is returned by Refresh when no configured source answered
var ErrAllSourcesFailed = errors.New("every news source failed")

// Archive persists fetched items beyond the cache lifetime
type Archive interface {
	UpsertItems(ctx context.Context, items []models.NewsItem) error
	QueryItems(ctx context.Context, params models.NewsFilterParams) ([]models.NewsItem, error)
}

type Hub struct {
	fetchers []Fetcher
	cache    cache.Cache
	archive  Archive
	tagger   *tagging.Tagger
	logger   *logging.Logger
	now      func() time.Time

	mu        sync.RWMutex
	items     []models.NewsItem
	fetchedAt time.Time
}

// New creates a hub. cache and archive may be nil.
func New(fetchers []Fetcher, c cache.Cache, archive Archive, tagger *tagging.Tagger, logger *logging.Logger) *Hub {
	return &Hub{
		fetchers: fetchers,
		cache:    c,
		archive:  archive,
		tagger:   tagger,
		logger:   logger,
		now:      time.Now,
		items:    make([]models.NewsItem, 0),
	}
}

// Refresh fetches every source concurrently. Failing sources are logged and skipped;
// if all of them fail the previous items are kept and ErrAllSourcesFailed is returned.
func (h *Hub) Refresh(ctx context.Context) error {
	var wg sync.WaitGroup
	results := make(chan FetchResult, len(h.fetchers))

	for _, fetcher := range h.fetchers {
		wg.Add(1)
		go func(f Fetcher) {
			defer wg.Done()

			items, err := f.Fetch(ctx)
			results <- FetchResult{
				Items:  items,
				Source: f.SourceInfo(),
				Error:  err,
			}
		}(fetcher)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	allItems := make([]models.NewsItem, 0)
	var failures []error
	for result := range results {
		if result.Error != nil {
			failures = append(failures, fmt.Errorf("%s: %w", result.Source.Name, result.Error))
			h.logger.Warn("Failed to fetch from source", logging.WithFields(map[string]interface{}{
				"source": result.Source.Name,
				"error":  result.Error.Error(),
			}))
			continue
		}

		h.logger.Info("Fetched items from source", logging.WithFields(map[string]interface{}{
			"source": result.Source.Name,
			"count":  len(result.Items),
		}))

		for i := range result.Items {
			h.classify(&result.Items[i])
		}
		allItems = append(allItems, result.Items...)
	}

	if len(h.fetchers) > 0 && len(failures) == len(h.fetchers) {
		return fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(failures...))
	}

	items := deduplicate(allItems)
	sortByDate(items)

	h.mu.Lock()
	h.items = items
	h.fetchedAt = h.now()
	h.mu.Unlock()

	if h.cache != nil {
		if err := cache.SetJSON(ctx, h.cache, itemsCacheKey, items, itemsCacheTTL); err != nil {
			h.logger.Warn("Failed to cache news items", logging.WithField("error", err))
		}
	}
	if h.archive != nil {
		if err := h.archive.UpsertItems(ctx, items); err != nil {
			h.logger.Warn("Failed to archive news items", logging.WithField("error", err))
		}
	}

	h.logger.Info("News refresh complete", logging.WithFields(map[string]interface{}{
		"total_items":  len(items),
		"sources_used": len(h.fetchers),
	}))
	return nil
}

func (h *Hub) classify(item *models.NewsItem) {
	if h.tagger == nil {
		return
	}
	if category := h.tagger.Category(item.Title, item.Summary); category != "" {
		item.Category = category
	}
	item.Tags = mergeTags(item.Tags, h.tagger.InferTags(item.Title, item.Summary))
}

// fetched returns refreshed items, warming from the cache and then the archive
func (h *Hub) fetched(ctx context.Context) []models.NewsItem {
	h.mu.RLock()
	items := h.items
	h.mu.RUnlock()
	if len(items) > 0 {
		return items
	}

	var warmed []models.NewsItem
	if h.cache != nil && cache.GetJSON(ctx, h.cache, itemsCacheKey, &warmed) && len(warmed) > 0 {
		h.store(warmed)
		return warmed
	}
	if h.archive != nil {
		archived, err := h.archive.QueryItems(ctx, models.NewsFilterParams{})
		if err != nil {
			h.logger.Warn("Failed to read news archive", logging.WithField("error", err))
		} else if len(archived) > 0 {
			h.store(archived)
			return archived
		}
	}
	return items
}

func (h *Hub) store(items []models.NewsItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) == 0 {
		h.items = items
	}
}

// Items lists curated highlights first, then fetched items newest first.
// A blank or "All" category matches everything; a non-positive limit means no limit.
func (h *Hub) Items(ctx context.Context, params models.NewsFilterParams) models.NewsResponse {
	all := append(Curated(h.now()), h.fetched(ctx)...)
	all = deduplicate(all)

	category := strings.TrimSpace(params.Category)
	filtered := make([]models.NewsItem, 0, len(all))
	for _, item := range all {
		if category == "" || category == models.FilterAll || strings.EqualFold(item.Category, category) {
			filtered = append(filtered, item)
		}
	}

	total := len(filtered)
	if params.Limit > 0 && params.Limit < len(filtered) {
		filtered = filtered[:params.Limit]
	}

	h.mu.RLock()
	fetchedAt := h.fetchedAt
	h.mu.RUnlock()
	if fetchedAt.IsZero() {
		fetchedAt = h.now()
	}

	return models.NewsResponse{
		Items:      filtered,
		TotalCount: total,
		FetchedAt:  fetchedAt,
	}
}

func (h *Hub) Sources() []models.SourceInfo {
	out := make([]models.SourceInfo, 0, len(h.fetchers))
	for _, f := range h.fetchers {
		out = append(out, f.SourceInfo())
	}
	return out
}

// Start refreshes immediately and then every interval until ctx is done
func (h *Hub) Start(ctx context.Context, interval time.Duration) {
	go func() {
		if err := h.Refresh(ctx); err != nil {
			h.logger.Warn("Initial news refresh failed", logging.WithField("error", err))
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := h.Refresh(ctx); err != nil {
					h.logger.Warn("News refresh failed", logging.WithField("error", err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func deduplicate(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]bool)
	titleSeen := make(map[string]bool)
	result := make([]models.NewsItem, 0, len(items))

	for _, item := range items {
		if seen[item.ID] {
			continue
		}

		normalizedTitle := strings.ToLower(strings.TrimSpace(item.Title))
		if titleSeen[normalizedTitle] {
			continue
		}

		seen[item.ID] = true
		titleSeen[normalizedTitle] = true
		result = append(result, item)
	}

	return result
}

func sortByDate(items []models.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func mergeTags(existing, inferred []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(existing)+len(inferred))

	for _, tag := range append(append([]string{}, existing...), inferred...) {
		lower := strings.ToLower(tag)
		if !seen[lower] {
			seen[lower] = true
			result = append(result, tag)
		}
	}

	return result
}
