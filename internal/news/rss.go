package news

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/ratelimit"
)

type RSSFetcher struct {
	name     string
	url      string
	category string
	parser   *gofeed.Parser
	limiter  *ratelimit.Limiter
	config   FetcherConfig
}

// NewRSSFetcher reads an RSS or Atom feed. category labels items the tagger
// cannot classify.
func NewRSSFetcher(name, url, category string, limiter *ratelimit.Limiter, config FetcherConfig) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = config.UserAgent
	return &RSSFetcher{
		name:     name,
		url:      url,
		category: category,
		parser:   parser,
		limiter:  limiter,
		config:   config,
	}
}

func (f *RSSFetcher) Name() string {
	return f.name
}

func (f *RSSFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{
		ID:         sourceID(f.name),
		Name:       f.name,
		URL:        f.url,
		SourceType: "news",
		FeedType:   "rss",
		Enabled:    true,
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	if err := f.limiter.Wait(ctx, f.url); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", f.url, err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(f.url, ctxWithTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed %s: %w", f.url, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for i, item := range feed.Items {
		if i >= f.config.MaxItems {
			break
		}

		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		tags := item.Categories
		if tags == nil {
			tags = []string{}
		}

		items = append(items, models.NewsItem{
			ID:          generateID(f.name, item.Link),
			Title:       item.Title,
			URL:         item.Link,
			Source:      f.name,
			SourceType:  "rss",
			Category:    f.category,
			Summary:     truncate(item.Description, 300),
			Author:      author,
			PublishedAt: publishedAt,
			Tags:        tags,
		})
	}

	return items, nil
}

// DefaultRSSFetchers covers firmware releases and general FPV news
func DefaultRSSFetchers(limiter *ratelimit.Limiter, config FetcherConfig) []Fetcher {
	sources := []struct {
		name     string
		url      string
		category string
	}{
		{"Betaflight Releases", "https://github.com/betaflight/betaflight/releases.atom", "Firmware"},
		{"ExpressLRS Releases", "https://github.com/ExpressLRS/ExpressLRS/releases.atom", "Radio"},
		{"Oscar Liang", "https://oscarliang.com/feed/", "Hardware"},
	}

	fetchers := make([]Fetcher, 0, len(sources))
	for _, s := range sources {
		fetchers = append(fetchers, NewRSSFetcher(s.name, s.url, s.category, limiter, config))
	}
	return fetchers
}
