package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/ratelimit"
)

const forumCategory = "Community"

type ForumFetcher struct {
	name      string
	url       string
	selectors ForumSelectors
	limiter   *ratelimit.Limiter
	config    FetcherConfig
	client    *http.Client
}

type ForumSelectors struct {
	Container string
	Title     string
	Link      string
	Author    string
	Summary   string
}

func NewForumFetcher(name, url string, selectors ForumSelectors, limiter *ratelimit.Limiter, config FetcherConfig) *ForumFetcher {
	return &ForumFetcher{
		name:      name,
		url:       url,
		selectors: selectors,
		limiter:   limiter,
		config:    config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (f *ForumFetcher) Name() string {
	return f.name
}

func (f *ForumFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{
		ID:         sourceID(f.name),
		Name:       f.name,
		URL:        f.url,
		SourceType: "community",
		FeedType:   "forum",
		Enabled:    true,
	}
}

func (f *ForumFetcher) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	if err := f.limiter.Wait(ctx, f.url); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", f.url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forum page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forum returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse forum HTML: %w", err)
	}

	items := make([]models.NewsItem, 0)
	doc.Find(f.selectors.Container).Each(func(i int, s *goquery.Selection) {
		if len(items) >= f.config.MaxItems {
			return
		}

		title := strings.TrimSpace(s.Find(f.selectors.Title).Text())
		if title == "" {
			return
		}

		link, _ := s.Find(f.selectors.Link).Attr("href")
		if link == "" {
			link, _ = s.Find(f.selectors.Title).Attr("href")
		}
		link = resolveURL(f.url, link)

		items = append(items, models.NewsItem{
			ID:          generateID(f.name, link),
			Title:       title,
			URL:         link,
			Source:      f.name,
			SourceType:  "forum",
			Category:    forumCategory,
			Author:      strings.TrimSpace(s.Find(f.selectors.Author).Text()),
			Summary:     truncate(strings.TrimSpace(s.Find(f.selectors.Summary).Text()), 300),
			PublishedAt: time.Now(),
			Tags:        []string{},
		})
	})

	return items, nil
}

// resolveURL makes a relative link absolute against the page it came from
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// DefaultForumFetchers scrapes the newest community threads
func DefaultForumFetchers(limiter *ratelimit.Limiter, config FetcherConfig) []Fetcher {
	return []Fetcher{
		NewForumFetcher("IntoFPV Forum", "https://intofpv.com/search.php?action=getnew", ForumSelectors{
			Container: "tr.inline_row",
			Title:     "span.subject_new a, span.subject_old a",
			Link:      "span.subject_new a, span.subject_old a",
			Author:    ".author a",
			Summary:   ".thread_start_datetime",
		}, limiter, config),
	}
}
