package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnrirwin/fpviraq/internal/cache"
	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/tagging"
	"github.com/johnrirwin/fpviraq/internal/testutil"
)

type fakeFetcher struct {
	name  string
	items []models.NewsItem
	err   error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	return f.items, f.err
}

func (f *fakeFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{ID: sourceID(f.name), Name: f.name}
}

type fakeArchive struct {
	stored []models.NewsItem
}

func (a *fakeArchive) UpsertItems(ctx context.Context, items []models.NewsItem) error {
	a.stored = append(a.stored, items...)
	return nil
}

func (a *fakeArchive) QueryItems(ctx context.Context, params models.NewsFilterParams) ([]models.NewsItem, error) {
	return a.stored, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func feedItem(id, title string, age time.Duration) models.NewsItem {
	return models.NewsItem{ID: id, Title: title, Source: "Feed", SourceType: "rss", Category: "Hardware", PublishedAt: fixedNow.Add(-age)}
}

func newTestHub(fetchers []Fetcher, c cache.Cache, archive Archive) *Hub {
	h := New(fetchers, c, archive, tagging.New(), testutil.NullLogger())
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestCurated(t *testing.T) {
	items := Curated(fixedNow)
	if len(items) != 4 {
		t.Fatalf("Curated() returned %d items, want 4", len(items))
	}
	if items[0].Title != "Betaflight 4.5.3 Released" || !items[0].Highlight {
		t.Errorf("first curated item = %+v", items[0])
	}
	if items[3].Category != "Local Stock" {
		t.Errorf("last curated category = %q", items[3].Category)
	}
	if got := fixedNow.Sub(items[2].PublishedAt); got != 24*time.Hour {
		t.Errorf("ELRS guide age = %v, want 24h", got)
	}
	for _, item := range items[1:] {
		if item.Highlight {
			t.Errorf("%q should not be highlighted", item.Title)
		}
	}
}

func TestHub_RefreshAllSourcesFailing(t *testing.T) {
	ctx := context.Background()
	good := &fakeFetcher{name: "good", items: []models.NewsItem{feedItem("a", "Frame review", time.Hour)}}
	bad := &fakeFetcher{name: "bad", err: errors.New("timeout")}
	h := newTestHub([]Fetcher{good, bad}, nil, nil)

	if err := h.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	good.err = errors.New("connection refused")
	err := h.Refresh(ctx)
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("Refresh() error = %v, want ErrAllSourcesFailed", err)
	}
	if !strings.Contains(err.Error(), "connection refused") || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error %q should name both failures", err)
	}

	// previous items survive the failed refresh
	if resp := h.Items(ctx, models.NewsFilterParams{}); resp.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", resp.TotalCount)
	}

	if err := newTestHub(nil, nil, nil).Refresh(ctx); err != nil {
		t.Errorf("Refresh() with no sources error = %v", err)
	}
}

func TestHub_ItemsWithoutRefresh(t *testing.T) {
	h := newTestHub(nil, nil, nil)

	resp := h.Items(context.Background(), models.NewsFilterParams{})
	if resp.TotalCount != 4 || len(resp.Items) != 4 {
		t.Errorf("got %d items (total %d), want curated 4", len(resp.Items), resp.TotalCount)
	}
}

func TestHub_RefreshSkipsFailingSources(t *testing.T) {
	fetchers := []Fetcher{
		&fakeFetcher{name: "good", items: []models.NewsItem{
			feedItem("a", "Older motor teardown", 10*time.Hour),
			feedItem("b", "Betaflight 4.6 RC1 notes", time.Hour),
		}},
		&fakeFetcher{name: "bad", err: errors.New("timeout")},
	}
	h := newTestHub(fetchers, nil, nil)

	if err := h.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	resp := h.Items(context.Background(), models.NewsFilterParams{})
	if resp.TotalCount != 6 {
		t.Fatalf("TotalCount = %d, want 6", resp.TotalCount)
	}
	if resp.Items[4].ID != "b" || resp.Items[5].ID != "a" {
		t.Errorf("fetched items not newest first: %s, %s", resp.Items[4].ID, resp.Items[5].ID)
	}
	// the tagger reclassifies the firmware headline
	if resp.Items[4].Category != "Firmware" {
		t.Errorf("category = %q, want Firmware", resp.Items[4].Category)
	}
}

func TestHub_CategoryAndLimit(t *testing.T) {
	h := newTestHub(nil, nil, nil)

	resp := h.Items(context.Background(), models.NewsFilterParams{Category: "radio"})
	if resp.TotalCount != 1 || resp.Items[0].Title != "ELRS v3.4 Update Guide" {
		t.Errorf("radio filter = %+v", resp.Items)
	}

	resp = h.Items(context.Background(), models.NewsFilterParams{Category: "All", Limit: 2})
	if len(resp.Items) != 2 || resp.TotalCount != 4 {
		t.Errorf("limit 2: got %d items, total %d", len(resp.Items), resp.TotalCount)
	}
}

func TestHub_WarmsFromCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Hour)
	defer c.Stop()

	fetchers := []Fetcher{&fakeFetcher{name: "good", items: []models.NewsItem{feedItem("a", "Frame review", time.Hour)}}}
	if err := newTestHub(fetchers, c, nil).Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	cold := newTestHub(nil, c, nil)
	if resp := cold.Items(ctx, models.NewsFilterParams{}); resp.TotalCount != 5 {
		t.Errorf("cold hub TotalCount = %d, want 5", resp.TotalCount)
	}
}

func TestHub_ArchiveWriteAndFallback(t *testing.T) {
	ctx := context.Background()
	archive := &fakeArchive{}

	fetchers := []Fetcher{&fakeFetcher{name: "good", items: []models.NewsItem{feedItem("a", "Frame review", time.Hour)}}}
	if err := newTestHub(fetchers, nil, archive).Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(archive.stored) != 1 {
		t.Fatalf("archive holds %d items, want 1", len(archive.stored))
	}

	cold := newTestHub(nil, nil, archive)
	if resp := cold.Items(ctx, models.NewsFilterParams{}); resp.TotalCount != 5 {
		t.Errorf("archive-backed TotalCount = %d, want 5", resp.TotalCount)
	}
}

func TestDeduplicate(t *testing.T) {
	items := []models.NewsItem{
		{ID: "1", Title: "Same"},
		{ID: "1", Title: "Other"},
		{ID: "2", Title: "  same "},
		{ID: "3", Title: "Unique"},
	}
	got := deduplicate(items)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("deduplicate() = %+v", got)
	}
}

func TestMergeTags(t *testing.T) {
	got := mergeTags([]string{"FPV", "dji"}, []string{"DJI", "HD"})
	want := []string{"FPV", "dji", "HD"}
	if len(got) != len(want) {
		t.Fatalf("mergeTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mergeTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
