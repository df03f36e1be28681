package news

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/johnrirwin/fpviraq/internal/models"
)

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.NewsItem, error)
	SourceInfo() models.SourceInfo
}

type FetchResult struct {
	Items  []models.NewsItem
	Source models.SourceInfo
	Error  error
}

type FetcherConfig struct {
	Timeout   time.Duration
	MaxItems  int
	UserAgent string
}

func DefaultConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   30 * time.Second,
		MaxItems:  50,
		UserAgent: "FPVIraqNewsHub/1.0",
	}
}

func sourceID(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

func generateID(source, url string) string {
	hash := sha256.Sum256([]byte(source + url))
	return fmt.Sprintf("%x", hash[:8])
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
