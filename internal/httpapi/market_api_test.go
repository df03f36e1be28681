package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/news"
	"github.com/johnrirwin/fpviraq/internal/testutil"
)

type downFetcher struct{}

func (downFetcher) Name() string { return "down" }

func (downFetcher) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (downFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{ID: "down", Name: "down"}
}

func TestMarketAPI_Products(t *testing.T) {
	s := newTestServer(t)
	c := &testClient{t: t, handler: s.Handler()}

	w := c.do(http.MethodGet, "/api/market/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MarketResponse
	decode(t, w, &resp)
	assert.Equal(t, float64(1310), resp.ExchangeRate)
	require.Len(t, resp.Products, 5)
	for _, p := range resp.Products {
		assert.NotEmpty(t, p.FormattedIQD)
		assert.Positive(t, p.PriceIQD)
	}
}

func TestMarketAPI_Convert(t *testing.T) {
	s := newTestServer(t)
	c := &testClient{t: t, handler: s.Handler()}

	w := c.do(http.MethodGet, "/api/market/convert?usd=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp convertResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(13100), resp.IQD)
	assert.Equal(t, "13,100 IQD", resp.Formatted)

	for _, q := range []string{"", "usd=abc", "usd=NaN"} {
		w := c.do(http.MethodGet, "/api/market/convert?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestNewsEndpoints(t *testing.T) {
	s := newTestServer(t)
	c := &testClient{t: t, handler: s.Handler()}

	w := c.do(http.MethodGet, "/api/news?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.NewsResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 4, resp.TotalCount)

	w = c.do(http.MethodGet, "/api/news/sources", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/news/refresh", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/news/refresh", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNewsAPI_RefreshAllSourcesDown(t *testing.T) {
	s := newTestServer(t)
	s.news = news.New([]news.Fetcher{downFetcher{}}, nil, nil, nil, testutil.NullLogger())
	c := &testClient{t: t, handler: s.Handler()}

	w := c.do(http.MethodPost, "/api/news/refresh", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "refresh_failed", body["code"])
	assert.Contains(t, body["message"], "connection refused")
}
