package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/collector/builder"
	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/prices"
	"github.com/cryptopulse/cryptopulse/sentiment"
	"github.com/cryptopulse/cryptopulse/store"
	"github.com/cryptopulse/cryptopulse/utils"
)

type stubCollector struct {
	posts    []model.Post
	lastTask *collector.Task
}

func (stubCollector) Source() string { return "reddit" }
func (stubCollector) Method() string { return model.MethodHTTP }
func (s stubCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	if s.lastTask != nil {
		*s.lastTask = task
	}
	return s.posts, nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := stubCollector{posts: []model.Post{
		{Source: "reddit", Method: model.MethodHTTP, ExternalId: "t3_a",
			Title: "bullish on btc", OriginChannel: "Bitcoin",
			ScrapedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}}

	srv := &Server{
		Store: store.NewPostStore(utils.CreateTempDB(t), nil),
		Collectors: map[string]collector.PostCollector{
			builder.CollectorKey(stub.Source(), stub.Method()): stub,
		},
		Sentiments: sentiment.NewRegistry(),
		Prices:     prices.NewClient(),
		ExportDir:  t.TempDir(),
	}
	router := gin.New()
	srv.Register(router)
	return srv, router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)
	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGate(t *testing.T) {
	t.Setenv("ACCESS_GATE_SECRET", "hunter2")
	_, router := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("X-Access-Token", "hunter2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open for probes.
	w = doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScrapeThenPostsAndStats(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/scrape", gin.H{
		"source": "reddit", "asset": "bitcoin", "limit": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var meta collector.Metadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, 1, meta.Collected)
	assert.Equal(t, 1, meta.New)

	// A second scrape of the same content is all duplicates.
	w = doJSON(router, http.MethodPost, "/api/scrape", gin.H{
		"source": "reddit", "asset": "bitcoin", "limit": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, 0, meta.New)
	assert.Equal(t, 1, meta.Duplicate)

	w = doJSON(router, http.MethodGet, "/api/posts?source=reddit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Count int          `json:"count"`
		Posts []model.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)

	w = doJSON(router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats store.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalPosts)
}

func TestScrapeDefaultsAssetAndLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got collector.Task
	stub := stubCollector{lastTask: &got}

	srv := &Server{
		Store: store.NewPostStore(utils.CreateTempDB(t), nil),
		Collectors: map[string]collector.PostCollector{
			builder.CollectorKey(stub.Source(), stub.Method()): stub,
		},
		Sentiments: sentiment.NewRegistry(),
		Prices:     prices.NewClient(),
		ExportDir:  t.TempDir(),
	}
	router := gin.New()
	srv.Register(router)

	w := doJSON(router, http.MethodPost, "/api/scrape", gin.H{"source": "reddit"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bitcoin", got.Asset)
	assert.Equal(t, 100, got.Limit)
}

func TestScrapeUnknownSource(t *testing.T) {
	_, router := newTestServer(t)
	w := doJSON(router, http.MethodPost, "/api/scrape", gin.H{"source": "myspace"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	srv, router := newTestServer(t)
	_, err := srv.Store.Save([]model.Post{{
		Source: "reddit", Method: model.MethodHTTP, ExternalId: "t3_a", Title: "x",
	}})
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/export", gin.H{"format": "csv"})
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Path, "scrapes_all_all_")
}

func TestSentimentEndpointBadModel(t *testing.T) {
	_, router := newTestServer(t)
	w := doJSON(router, http.MethodPost, "/api/sentiment", gin.H{
		"model": "not-a-model", "texts": []string{"bitcoin strong"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareModelsEndpoint(t *testing.T) {
	// One inference stub serves both model paths and calls everything
	// bullish, so the models must agree on every post.
	inference := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		classes := make([]string, 0, len(req.Inputs))
		for range req.Inputs {
			classes = append(classes,
				`[{"label":"Bullish","score":0.9},{"label":"Bearish","score":0.05},{"label":"Neutral","score":0.05}]`)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "["+strings.Join(classes, ",")+"]")
	}))
	t.Cleanup(inference.Close)
	t.Setenv("INFERENCE_API_URL", inference.URL)

	srv, router := newTestServer(t)
	bullish := "Bullish"
	_, err := srv.Store.Save([]model.Post{
		{Source: "reddit", Method: model.MethodHTTP, ExternalId: "t3_x",
			Title: "to the moon", Text: "price is going to the moon",
			HumanLabel: &bullish, ScrapedAt: time.Now().UTC()},
		{Source: "reddit", Method: model.MethodHTTP, ExternalId: "t3_y",
			Title: "still holding", Text: "holding through the dip",
			ScrapedAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/compare/models", gin.H{"source": "reddit"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts     int     `json:"posts"`
		Agreement float64 `json:"agreement_percent"`
		Models    map[string]struct {
			Accuracy sentiment.Accuracy `json:"accuracy"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Posts)
	assert.InDelta(t, 100, resp.Agreement, 1e-9)
	require.Contains(t, resp.Models, sentiment.ModelFinbert)
	require.Contains(t, resp.Models, sentiment.ModelCryptobert)

	// Only one post carries a human label, and the stub matches it.
	acc := resp.Models[sentiment.ModelCryptobert].Accuracy
	assert.Equal(t, 1, acc.Labeled)
	assert.Equal(t, 1, acc.Correct)
}

func TestCompareModelsNoPosts(t *testing.T) {
	_, router := newTestServer(t)
	w := doJSON(router, http.MethodPost, "/api/compare/models", gin.H{"source": "reddit"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
