package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// resty only unmarshals the result when the response says JSON.
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	t.Setenv("COINGECKO_API_URL", server.URL)
	return NewClient()
}

func TestCoinIdAliases(t *testing.T) {
	assert.Equal(t, "bitcoin", coinId("BTC"))
	assert.Equal(t, "avalanche-2", coinId("avax"))
	assert.Equal(t, "bitcoin", coinId("bitcoin"))
	// Unknown tickers pass through lowercased.
	assert.Equal(t, "somecoin", coinId("SomeCoin"))
}

func TestGetQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		fmt.Fprint(w, `{"bitcoin":{"usd":65000.5,"usd_24h_change":-1.2,"usd_market_cap":1.2e12}}`)
	})

	quote, err := c.GetQuote(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "btc", quote.Asset)
	assert.InDelta(t, 65000.5, quote.Price, 1e-9)
	assert.InDelta(t, -1.2, quote.Change24h, 1e-9)
}

func TestGetQuoteUnknownAsset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	_, err := c.GetQuote(context.Background(), "nonsense")
	assert.Error(t, err)
}

func TestGetHistorical(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("days"))
		// Two daily closes, milliseconds since epoch.
		fmt.Fprint(w, `{"prices":[[1772323200000,64000],[1772409600000,65000]]}`)
	})

	points, err := c.GetHistorical(context.Background(), "bitcoin", 7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Date.Before(points[1].Date))
	assert.Equal(t, time.UTC, points[0].Date.Location())
	assert.InDelta(t, 64000, points[0].Price, 1e-9)
}

func TestGetHistoricalServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.GetHistorical(context.Background(), "bitcoin", 7)
	assert.Error(t, err)
}
