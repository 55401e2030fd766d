// Package prices reads spot and historical crypto prices from CoinGecko.
// Output feeds the price side of the econometric tests; nothing here is
// persisted.
package prices

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const coingeckoBaseUri = "https://api.coingecko.com/api/v3"

// Common ticker aliases to CoinGecko coin ids.
var coinIds = map[string]string{
	"btc": "bitcoin", "eth": "ethereum", "sol": "solana",
	"ada": "cardano", "doge": "dogecoin", "xrp": "ripple",
	"dot": "polkadot", "link": "chainlink", "ltc": "litecoin",
	"avax": "avalanche-2", "avalanche": "avalanche-2",
	"matic": "matic-network", "polygon": "matic-network",
}

type Quote struct {
	Asset     string  `json:"asset"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	MarketCap float64 `json:"market_cap"`
}

type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type Client struct {
	http *resty.Client
}

func NewClient() *Client {
	base := os.Getenv("COINGECKO_API_URL")
	if base == "" {
		base = coingeckoBaseUri
	}
	client := resty.New().
		SetBaseURL(base).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if key := os.Getenv("COINGECKO_API_KEY"); key != "" {
		client.SetHeader("x-cg-demo-api-key", key)
	}
	return &Client{http: client}
}

func coinId(asset string) string {
	lower := strings.ToLower(asset)
	if id, ok := coinIds[lower]; ok {
		return id
	}
	return lower
}

// GetQuote returns the current USD quote for the asset.
func (c *Client) GetQuote(ctx context.Context, asset string) (*Quote, error) {
	id := coinId(asset)

	var out map[string]map[string]float64
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 id,
			"vs_currencies":       "usd",
			"include_24hr_change": "true",
			"include_market_cap":  "true",
		}).
		SetResult(&out).
		ForceContentType("application/json").
		Get("/simple/price")
	if err != nil {
		return nil, errors.Wrap(err, "coingecko request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("coingecko returned status %d", resp.StatusCode())
	}

	data, ok := out[id]
	if !ok {
		return nil, errors.Errorf("unknown asset %q", asset)
	}
	return &Quote{
		Asset:     asset,
		Price:     data["usd"],
		Change24h: data["usd_24h_change"],
		MarketCap: data["usd_market_cap"],
	}, nil
}

type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// GetHistorical returns one daily USD close per day over the trailing
// window, oldest first.
func (c *Client) GetHistorical(ctx context.Context, asset string, days int) ([]PricePoint, error) {
	var out marketChart
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"days":        strconv.Itoa(days),
			"interval":    "daily",
		}).
		SetResult(&out).
		ForceContentType("application/json").
		Get("/coins/" + coinId(asset) + "/market_chart")
	if err != nil {
		return nil, errors.Wrap(err, "coingecko request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("coingecko returned status %d", resp.StatusCode())
	}

	points := make([]PricePoint, 0, len(out.Prices))
	for _, p := range out.Prices {
		points = append(points, PricePoint{
			Date:  time.UnixMilli(int64(p[0])).UTC().Truncate(24 * time.Hour),
			Price: p[1],
		})
	}
	return points, nil
}
